package commands

import (
	"fmt"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/app"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/connector"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/persistence"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// ReconcileCommandHandler encapsulates logic for failing stuck payments via CLI.
type ReconcileCommandHandler struct {
	logger logger.Logger
}

// NewReconcileCommandHandler initializes a new ReconcileCommandHandler with logging.
func NewReconcileCommandHandler() (*ReconcileCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &ReconcileCommandHandler{
		logger: loggerInstance,
	}, nil
}

// ReconcileCmd runs one reconciliation pass and prints its summary
func (commandHandler *ReconcileCommandHandler) ReconcileCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	staleAfter, err := cmd.Flags().GetDuration("stale-after")
	if err != nil {
		return fmt.Errorf("invalid stale-after flag: %w", err)
	}
	if staleAfter > 0 {
		cfg.Reconciliation.StaleAfter = staleAfter
	}
	batchSize, err := cmd.Flags().GetInt("batch-size")
	if err != nil {
		return fmt.Errorf("invalid batch-size flag: %w", err)
	}
	if batchSize > 0 {
		cfg.Reconciliation.BatchSize = batchSize
	}

	db, err := persistence.NewDBConnection(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer func() {
		if err := persistence.CloseDB(db); err != nil {
			commandHandler.logger.Warn("Failed to close database: ", err)
		}
	}()

	repo, err := persistence.NewGormPaymentRepository(db, commandHandler.logger)
	if err != nil {
		return fmt.Errorf("failed to create payment repository: %w", err)
	}

	smsSender, err := connector.NewMockSmsConnector(commandHandler.logger)
	if err != nil {
		return fmt.Errorf("failed to create SMS connector: %w", err)
	}
	notifier, err := app.NewSmsNotifier(smsSender, commandHandler.logger)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}

	var publisher payments.EventPublisher = connector.NewLoggingEventPublisher(commandHandler.logger)
	if cfg.AMQP.Enabled {
		amqpPublisher, err := connector.NewAMQPEventPublisher(&cfg.AMQP, commandHandler.logger)
		if err != nil {
			return fmt.Errorf("failed to create event publisher: %w", err)
		}
		defer func() {
			if err := amqpPublisher.Close(); err != nil {
				commandHandler.logger.Warn("Failed to close event publisher: ", err)
			}
		}()
		publisher = amqpPublisher
	}

	job, err := app.NewReconciliationJob(cfg.Reconciliation, repo, notifier, publisher, nil, commandHandler.logger)
	if err != nil {
		return fmt.Errorf("failed to create reconciliation job: %w", err)
	}

	summary, err := job.Reconcile(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "scanned: %d failed: %d skipped: %d duration: %s\n",
		summary.Scanned, summary.Failed, summary.Skipped, summary.Finished.Sub(summary.Started).Round(time.Millisecond))
	return nil
}

// InitReconcileCommands registers the reconcile command.
func InitReconcileCommands(rootCmd *cobra.Command) error {
	handler, err := NewReconcileCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create reconcile command handler %w", err)
	}

	var reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Fail payments stuck in PENDING or PROCESSING",
		RunE:  handler.ReconcileCmd,
	}
	reconcileCmd.Flags().DurationP("stale-after", "", 0, "Override reconciliation.stale_after")
	reconcileCmd.Flags().IntP("batch-size", "", 0, "Override reconciliation.batch_size")
	rootCmd.AddCommand(reconcileCmd)
	return nil
}
