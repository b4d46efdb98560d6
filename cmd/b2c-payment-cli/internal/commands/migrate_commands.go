package commands

import (
	"fmt"

	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/persistence"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/spf13/cobra"
)

// MigrateCommandHandler encapsulates logic for managing the database schema via CLI.
type MigrateCommandHandler struct {
	logger logger.Logger
}

// NewMigrateCommandHandler initializes a new MigrateCommandHandler with logging.
func NewMigrateCommandHandler() (*MigrateCommandHandler, error) {
	loggerInstance, err := setupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	return &MigrateCommandHandler{
		logger: loggerInstance,
	}, nil
}

// withMigrator opens the configured database, runs fn and closes the connection.
func (commandHandler *MigrateCommandHandler) withMigrator(cmd *cobra.Command, fn func(*persistence.Migrator) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
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

	migrator, err := persistence.NewMigrator(db, cfg.Database.Type, commandHandler.logger)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	return fn(migrator)
}

// MigrateUpCmd applies all pending migrations
func (commandHandler *MigrateCommandHandler) MigrateUpCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.withMigrator(cmd, func(migrator *persistence.Migrator) error {
		if err := migrator.Up(); err != nil {
			return err
		}
		commandHandler.logger.Info("Database schema is up to date")
		return nil
	})
}

// MigrateDownCmd rolls back the given number of migrations
func (commandHandler *MigrateCommandHandler) MigrateDownCmd(cmd *cobra.Command, _ []string) error {
	steps, err := cmd.Flags().GetInt("steps")
	if err != nil {
		return fmt.Errorf("invalid steps flag: %w", err)
	}

	return commandHandler.withMigrator(cmd, func(migrator *persistence.Migrator) error {
		if err := migrator.Down(steps); err != nil {
			return err
		}
		commandHandler.logger.Info("Rolled back ", steps, " migration(s)")
		return nil
	})
}

// MigrateVersionCmd prints the current schema version
func (commandHandler *MigrateCommandHandler) MigrateVersionCmd(cmd *cobra.Command, _ []string) error {
	return commandHandler.withMigrator(cmd, func(migrator *persistence.Migrator) error {
		version, dirty, err := migrator.Version()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", version, dirty)
		return nil
	})
}

// InitMigrateCommands registers the migrate command group.
func InitMigrateCommands(rootCmd *cobra.Command) error {
	handler, err := NewMigrateCommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create migrate command handler %w", err)
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var upCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  handler.MigrateUpCmd,
	}
	migrateCmd.AddCommand(upCmd)

	var downCmd = &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE:  handler.MigrateDownCmd,
	}
	downCmd.Flags().IntP("steps", "", 1, "Number of migrations to roll back")
	migrateCmd.AddCommand(downCmd)

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE:  handler.MigrateVersionCmd,
	}
	migrateCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(migrateCmd)
	return nil
}
