package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/robfig/cron/v3"
)

// TimedOutReason is the failure reason of payments failed by reconciliation.
const TimedOutReason = "Processing timed out"

// ReconciliationJob fails payments left in PENDING or PROCESSING for longer than
// the configured staleness window, e.g. after a crash lost their queued work.
type ReconciliationJob struct {
	repository payments.PaymentRepository
	lifecycle  *lifecycle
	settings   config.ReconciliationSettings
	now        func() time.Time
	logger     logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	running bool
}

// NewReconciliationJob creates a new ReconciliationJob
func NewReconciliationJob(
	settings config.ReconciliationSettings,
	repository payments.PaymentRepository,
	notifier payments.Notifier,
	publisher payments.EventPublisher,
	metrics Metrics,
	logger logger.Logger,
) (*ReconciliationJob, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if repository == nil || notifier == nil || publisher == nil {
		return nil, fmt.Errorf("reconciliation job requires a repository, notifier and publisher")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ReconciliationJob{
		repository: repository,
		lifecycle: &lifecycle{
			notifier:  notifier,
			publisher: publisher,
			metrics:   metrics,
			logger:    logger,
		},
		settings: settings,
		now:      time.Now,
		logger:   logger,
	}, nil
}

// Reconcile runs a single pass over one batch of stale payments.
func (j *ReconciliationJob) Reconcile(ctx context.Context) (*payments.ReconciliationSummary, error) {
	summary := &payments.ReconciliationSummary{Started: j.now().UTC()}

	stale, err := j.repository.ListStale(ctx, payments.StaleQuery{
		Statuses:  []payments.Status{payments.StatusPending, payments.StatusProcessing},
		OlderThan: summary.Started.Add(-j.settings.StaleAfter),
		Limit:     j.settings.BatchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list stale payments: %w", err)
	}
	summary.Scanned = len(stale)

	for _, payment := range stale {
		failed, err := j.repository.TransitionStatus(ctx, payment.ID, payments.Failed(payment.Status, TimedOutReason))
		if err != nil {
			summary.Skipped++
			if errors.Is(err, payments.ErrStatusConflict) {
				j.logger.Debug("Payment ", payment.ID, " completed while reconciling, skipping")
				continue
			}
			j.logger.Error("Failed to time out payment ", payment.ID, ": ", err)
			continue
		}

		summary.Failed++
		j.logger.Warn("Payment ", payment.ID, " timed out in status ", payment.Status)
		j.lifecycle.completed(ctx, failed, true)
	}

	summary.Finished = j.now().UTC()
	j.lifecycle.metrics.ReconciliationRun(summary.Failed)
	j.logger.Info("Reconciliation finished: scanned=", summary.Scanned, " failed=", summary.Failed, " skipped=", summary.Skipped)
	return summary, nil
}

// Start schedules Reconcile. Overlapping runs are skipped.
func (j *ReconciliationJob) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return nil
	}

	cronLog := &cronLogger{logger: j.logger}
	c := cron.New(cron.WithLogger(cronLog), cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)))
	if _, err := c.AddFunc(j.settings.Schedule, j.run); err != nil {
		return fmt.Errorf("invalid reconciliation schedule %q: %w", j.settings.Schedule, err)
	}

	c.Start()
	j.cron = c
	j.running = true
	j.logger.Info("Reconciliation job scheduled with ", j.settings.Schedule)
	return nil
}

// Stop unschedules the job and waits for a running pass to finish or ctx to expire.
func (j *ReconciliationJob) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = false
	stopped := j.cron.Stop()
	j.mu.Unlock()

	select {
	case <-stopped.Done():
		j.logger.Info("Reconciliation job stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reconciliation job did not stop in time: %w", ctx.Err())
	}
}

func (j *ReconciliationJob) run() {
	if _, err := j.Reconcile(context.Background()); err != nil {
		j.logger.Error("Reconciliation run failed: ", err)
	}
}

// cronLogger adapts logger.Logger to cron.Logger
type cronLogger struct {
	logger logger.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(append([]interface{}{"cron: ", msg, " "}, keysAndValues...)...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error(append([]interface{}{"cron: ", msg, ": ", err, " "}, keysAndValues...)...)
}
