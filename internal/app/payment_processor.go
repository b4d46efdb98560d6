package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/google/uuid"
)

// MNO request outcomes reported to Metrics.
const (
	MNOOutcomeSuccess = "success"
	MNOOutcomeFailure = "failure"
	MNOOutcomeError   = "error"
)

// paymentProcessor implements the PaymentProcessor interface
type paymentProcessor struct {
	repository payments.PaymentRepository
	connector  payments.MobileMoneyConnector
	lifecycle  *lifecycle
	metrics    Metrics
	logger     logger.Logger
}

// NewPaymentProcessor creates a new instance of PaymentProcessor
func NewPaymentProcessor(
	repository payments.PaymentRepository,
	connector payments.MobileMoneyConnector,
	notifier payments.Notifier,
	publisher payments.EventPublisher,
	metrics Metrics,
	logger logger.Logger,
) (payments.PaymentProcessor, error) {
	if repository == nil || connector == nil || notifier == nil || publisher == nil {
		return nil, fmt.Errorf("payment processor requires a repository, connector, notifier and publisher")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &paymentProcessor{
		repository: repository,
		connector:  connector,
		lifecycle: &lifecycle{
			notifier:  notifier,
			publisher: publisher,
			metrics:   metrics,
			logger:    logger,
		},
		metrics: metrics,
		logger:  logger,
	}, nil
}

// Process submits a PROCESSING payment to the MNO and records the outcome.
func (p *paymentProcessor) Process(ctx context.Context, paymentID uuid.UUID) {
	p.logger.Info("Starting async MNO processing for payment ID: ", paymentID)

	payment, err := p.repository.GetByID(ctx, paymentID)
	if err != nil {
		p.logger.Error("Payment record not found for ID ", paymentID, " in async MNO processing task: ", err)
		return
	}

	if payment.Status != payments.StatusProcessing {
		p.logger.Warn("Async MNO processing for payment ID ", paymentID, " skipped: Status is already ", payment.Status)
		return
	}

	started := time.Now()
	update, err := p.connector.ProcessB2CPayment(ctx, payment)
	switch {
	case err != nil:
		p.metrics.ObserveMNORequest(MNOOutcomeError, time.Since(started))
		p.logger.Error("MNO processing failed for paymentId: ", paymentID, ". Cause: ", err)
		update = payments.Failed(payments.StatusProcessing, "MNO communication error: "+err.Error())
	case update.To == payments.StatusSuccessful:
		p.metrics.ObserveMNORequest(MNOOutcomeSuccess, time.Since(started))
	default:
		p.metrics.ObserveMNORequest(MNOOutcomeFailure, time.Since(started))
	}

	// The outcome is recorded even when processing was cancelled mid-flight.
	writeCtx := context.WithoutCancel(ctx)
	final, err := p.repository.TransitionStatus(writeCtx, paymentID, update)
	if errors.Is(err, payments.ErrStatusConflict) {
		p.logger.Warn("Ignoring MNO result for payment ID ", paymentID, ": ", err)
		return
	}
	if err != nil {
		p.logger.Error("Failed to record MNO result for payment ID ", paymentID, ": ", err)
		return
	}

	p.logger.Info("Final payment status updated to ", final.Status, " for ID: ", final.ID)
	p.lifecycle.completed(writeCtx, final, true)
}
