package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/google/uuid"
)

// paymentService implements the PaymentService interface
type paymentService struct {
	repository payments.PaymentRepository
	dispatcher payments.PaymentDispatcher
	cache      payments.PaymentCache
	lifecycle  *lifecycle
	logger     logger.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(
	repository payments.PaymentRepository,
	dispatcher payments.PaymentDispatcher,
	cache payments.PaymentCache,
	publisher payments.EventPublisher,
	metrics Metrics,
	logger logger.Logger,
) (payments.PaymentService, error) {
	if repository == nil || dispatcher == nil || cache == nil || publisher == nil {
		return nil, fmt.Errorf("payment service requires a repository, dispatcher, cache and publisher")
	}
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &paymentService{
		repository: repository,
		dispatcher: dispatcher,
		cache:      cache,
		lifecycle: &lifecycle{
			publisher: publisher,
			metrics:   metrics,
			logger:    logger,
		},
		logger: logger,
	}, nil
}

// InitiatePayment atomically persists the payment in PROCESSING and dispatches it to the worker pool.
func (s *paymentService) InitiatePayment(ctx context.Context, payment *payments.Payment) (*payments.Payment, error) {
	s.logger.Info("Initiating payment for transactionId: ", payment.TransactionID)

	payment.Status = payments.StatusPending
	payment.FailureReason = nil
	payment.MnoReference = nil
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repository.GetByTransactionID(ctx, payment.TransactionID)
	switch {
	case err == nil:
		return s.resolveExisting(existing)
	case !errors.Is(err, payments.ErrPaymentNotFound):
		return nil, fmt.Errorf("failed to look up transaction %s: %w", payment.TransactionID, err)
	}

	processing, err := s.repository.CreateProcessing(ctx, payment)
	if err != nil {
		var duplicate *payments.DuplicateTransactionError
		if !errors.As(err, &duplicate) {
			return nil, fmt.Errorf("failed to save payment: %w", err)
		}
		// Lost a race with a concurrent request for the same transaction ID.
		existing, lookupErr := s.repository.GetByTransactionID(ctx, payment.TransactionID)
		if lookupErr != nil {
			return nil, err
		}
		return s.resolveExisting(existing)
	}
	s.logger.Info("Payment status updated to PROCESSING for ID: ", processing.ID)
	s.lifecycle.initiated(ctx, processing)

	if err := s.dispatcher.Dispatch(processing.ID); err != nil {
		s.logger.Error("Failed to submit MNO processing task for paymentId: ", processing.ID, ": ", err)

		reason := "Failed to initiate async MNO task: " + err.Error()
		failed, updateErr := s.repository.TransitionStatus(context.WithoutCancel(ctx), processing.ID, payments.Failed(payments.StatusProcessing, reason))
		if updateErr != nil {
			s.logger.Error("Failed to mark payment ", processing.ID, " as FAILED: ", updateErr)
		} else {
			s.lifecycle.completed(ctx, failed, false)
		}
		return nil, &payments.MMOServiceError{Message: "Failed to submit payment processing task", Err: err}
	}

	s.logger.Info("Successfully initiated payment processing for transactionId: ", processing.TransactionID)
	return processing, nil
}

func (s *paymentService) resolveExisting(existing *payments.Payment) (*payments.Payment, error) {
	if !existing.Status.IsTerminal() {
		s.logger.Warn("Duplicate transaction attempt for in-flight payment: ", existing.TransactionID)
		return nil, &payments.DuplicateTransactionError{TransactionID: existing.TransactionID}
	}
	s.logger.Info("Returning status for already completed transactionId: ", existing.TransactionID)
	return existing, nil
}

// GetPaymentByID serves terminal payments from the cache and everything else from the repository.
func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, error) {
	cached, ok, err := s.cache.Get(ctx, paymentID)
	if err != nil {
		s.logger.Warn("Payment cache lookup failed for ", paymentID, ": ", err)
	}
	if ok {
		return cached, nil
	}

	payment, err := s.repository.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.Status.IsTerminal() {
		if err := s.cache.Set(ctx, payment); err != nil {
			s.logger.Warn("Failed to cache payment ", paymentID, ": ", err)
		}
	}
	s.logger.Info("Found payment ID: ", paymentID, " with status: ", payment.Status)
	return payment, nil
}

// GetPaymentByTransactionID retrieves a payment by its client supplied transaction ID.
func (s *paymentService) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	payment, err := s.repository.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Found payment transactionId: ", transactionID, " (ID: ", payment.ID, ") with status: ", payment.Status)
	return payment, nil
}
