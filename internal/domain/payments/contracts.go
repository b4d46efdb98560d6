package payments

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PaymentService defines the use cases exposed to the REST layer.
type PaymentService interface {
	// InitiatePayment registers a payment and hands it to asynchronous processing.
	// A transaction ID already in flight yields a DuplicateTransactionError; a terminal one returns the stored payment.
	InitiatePayment(ctx context.Context, payment *Payment) (*Payment, error)

	// GetPaymentByID retrieves a payment by its ID.
	GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*Payment, error)

	// GetPaymentByTransactionID retrieves a payment by the client supplied transaction ID.
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
}

// PaymentRepository defines the persistence operations for payments
type PaymentRepository interface {
	// Create adds a new Payment to the database
	Create(ctx context.Context, payment *Payment) error
	// CreateProcessing atomically adds a PENDING Payment and moves it to PROCESSING, returning the stored row
	CreateProcessing(ctx context.Context, payment *Payment) (*Payment, error)
	// GetByID retrieves a Payment from the database by ID
	GetByID(ctx context.Context, paymentID uuid.UUID) (*Payment, error)
	// GetByTransactionID retrieves a Payment from the database by transaction ID
	GetByTransactionID(ctx context.Context, transactionID string) (*Payment, error)
	// TransitionStatus applies update only if the stored status equals update.From and returns the updated Payment.
	// ErrStatusConflict is returned when the stored status differs.
	TransitionStatus(ctx context.Context, paymentID uuid.UUID, update StatusUpdate) (*Payment, error)
	// ListStale lists payments in query.Statuses last updated before query.OlderThan, oldest first
	ListStale(ctx context.Context, query StaleQuery) ([]*Payment, error)
	// Ping checks the database connection
	Ping(ctx context.Context) error
}

// PaymentDispatcher queues payments for asynchronous processing.
type PaymentDispatcher interface {
	// Dispatch enqueues a payment ID. It returns ErrQueueFull when no capacity is left.
	Dispatch(paymentID uuid.UUID) error
	// QueueDepth returns the number of queued payment IDs.
	QueueDepth() int
	// Stop stops accepting work and waits for queued work to finish or ctx to expire.
	Stop(ctx context.Context) error
}

// PaymentProcessor completes a payment that is in PROCESSING.
type PaymentProcessor interface {
	Process(ctx context.Context, paymentID uuid.UUID)
}

// MobileMoneyConnector submits a payout to a mobile network operator.
type MobileMoneyConnector interface {
	// ProcessB2CPayment sends the payout and returns the terminal transition to apply.
	ProcessB2CPayment(ctx context.Context, payment *Payment) (StatusUpdate, error)
}

// Notifier informs the recipient about the outcome of a payment.
type Notifier interface {
	NotifyPaymentSuccess(ctx context.Context, payment *Payment)
	NotifyPaymentFailure(ctx context.Context, payment *Payment)
}

// SmsSender delivers a text message to a phone number.
type SmsSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}

// EventPublisher publishes payment lifecycle events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event *PaymentEvent) error
	Close() error
}

// PaymentCache stores terminal payments by ID.
type PaymentCache interface {
	// Get returns the cached payment and true, or false on a miss.
	Get(ctx context.Context, paymentID uuid.UUID) (*Payment, bool, error)
	Set(ctx context.Context, payment *Payment) error
	Ping(ctx context.Context) error
}

// ReconciliationSummary reports the outcome of one reconciliation pass.
type ReconciliationSummary struct {
	Scanned  int
	Failed   int
	Skipped  int
	Started  time.Time
	Finished time.Time
}

// Reconciler fails payments stuck in a non-terminal state.
type Reconciler interface {
	Reconcile(ctx context.Context) (*ReconciliationSummary, error)
}
