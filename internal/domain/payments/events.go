package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a payment lifecycle event. It doubles as the message routing key.
type EventType string

const (
	EventInitiated  EventType = "payment.initiated"
	EventSuccessful EventType = "payment.successful"
	EventFailed     EventType = "payment.failed"
)

// PaymentEvent is published whenever a payment enters PROCESSING or a terminal state.
type PaymentEvent struct {
	EventID       uuid.UUID       `json:"eventId"`
	Type          EventType       `json:"type"`
	PaymentID     uuid.UUID       `json:"paymentId"`
	TransactionID string          `json:"transactionId"`
	Status        Status          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	MnoReference  *string         `json:"mnoReference,omitempty"`
	FailureReason *string         `json:"failureReason,omitempty"`
	OccurredAt    time.Time       `json:"occurredAt"`
}

// EventTypeFor returns the event emitted on entering status, and false for PENDING.
func EventTypeFor(status Status) (EventType, bool) {
	switch status {
	case StatusProcessing:
		return EventInitiated, true
	case StatusSuccessful:
		return EventSuccessful, true
	case StatusFailed:
		return EventFailed, true
	}
	return "", false
}

// NewPaymentEvent snapshots p as an event of type eventType.
func NewPaymentEvent(eventType EventType, p *Payment) *PaymentEvent {
	return &PaymentEvent{
		EventID:       uuid.New(),
		Type:          eventType,
		PaymentID:     p.ID,
		TransactionID: p.TransactionID,
		Status:        p.Status,
		Amount:        p.Amount,
		Currency:      p.Currency,
		MnoReference:  p.MnoReference,
		FailureReason: p.FailureReason,
		OccurredAt:    time.Now().UTC(),
	}
}
