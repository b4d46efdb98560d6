package payments

import (
	"fmt"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/validators"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a Payment.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusSuccessful Status = "SUCCESSFUL"
	StatusFailed     Status = "FAILED"
)

// transitions lists the states reachable from each non-terminal state.
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusFailed},
	StatusProcessing: {StatusSuccessful, StatusFailed},
}

// IsTerminal reports whether no further transition is possible from s.
func (s Status) IsTerminal() bool {
	return s == StatusSuccessful || s == StatusFailed
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusSuccessful, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range transitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Payment represents a single payout to a mobile-money wallet.
type Payment struct {
	ID                   uuid.UUID       `json:"paymentId"`
	TransactionID        string          `json:"transactionId" validate:"notblank,max=50"`
	RecipientPhoneNumber string          `json:"recipientPhoneNumber" validate:"notblank,phone"`
	Amount               decimal.Decimal `json:"amount" validate:"amount_min,amount_digits"`
	Currency             string          `json:"currency" validate:"notblank,len=3"`
	Status               Status          `json:"status" validate:"required,oneof=PENDING PROCESSING SUCCESSFUL FAILED"`
	FailureReason        *string         `json:"failureReason,omitempty"`
	MnoReference         *string         `json:"mnoReference,omitempty" validate:"omitempty,max=100"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// NewPayment returns a PENDING payment with a fresh ID.
func NewPayment(transactionID, phoneNumber string, amount decimal.Decimal, currency string) *Payment {
	return &Payment{
		ID:                   uuid.New(),
		TransactionID:        transactionID,
		RecipientPhoneNumber: phoneNumber,
		Amount:               amount,
		Currency:             currency,
		Status:               StatusPending,
	}
}

var validate = validators.New()

// Validate checks the field constraints of the payment.
func (p *Payment) Validate() error {
	err := validate.Struct(p)
	if err != nil {
		return &ValidationError{Details: validators.FormatErrors(err, FieldMessages)}
	}
	return nil
}

// Apply moves the payment to the state described by update. It does not touch storage.
func (p *Payment) Apply(update StatusUpdate) error {
	if !p.Status.CanTransitionTo(update.To) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, update.To)
	}
	p.Status = update.To
	p.MnoReference = update.MnoReference
	p.FailureReason = update.FailureReason
	return nil
}

// FieldMessages maps "field.tag" validation failures to client-facing messages.
var FieldMessages = map[string]string{
	"transactionId.notblank":        "Transaction ID cannot be blank",
	"transactionId.max":             "Transaction ID length must be between 1 and 50",
	"recipientPhoneNumber.notblank": "Recipient phone number cannot be blank",
	"recipientPhoneNumber.phone":    "Invalid phone number format",
	"amount.required":               "Amount cannot be null",
	"amount.amount_min":             "Amount must be positive",
	"amount.amount_digits":          "Invalid amount format (max 10 integer, 2 fraction digits)",
	"currency.notblank":             "Currency cannot be blank",
	"currency.len":                  "Currency must be a 3-letter code (e.g., KES)",
	"mnoReference.max":              "MNO reference must be at most 100 characters",
}

// StatusUpdate describes a compare-and-set transition of a payment's status.
type StatusUpdate struct {
	From          Status
	To            Status
	MnoReference  *string
	FailureReason *string
}

// Processing starts the asynchronous processing of a pending payment.
func Processing() StatusUpdate {
	return StatusUpdate{From: StatusPending, To: StatusProcessing}
}

// Succeeded completes a processing payment with the operator's reference.
func Succeeded(mnoReference string) StatusUpdate {
	return StatusUpdate{From: StatusProcessing, To: StatusSuccessful, MnoReference: &mnoReference}
}

// Failed fails a payment currently in status from.
func Failed(from Status, reason string) StatusUpdate {
	return StatusUpdate{From: from, To: StatusFailed, FailureReason: &reason}
}

// Validate checks that the update is an allowed transition carrying the fields its target requires.
func (u StatusUpdate) Validate() error {
	if !u.From.CanTransitionTo(u.To) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, u.From, u.To)
	}
	switch u.To {
	case StatusSuccessful:
		if u.MnoReference == nil || *u.MnoReference == "" {
			return fmt.Errorf("%w: successful payment requires an MNO reference", ErrInvalidTransition)
		}
	case StatusFailed:
		if u.FailureReason == nil || *u.FailureReason == "" {
			return fmt.Errorf("%w: failed payment requires a failure reason", ErrInvalidTransition)
		}
	}
	return nil
}

// StaleQuery selects payments stuck in non-terminal states.
type StaleQuery struct {
	Statuses  []Status
	OlderThan time.Time
	Limit     int
}
