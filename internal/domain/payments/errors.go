package payments

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPaymentNotFound is returned when no payment matches a lookup.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrStatusConflict is returned when the stored status no longer matches the expected one.
	ErrStatusConflict = errors.New("payment status changed concurrently")
	// ErrInvalidTransition is returned for a status change the lifecycle does not allow.
	ErrInvalidTransition = errors.New("invalid payment status transition")
	// ErrQueueFull is returned when the dispatcher cannot accept more work.
	ErrQueueFull = errors.New("payment processing queue is full")
)

// NotFoundError identifies the lookup that found nothing. It matches ErrPaymentNotFound.
type NotFoundError struct {
	Field string
	Value string
}

// NewNotFoundByIDError returns a NotFoundError for an ID lookup.
func NewNotFoundByIDError(id string) *NotFoundError {
	return &NotFoundError{Field: "ID", Value: id}
}

// NewNotFoundByTransactionIDError returns a NotFoundError for a transaction ID lookup.
func NewNotFoundByTransactionIDError(transactionID string) *NotFoundError {
	return &NotFoundError{Field: "Transaction ID", Value: transactionID}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Payment not found with %s: %s", e.Field, e.Value)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPaymentNotFound
}

// DuplicateTransactionError is returned when a transaction ID is already in flight.
type DuplicateTransactionError struct {
	TransactionID string
}

func (e *DuplicateTransactionError) Error() string {
	return fmt.Sprintf("Duplicate transaction ID: %s. Payment already exists or is being processed.", e.TransactionID)
}

// MMOServiceError is returned when the payment could not be handed to the mobile money operator.
type MMOServiceError struct {
	Message string
	Err     error
}

func (e *MMOServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("MNO service interaction failed: %s: %v", e.Message, e.Err)
	}
	return "MNO service interaction failed: " + e.Message
}

func (e *MMOServiceError) Unwrap() error {
	return e.Err
}

// ValidationError carries the per-field messages of a rejected payment.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Details, "; ")
}
