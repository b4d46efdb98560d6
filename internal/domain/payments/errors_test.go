//go:build unit
// +build unit

package payments

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "Payment not found with ID: 42", NewNotFoundByIDError("42").Error())
	assert.Equal(t, "Payment not found with Transaction ID: TXN-1", NewNotFoundByTransactionIDError("TXN-1").Error())
	assert.Equal(t,
		"Duplicate transaction ID: TXN-1. Payment already exists or is being processed.",
		(&DuplicateTransactionError{TransactionID: "TXN-1"}).Error())
	assert.Equal(t,
		"MNO service interaction failed: Failed to submit payment processing task: payment processing queue is full",
		(&MMOServiceError{Message: "Failed to submit payment processing task", Err: ErrQueueFull}).Error())
}

func TestNotFoundErrorMatchesSentinel(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundByIDError("42"))

	assert.True(t, errors.Is(err, ErrPaymentNotFound))
	assert.False(t, errors.Is(err, ErrStatusConflict))

	var notFound *NotFoundError
	assert.True(t, errors.As(err, &notFound))
	assert.Equal(t, "42", notFound.Value)
}

func TestMMOServiceErrorUnwraps(t *testing.T) {
	err := &MMOServiceError{Message: "Failed to submit payment", Err: ErrQueueFull}
	assert.ErrorIs(t, err, ErrQueueFull)
}
