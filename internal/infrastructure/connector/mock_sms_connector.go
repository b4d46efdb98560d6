package connector

import (
	"context"
	"fmt"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
)

// MockSmsConnector writes outgoing text messages to the log instead of a gateway.
type MockSmsConnector struct {
	logger logger.Logger
}

// NewMockSmsConnector creates a new instance of MockSmsConnector
func NewMockSmsConnector(logger logger.Logger) (payments.SmsSender, error) {
	return &MockSmsConnector{logger: logger}, nil
}

func (c *MockSmsConnector) Send(_ context.Context, phoneNumber, message string) error {
	c.logger.Info(fmt.Sprintf("MOCK SMS: Sending notification to %s: %s", phoneNumber, message))
	return nil
}
