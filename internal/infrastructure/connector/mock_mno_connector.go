package connector

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// MockMNOReferencePrefix prefixes references issued by the simulated operator.
const MockMNOReferencePrefix = "MOCK_MNO_"

// InterruptedReason is the failure reason when processing is cancelled mid-flight.
const InterruptedReason = "Processing interrupted"

// FailureReasons are the rejections the simulated operator picks from.
var FailureReasons = []string{
	"Insufficient funds",
	"Recipient account invalid",
	"Transaction limit exceeded",
	"Temporary network error",
	"System unavailable",
	"Duplicate transaction",
}

// MockMNOConnector simulates a mobile network operator B2C API with a random
// processing delay and a configurable success rate. Outbound calls are throttled.
type MockMNOConnector struct {
	settings config.MNOSettings
	limiter  *rate.Limiter
	logger   logger.Logger
}

// NewMockMNOConnector creates a new instance of MockMNOConnector
func NewMockMNOConnector(settings config.MNOSettings, logger logger.Logger) (payments.MobileMoneyConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &MockMNOConnector{
		settings: settings,
		limiter:  rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), settings.Burst),
		logger:   logger,
	}, nil
}

// ProcessB2CPayment waits for a rate limit slot and a simulated delay, then
// succeeds with probability SuccessRate.
func (c *MockMNOConnector) ProcessB2CPayment(ctx context.Context, payment *payments.Payment) (payments.StatusUpdate, error) {
	c.logger.Info("MOCK MNO: Received payment request for transactionId: ", payment.TransactionID)

	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return c.interrupted(payment), nil
		}
		return payments.StatusUpdate{}, fmt.Errorf("mno rate limit: %w", err)
	}

	delay := c.delay()
	c.logger.Debug("MOCK MNO: Simulating processing delay of ", delay, " for transactionId: ", payment.TransactionID)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return c.interrupted(payment), nil
	case <-timer.C:
	}

	if rand.Float64() < c.settings.SuccessRate {
		c.logger.Info("MOCK MNO: Simulating SUCCESS for transactionId: ", payment.TransactionID)
		return payments.Succeeded(MockMNOReferencePrefix + uuid.NewString()[:12]), nil
	}

	reason := FailureReasons[rand.IntN(len(FailureReasons))]
	c.logger.Warn("MOCK MNO: Simulating FAILURE for transactionId: ", payment.TransactionID, ": ", reason)
	return payments.Failed(payments.StatusProcessing, reason), nil
}

func (c *MockMNOConnector) delay() time.Duration {
	spread := c.settings.MaxDelay - c.settings.MinDelay
	if spread <= 0 {
		return c.settings.MinDelay
	}
	return c.settings.MinDelay + time.Duration(rand.Int64N(int64(spread)))
}

func (c *MockMNOConnector) interrupted(payment *payments.Payment) payments.StatusUpdate {
	c.logger.Error("MOCK MNO: Simulation interrupted for transactionId: ", payment.TransactionID)
	return payments.Failed(payments.StatusProcessing, InterruptedReason)
}
