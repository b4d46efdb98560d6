//go:build unit
// +build unit

package app

import (
	"context"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CreateProcessing(ctx context.Context, payment *payments.Payment) (*payments.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) TransitionStatus(ctx context.Context, paymentID uuid.UUID, update payments.StatusUpdate) (*payments.Payment, error) {
	args := m.Called(ctx, paymentID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListStale(ctx context.Context, query payments.StaleQuery) ([]*payments.Payment, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*payments.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPaymentDispatcher is a mock implementation of PaymentDispatcher
type MockPaymentDispatcher struct {
	mock.Mock
}

func (m *MockPaymentDispatcher) Dispatch(paymentID uuid.UUID) error {
	args := m.Called(paymentID)
	return args.Error(0)
}

func (m *MockPaymentDispatcher) QueueDepth() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockPaymentDispatcher) Stop(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPaymentProcessor is a mock implementation of PaymentProcessor
type MockPaymentProcessor struct {
	mock.Mock
}

func (m *MockPaymentProcessor) Process(ctx context.Context, paymentID uuid.UUID) {
	m.Called(ctx, paymentID)
}

// MockMobileMoneyConnector is a mock implementation of MobileMoneyConnector
type MockMobileMoneyConnector struct {
	mock.Mock
}

func (m *MockMobileMoneyConnector) ProcessB2CPayment(ctx context.Context, payment *payments.Payment) (payments.StatusUpdate, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(payments.StatusUpdate), args.Error(1)
}

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyPaymentSuccess(ctx context.Context, payment *payments.Payment) {
	m.Called(ctx, payment)
}

func (m *MockNotifier) NotifyPaymentFailure(ctx context.Context, payment *payments.Payment) {
	m.Called(ctx, payment)
}

// MockSmsSender is a mock implementation of SmsSender
type MockSmsSender struct {
	mock.Mock
}

func (m *MockSmsSender) Send(ctx context.Context, phoneNumber, message string) error {
	args := m.Called(ctx, phoneNumber, message)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *payments.PaymentEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockPaymentCache is a mock implementation of PaymentCache
type MockPaymentCache struct {
	mock.Mock
}

func (m *MockPaymentCache) Get(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, bool, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*payments.Payment), args.Bool(1), args.Error(2)
}

func (m *MockPaymentCache) Set(ctx context.Context, payment *payments.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockMetrics is a mock implementation of Metrics
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) PaymentInitiated() {
	m.Called()
}

func (m *MockMetrics) PaymentCompleted(status payments.Status) {
	m.Called(status)
}

func (m *MockMetrics) ObserveMNORequest(outcome string, duration time.Duration) {
	m.Called(outcome, duration)
}

func (m *MockMetrics) SetQueueDepth(depth int) {
	m.Called(depth)
}

func (m *MockMetrics) ReconciliationRun(failed int) {
	m.Called(failed)
}
