//go:build unit
// +build unit

package v1

import (
	"context"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPaymentService is a mock implementation of PaymentService
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) InitiatePayment(ctx context.Context, payment *payments.Payment) (*payments.Payment, error) {
	args := m.Called(ctx, payment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPaymentByID(ctx context.Context, paymentID uuid.UUID) (*payments.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

func (m *MockPaymentService) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*payments.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payments.Payment), args.Error(1)
}

// MockTokenVerifier is a mock implementation of middleware.TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (*security.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Principal), args.Error(1)
}
