//go:build unit
// +build unit

package middleware

import (
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/stretchr/testify/mock"
)

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

// Verify mocks the Verify method
func (m *MockTokenVerifier) Verify(token string) (*security.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.Principal), args.Error(1)
}
