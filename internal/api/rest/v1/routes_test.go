//go:build unit
// +build unit

package v1

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestSetupRoutes_RoutesRegistered verifies that routes are properly registered
func TestSetupRoutes_RoutesRegistered(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := testutil.SetupTestLogger(t)

	mockPaymentService := new(MockPaymentService)
	mockVerifier := new(MockTokenVerifier)

	mockVerifier.On("Verify", mock.Anything).Return(&security.Principal{
		Subject:     "admin",
		Authorities: []string{AuthorityPaymentInitiate, AuthorityPaymentRead},
	}, nil)
	mockPaymentService.On("GetPaymentByTransactionID", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	r := gin.New()
	SetupRoutes(r, mockVerifier, mockPaymentService, log)

	tests := []struct {
		method string
		url    string
	}{
		{"POST", "/api/v1/payments"},
		{"GET", "/api/v1/payments?transactionId=TXN-1"},
		{"GET", "/api/v1/payments/not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.url, nil)
			req.Header.Set("Authorization", "Bearer token")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// Just verify route exists (status != 404)
			assert.NotEqual(t, http.StatusNotFound, w.Code, "Route should be registered")
		})
	}
}

func TestSetupRoutes_RequiresToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := testutil.SetupTestLogger(t)

	r := gin.New()
	SetupRoutes(r, new(MockTokenVerifier), new(MockPaymentService), log)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/payments/123", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
