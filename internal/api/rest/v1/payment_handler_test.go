//go:build unit
// +build unit

package v1

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/middleware"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/security"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	adminToken = "admin-token"
	userToken  = "user-token"
)

type PaymentHandlerTestSuite struct {
	router         *gin.Engine
	paymentService *MockPaymentService
}

func setupPaymentHandlerTest(t *testing.T) *PaymentHandlerTestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := testutil.SetupTestLogger(t)

	verifier := new(MockTokenVerifier)
	verifier.On("Verify", adminToken).Return(&security.Principal{
		Subject:     "admin",
		Authorities: []string{AuthorityPaymentInitiate, AuthorityPaymentRead},
	}, nil).Maybe()
	verifier.On("Verify", userToken).Return(&security.Principal{
		Subject:     "user",
		Authorities: []string{AuthorityPaymentRead},
	}, nil).Maybe()

	paymentService := new(MockPaymentService)

	r := gin.New()
	r.Use(middleware.Recovery())
	SetupRoutes(r, verifier, paymentService, log)

	return &PaymentHandlerTestSuite{router: r, paymentService: paymentService}
}

func (s *PaymentHandlerTestSuite) do(method, target, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func storedPayment(status payments.Status) *payments.Payment {
	p := payments.NewPayment("TXN-CONTROLLER-123", "+254711223344", decimal.RequireFromString("550"), "KES")
	p.Status = status
	p.CreatedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.UpdatedAt = p.CreatedAt
	return p
}

func validRequestBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"transactionId":        "TXN-CONTROLLER-123",
		"recipientPhoneNumber": "+254711223344",
		"amount":               550.00,
		"currency":             "KES",
	})
	require.NoError(t, err)
	return body
}

func decodeResponse[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestInitiatePayment(t *testing.T) {
	t.Run("accepted with location", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)
		processing := storedPayment(payments.StatusProcessing)

		suite.paymentService.On("InitiatePayment", mock.Anything, mock.MatchedBy(func(p *payments.Payment) bool {
			return p.TransactionID == "TXN-CONTROLLER-123" &&
				p.Amount.Equal(decimal.RequireFromString("550")) &&
				p.Status == payments.StatusPending
		})).Return(processing, nil)

		w := suite.do(http.MethodPost, "/api/v1/payments", adminToken, validRequestBody(t))

		require.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, "http://example.com/api/v1/payments/"+processing.ID.String(), w.Header().Get("Location"))

		response := decodeResponse[map[string]interface{}](t, w)
		assert.Equal(t, processing.ID.String(), response["paymentId"])
		assert.Equal(t, "PROCESSING", response["status"])
		assert.Equal(t, 550.0, response["amount"])
		assert.Contains(t, w.Body.String(), `"amount":550.00`)
		suite.paymentService.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodPost, "/api/v1/payments", adminToken, []byte(`{"transactionId":"abc", "amount":}`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, 400, body.Status)
		assert.Equal(t, "Bad Request", body.Error)
		assert.Equal(t, middleware.MessageMalformedBody, body.Message)
		suite.paymentService.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything)
	})

	t.Run("validation failure", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodPost, "/api/v1/payments", adminToken,
			[]byte(`{"transactionId":"","recipientPhoneNumber":"invalid-phone","amount":-10.00,"currency":"US"}`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, middleware.ReasonValidationFailed, body.Error)
		assert.Equal(t, middleware.MessageValidationFailed, body.Message)
		assert.ElementsMatch(t, []string{
			"'transactionId': Transaction ID cannot be blank",
			"'recipientPhoneNumber': Invalid phone number format",
			"'amount': Amount must be positive",
			"'currency': Currency must be a 3-letter code (e.g., KES)",
		}, body.Details)
		suite.paymentService.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything)
	})

	t.Run("missing amount", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodPost, "/api/v1/payments", adminToken,
			[]byte(`{"transactionId":"T1","recipientPhoneNumber":"+254711223344","currency":"KES"}`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, []string{"'amount': Amount cannot be null"}, body.Details)
	})

	t.Run("forbidden without initiate scope", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodPost, "/api/v1/payments", userToken, validRequestBody(t))

		assert.Equal(t, http.StatusForbidden, w.Code)
		suite.paymentService.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything)
	})

	t.Run("unauthorized without token", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodPost, "/api/v1/payments", "", validRequestBody(t))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	errorCases := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedError   string
		expectedMessage string
	}{
		{
			name:            "duplicate transaction",
			err:             &payments.DuplicateTransactionError{TransactionID: "TXN-CONTROLLER-123"},
			expectedStatus:  http.StatusConflict,
			expectedError:   "Conflict",
			expectedMessage: "Duplicate transaction ID: TXN-CONTROLLER-123. Payment already exists or is being processed.",
		},
		{
			name:            "mno submit failure",
			err:             &payments.MMOServiceError{Message: "Failed to submit payment processing task", Err: payments.ErrQueueFull},
			expectedStatus:  http.StatusServiceUnavailable,
			expectedError:   "Service Unavailable",
			expectedMessage: "MNO service interaction failed: Failed to submit payment processing task: payment processing queue is full",
		},
		{
			name:            "unexpected",
			err:             errors.New("database is gone"),
			expectedStatus:  http.StatusInternalServerError,
			expectedError:   "Internal Server Error",
			expectedMessage: middleware.MessageInternalServerError,
		},
	}

	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			suite := setupPaymentHandlerTest(t)
			suite.paymentService.On("InitiatePayment", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := suite.do(http.MethodPost, "/api/v1/payments", adminToken, validRequestBody(t))

			require.Equal(t, tt.expectedStatus, w.Code)
			body := decodeResponse[middleware.ErrorResponse](t, w)
			assert.Equal(t, tt.expectedStatus, body.Status)
			assert.Equal(t, tt.expectedError, body.Error)
			assert.Equal(t, tt.expectedMessage, body.Message)
			assert.Equal(t, "uri=/api/v1/payments", body.Path)
		})
	}
}

func TestGetPaymentByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)
		successful := storedPayment(payments.StatusSuccessful)
		reference := "MNO_REF_CTRL"
		successful.MnoReference = &reference
		suite.paymentService.On("GetPaymentByID", mock.Anything, successful.ID).Return(successful, nil)

		w := suite.do(http.MethodGet, "/api/v1/payments/"+successful.ID.String(), userToken, nil)

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[PaymentResponse](t, w)
		assert.Equal(t, successful.ID, response.PaymentID)
		assert.Equal(t, payments.StatusSuccessful, response.Status)
		require.NotNil(t, response.MnoReference)
		assert.Equal(t, "MNO_REF_CTRL", *response.MnoReference)
	})

	t.Run("not found", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)
		id := uuid.New()
		suite.paymentService.On("GetPaymentByID", mock.Anything, id).
			Return(nil, payments.NewNotFoundByIDError(id.String()))

		w := suite.do(http.MethodGet, "/api/v1/payments/"+id.String(), userToken, nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, "Not Found", body.Error)
		assert.Equal(t, "Payment not found with ID: "+id.String(), body.Message)
	})

	t.Run("invalid id", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodGet, "/api/v1/payments/not-a-uuid", userToken, nil)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, "Invalid value 'not-a-uuid' for parameter 'id'. Expected type 'UUID'.", body.Message)
		suite.paymentService.AssertNotCalled(t, "GetPaymentByID", mock.Anything, mock.Anything)
	})
}

func TestGetPaymentByTransactionID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)
		successful := storedPayment(payments.StatusSuccessful)
		suite.paymentService.On("GetPaymentByTransactionID", mock.Anything, "TXN-CONTROLLER-123").Return(successful, nil)

		w := suite.do(http.MethodGet, "/api/v1/payments?transactionId=TXN-CONTROLLER-123", userToken, nil)

		require.Equal(t, http.StatusOK, w.Code)
		response := decodeResponse[PaymentResponse](t, w)
		assert.Equal(t, successful.ID, response.PaymentID)
		assert.Equal(t, "TXN-CONTROLLER-123", response.TransactionID)
	})

	t.Run("not found", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)
		suite.paymentService.On("GetPaymentByTransactionID", mock.Anything, "TXN_NOT_THERE").
			Return(nil, payments.NewNotFoundByTransactionIDError("TXN_NOT_THERE"))

		w := suite.do(http.MethodGet, "/api/v1/payments?transactionId=TXN_NOT_THERE", adminToken, nil)

		require.Equal(t, http.StatusNotFound, w.Code)
		body := decodeResponse[middleware.ErrorResponse](t, w)
		assert.Equal(t, "Payment not found with Transaction ID: TXN_NOT_THERE", body.Message)
	})

	t.Run("missing parameter", func(t *testing.T) {
		suite := setupPaymentHandlerTest(t)

		w := suite.do(http.MethodGet, "/api/v1/payments", userToken, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRequestScheme(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/api/v1/payments", nil)

	assert.Equal(t, "http", requestScheme(ctx))

	ctx.Request.Header.Set("X-Forwarded-Proto", "HTTPS, http")
	assert.Equal(t, "https", requestScheme(ctx))
}
