package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/middleware"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler defines the interface for handling payment-related operations
type PaymentHandler interface {
	InitiatePayment(ctx *gin.Context)
	GetPaymentByID(ctx *gin.Context)
	GetPaymentByTransactionID(ctx *gin.Context)
}

type paymentHandler struct {
	paymentService payments.PaymentService
	logger         logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService payments.PaymentService, logger logger.Logger) PaymentHandler {
	return &paymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// InitiatePayment handles the POST request that accepts a payout for asynchronous processing
// @Summary Initiate a B2C payment
// @Tags Payment
// @Accept json
// @Produce json
// @Param requestBody body PaymentRequest true "Payment details"
// @Success 202 {object} PaymentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /payments [post]
func (handler *paymentHandler) InitiatePayment(ctx *gin.Context) {
	var request PaymentRequest

	if err := ctx.ShouldBindJSON(&request); err != nil {
		handler.logger.Warn("Could not read request body for ", ctx.Request.URL.Path, ": ", err)
		middleware.AbortWithError(ctx, http.StatusBadRequest, middleware.MessageMalformedBody)
		return
	}

	if err := request.Validate(); err != nil {
		handler.writeError(ctx, err)
		return
	}

	handler.logger.Info("Received payment initiation request for transactionId: ", request.TransactionID)

	payment, err := handler.paymentService.InitiatePayment(ctx.Request.Context(), request.ToDomain())
	if err != nil {
		handler.writeError(ctx, err)
		return
	}

	ctx.Header("Location", fmt.Sprintf("%s://%s%s/payments/%s", requestScheme(ctx), ctx.Request.Host, BasePath, payment.ID))
	ctx.JSON(http.StatusAccepted, NewPaymentResponse(payment))
}

// GetPaymentByID handles the GET request to fetch a payment by its ID
// @Summary Retrieve a payment by ID
// @Tags Payment
// @Produce json
// @Param id path string true "Payment ID"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /payments/{id} [get]
func (handler *paymentHandler) GetPaymentByID(ctx *gin.Context) {
	rawID := ctx.Param("id")

	paymentID, err := uuid.Parse(rawID)
	if err != nil {
		handler.logger.Warn("Invalid argument type: parameter 'id' requires a UUID but received ", rawID)
		middleware.AbortWithError(ctx, http.StatusBadRequest,
			fmt.Sprintf("Invalid value '%s' for parameter 'id'. Expected type 'UUID'.", rawID))
		return
	}

	handler.logger.Info("Received request to get payment by ID: ", paymentID)

	payment, err := handler.paymentService.GetPaymentByID(ctx.Request.Context(), paymentID)
	if err != nil {
		handler.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, NewPaymentResponse(payment))
}

// GetPaymentByTransactionID handles the GET request to fetch a payment by its transaction ID
// @Summary Retrieve a payment by transaction ID
// @Tags Payment
// @Produce json
// @Param transactionId query string true "Client transaction ID"
// @Success 200 {object} PaymentResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /payments [get]
func (handler *paymentHandler) GetPaymentByTransactionID(ctx *gin.Context) {
	transactionID, ok := ctx.GetQuery("transactionId")
	if !ok {
		middleware.AbortWithError(ctx, http.StatusBadRequest,
			"Required request parameter 'transactionId' for method parameter type String is not present")
		return
	}

	handler.logger.Info("Received request to get payment by transactionId: ", transactionID)

	payment, err := handler.paymentService.GetPaymentByTransactionID(ctx.Request.Context(), transactionID)
	if err != nil {
		handler.writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, NewPaymentResponse(payment))
}

// writeError maps service errors to the error envelope.
func (handler *paymentHandler) writeError(ctx *gin.Context, err error) {
	var (
		validationErr *payments.ValidationError
		duplicateErr  *payments.DuplicateTransactionError
		mnoErr        *payments.MMOServiceError
	)

	switch {
	case errors.As(err, &validationErr):
		handler.logger.Warn("Validation failed for request ", ctx.Request.URL.Path, ": ", err)
		middleware.AbortWithValidationErrors(ctx, validationErr.Details)
	case errors.Is(err, payments.ErrPaymentNotFound):
		handler.logger.Warn("Payment not found: ", err)
		middleware.AbortWithError(ctx, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicateErr):
		handler.logger.Warn("Duplicate transaction attempt: ", err)
		middleware.AbortWithError(ctx, http.StatusConflict, duplicateErr.Error())
	case errors.As(err, &mnoErr):
		handler.logger.Error("MNO Service Exception: ", err)
		middleware.AbortWithError(ctx, http.StatusServiceUnavailable, mnoErr.Error())
	default:
		handler.logger.Error("An unexpected error occurred processing request ", ctx.Request.URL.Path, ": ", err)
		middleware.AbortWithError(ctx, http.StatusInternalServerError, middleware.MessageInternalServerError)
	}
}

func requestScheme(ctx *gin.Context) string {
	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		return strings.ToLower(strings.TrimSpace(strings.Split(proto, ",")[0]))
	}
	if ctx.Request.TLS != nil {
		return "https"
	}
	return "http"
}
