package v1

import (
	"github.com/ajharry69/kcb-b2c-payment/internal/api/rest/middleware"
	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all the API routes for version 1. Every route requires a bearer token.
func SetupRoutes(r *gin.Engine,
	verifier middleware.TokenVerifier,
	paymentService payments.PaymentService,
	logger logger.Logger) {

	v1 := r.Group(BasePath, middleware.RequireAuth(verifier, logger)) // lookup in version file

	// Payments Routes
	paymentHandler := NewPaymentHandler(paymentService, logger)
	v1.POST("/payments", middleware.RequireAuthority(AuthorityPaymentInitiate, logger), paymentHandler.InitiatePayment)
	v1.GET("/payments", middleware.RequireAuthority(AuthorityPaymentRead, logger), paymentHandler.GetPaymentByTransactionID)
	v1.GET("/payments/:id", middleware.RequireAuthority(AuthorityPaymentRead, logger), paymentHandler.GetPaymentByID)
}
