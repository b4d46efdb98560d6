// Package middleware holds the gin middleware shared by every REST route: the error
// envelope, bearer token authentication and authority checks.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Error reasons used in the envelope
const (
	ReasonValidationFailed = "Validation Failed"

	MessageUnauthorized        = "Full authentication is required to access this resource"
	MessageForbidden           = "Access Denied: You do not have permission to access this resource."
	MessageMalformedBody       = "Malformed request body. Please check the JSON structure and data types."
	MessageValidationFailed    = "Request contains invalid data. See details."
	MessageInternalServerError = "An unexpected error occurred. Please try again later or contact support."
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Path      string    `json:"path"`
	Details   []string  `json:"details,omitempty"`
}

// NewErrorResponse builds the envelope for the current request. error defaults to
// the status text.
func NewErrorResponse(ctx *gin.Context, status int, message string) *ErrorResponse {
	return &ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      "uri=" + ctx.Request.URL.Path,
	}
}

// AbortWithError writes the envelope and stops the handler chain.
func AbortWithError(ctx *gin.Context, status int, message string) {
	ctx.AbortWithStatusJSON(status, NewErrorResponse(ctx, status, message))
}

// AbortWithValidationErrors writes a 400 envelope listing the rejected fields.
func AbortWithValidationErrors(ctx *gin.Context, details []string) {
	response := NewErrorResponse(ctx, http.StatusBadRequest, MessageValidationFailed)
	response.Error = ReasonValidationFailed
	response.Details = details
	ctx.AbortWithStatusJSON(http.StatusBadRequest, response)
}

// Recovery converts panics into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(ctx *gin.Context, _ any) {
		AbortWithError(ctx, http.StatusInternalServerError, MessageInternalServerError)
	})
}

// NoRoute answers unknown paths with a 404 envelope.
func NoRoute(ctx *gin.Context) {
	AbortWithError(ctx, http.StatusNotFound, "No endpoint "+ctx.Request.Method+" "+ctx.Request.URL.Path+".")
}
