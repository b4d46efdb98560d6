package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequestLogger writes one access line per request through log. Server errors are logged
// at error level and client errors at warn level.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		path := ctx.Request.URL.Path
		if raw := ctx.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		ctx.Next()

		status := ctx.Writer.Status()
		line := fmt.Sprintf("%s %s status=%d latency=%s client_ip=%s",
			ctx.Request.Method, path, status, time.Since(start), ctx.ClientIP())
		if errs := ctx.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			line += " errors=" + errs
		}

		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request ", line)
		case status >= http.StatusBadRequest:
			log.Warn("Request ", line)
		default:
			log.Info("Request ", line)
		}
	}
}
