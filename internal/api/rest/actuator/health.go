// Package actuator exposes operational endpoints: component health and Prometheus metrics.
package actuator

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// BasePath is the prefix of the operational endpoints.
const BasePath = "/actuator"

// Health statuses
const (
	StatusUp   = "UP"
	StatusDown = "DOWN"
)

const defaultCheckTimeout = 3 * time.Second

// HealthIndicator is a dependency whose reachability is part of the service health.
type HealthIndicator interface {
	Ping(ctx context.Context) error
}

// ComponentHealth is the health of a single dependency.
type ComponentHealth struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// HealthHandler aggregates the health of the registered components.
type HealthHandler struct {
	components map[string]HealthIndicator
	timeout    time.Duration
	logger     logger.Logger
}

// NewHealthHandler creates a HealthHandler. A zero timeout uses 3s per check.
func NewHealthHandler(components map[string]HealthIndicator, timeout time.Duration, logger logger.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	return &HealthHandler{
		components: components,
		timeout:    timeout,
		logger:     logger,
	}
}

// Check pings every component concurrently. The service is UP only when all components are.
func (h *HealthHandler) Check(ctx context.Context) HealthResponse {
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]ComponentHealth, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, indicator HealthIndicator) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			if err := indicator.Ping(checkCtx); err != nil {
				results[i] = ComponentHealth{Status: StatusDown, Error: err.Error()}
				return
			}
			results[i] = ComponentHealth{Status: StatusUp}
		}(i, h.components[name])
	}
	wg.Wait()

	response := HealthResponse{Status: StatusUp, Components: make(map[string]ComponentHealth, len(names))}
	for i, name := range names {
		response.Components[name] = results[i]
		if results[i].Status == StatusDown {
			response.Status = StatusDown
			h.logger.Warn("Health check failed for ", name, ": ", results[i].Error)
		}
	}
	return response
}

// Health handles GET /actuator/health
func (h *HealthHandler) Health(ctx *gin.Context) {
	response := h.Check(ctx.Request.Context())
	if response.Status == StatusDown {
		ctx.JSON(http.StatusServiceUnavailable, response)
		return
	}
	ctx.JSON(http.StatusOK, response)
}

// Liveness handles GET /actuator/health/liveness. It never checks dependencies.
func (h *HealthHandler) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, HealthResponse{Status: StatusUp})
}

// SetupRoutes registers the public operational endpoints.
func SetupRoutes(r *gin.Engine, health *HealthHandler, metrics http.Handler) {
	actuator := r.Group(BasePath)
	actuator.GET("/health", health.Health)
	actuator.GET("/health/liveness", health.Liveness)
	actuator.GET("/health/readiness", health.Health)
	if metrics != nil {
		actuator.GET("/prometheus", gin.WrapH(metrics))
	}
}
