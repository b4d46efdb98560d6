//go:build unit
// +build unit

package actuator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ajharry69/kcb-b2c-payment/internal/infrastructure/persistence"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type indicatorFunc func(ctx context.Context) error

func (f indicatorFunc) Ping(ctx context.Context) error { return f(ctx) }

func newSQLMockIndicator(t *testing.T, pingErr error) (HealthIndicator, sqlmock.Sqlmock) {
	t.Helper()
	log := testutil.SetupTestLogger(t)

	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	repo, err := persistence.NewGormPaymentRepository(db, log)
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(pingErr)
	return repo, mock
}

func serveHealth(t *testing.T, handler *HealthHandler, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	SetupRoutes(r, handler, http.NotFoundHandler())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name           string
		dbErr          error
		cacheErr       error
		expectedStatus int
		expectedBody   string
		expectedDB     string
		expectedCache  string
	}{
		{
			name:           "all up",
			expectedStatus: http.StatusOK,
			expectedBody:   StatusUp,
			expectedDB:     StatusUp,
			expectedCache:  StatusUp,
		},
		{
			name:           "database down",
			dbErr:          errors.New("connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   StatusDown,
			expectedDB:     StatusDown,
			expectedCache:  StatusUp,
		},
		{
			name:           "cache down",
			cacheErr:       errors.New("redis unavailable"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   StatusDown,
			expectedDB:     StatusUp,
			expectedCache:  StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newSQLMockIndicator(t, tt.dbErr)
			cacheErr := tt.cacheErr
			handler := NewHealthHandler(map[string]HealthIndicator{
				"db":    db,
				"cache": indicatorFunc(func(context.Context) error { return cacheErr }),
			}, 0, testutil.SetupTestLogger(t))

			w := serveHealth(t, handler, "/actuator/health")

			assert.Equal(t, tt.expectedStatus, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedBody, body.Status)
			assert.Equal(t, tt.expectedDB, body.Components["db"].Status)
			assert.Equal(t, tt.expectedCache, body.Components["cache"].Status)
			if tt.dbErr != nil {
				assert.Contains(t, body.Components["db"].Error, "connection refused")
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLivenessIgnoresComponents(t *testing.T) {
	handler := NewHealthHandler(map[string]HealthIndicator{
		"db": indicatorFunc(func(context.Context) error { return errors.New("down") }),
	}, 0, testutil.SetupTestLogger(t))

	w := serveHealth(t, handler, "/actuator/health/liveness")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"UP"}`, w.Body.String())
}
