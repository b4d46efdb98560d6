//go:build unit
// +build unit

package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAPIDocument(t *testing.T) {
	document, err := OpenAPIDocument()
	require.NoError(t, err)

	assert.Equal(t, "3.0.3", document["openapi"])
	paths, ok := document["paths"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, paths, "/api/v1/payments")
	assert.Contains(t, paths, "/api/v1/payments/{id}")
}

func TestSetupRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, SetupRoutes(r))

	tests := []struct {
		path           string
		expectedStatus int
		contentType    string
	}{
		{"/v3/api-docs", http.StatusOK, "application/json"},
		{"/v3/api-docs.yaml", http.StatusOK, "application/yaml"},
		{"/swagger-ui.html", http.StatusOK, "text/html"},
		{"/swagger-ui/index.html", http.StatusFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v3/api-docs", nil))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "B2C Payment API", body["info"].(map[string]interface{})["title"])
}
