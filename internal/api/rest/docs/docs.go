// Package docs serves the OpenAPI description of the REST API and a Swagger UI page.
package docs

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>B2C Payment API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
<script>
  window.ui = SwaggerUIBundle({ url: "/v3/api-docs", dom_id: "#swagger-ui" });
</script>
</body>
</html>`

// OpenAPIYAML returns the embedded OpenAPI document.
func OpenAPIYAML() []byte {
	return openAPIYAML
}

// OpenAPIDocument decodes the embedded OpenAPI document.
func OpenAPIDocument() (map[string]interface{}, error) {
	var document map[string]interface{}
	if err := yaml.Unmarshal(openAPIYAML, &document); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	return document, nil
}

// SetupRoutes registers the public documentation endpoints.
func SetupRoutes(r *gin.Engine) error {
	document, err := OpenAPIDocument()
	if err != nil {
		return err
	}

	r.GET("/v3/api-docs", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, document)
	})
	r.GET("/v3/api-docs.yaml", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "application/yaml", openAPIYAML)
	})
	r.GET("/swagger-ui.html", func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
	})
	r.GET("/swagger-ui/*any", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, "/swagger-ui.html")
	})
	return nil
}
