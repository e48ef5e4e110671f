package api

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPISource []byte

// openAPIDocument decodes the embedded document once.
var openAPIDocument = sync.OnceValues(func() (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(openAPISource, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse embedded OpenAPI document: %w", err)
	}
	return doc, nil
})

func (c *Controller) initOpenAPIRoutes() {
	c.Group.GET("/openapi.json", c.OpenAPI)
}

// OpenAPI handles GET /api/v1/openapi.json
func (c *Controller) OpenAPI(ctx echo.Context) error {
	doc, err := openAPIDocument()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, doc)
}
