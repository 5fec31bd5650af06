// Package swagger serves the OpenAPI document and a ReDoc page for it.
package swagger

import (
	"errors"
	"net/http"
)

// Error constants.
var (
	ErrNilRouter = errors.New("swagger: router is nil")
)

// Router is the subset of chi.Router the docs routes need.
type Router interface {
	Get(pattern string, h http.HandlerFunc)
}

// Register attaches the docs routes to r.
//
//	GET /openapi.yaml -> embedded OpenAPI document
//	GET /api-docs     -> ReDoc HTML rendering /openapi.yaml
func Register(r Router) error {
	if r == nil {
		return ErrNilRouter
	}
	r.Get("/openapi.yaml", HandleSpec)
	r.Get("/api-docs", HandleDocs)
	return nil
}

// HandleSpec writes the embedded OpenAPI document.
func HandleSpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	_, _ = w.Write(OpenAPI)
}

// HandleDocs writes the ReDoc page.
func HandleDocs(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(indexHTML))
}

const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Elo Rating API - ReDoc</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
