// Package docs serves the hand-maintained OpenAPI description of the
// REST surface.
package docs

import (
	_ "embed"
	"net/http"
)

//go:embed openapi.json
var openAPISpec []byte

func ServeOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(openAPISpec)
}
