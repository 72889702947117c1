// Package handlers wires the catalog, review, stats and auth services to
// chi routes. Responses use the shared API envelope; request ids come from
// the router middleware.
package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/example/alfajores-platform/internal/platform/httpserver"
)

// queryInt parses a positive integer query parameter. Anything missing,
// non-numeric or non-positive falls back to the default instead of failing
// the request.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func requestID(r *http.Request) string {
	return httpserver.RequestIDFromContext(r.Context())
}
