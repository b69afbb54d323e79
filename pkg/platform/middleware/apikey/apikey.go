// Package apikey guards routes with a shared static API key.
package apikey

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/admin-bn/company-controller/pkg/requestcontext"
)

// Header is the request header carrying the key.
const Header = "X-API-Key"

// Require rejects requests whose X-API-Key does not match expected.
// An empty expected key disables the check, which is only meant for local runs.
func Require(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expected == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(Header)
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "api key mismatch",
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"valid X-API-Key header required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
