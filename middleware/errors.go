// ABOUTME: JSON error helper and panic recovery middleware
// ABOUTME: Keeps middleware error responses in the API's JSON error shape

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

// writeJSONError writes an error response as JSON with the given status.
// Matches the format used by the handlers package.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// Recover converts handler panics into a 500 response instead of killing
// the connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("Panic recovered",
					"error", err,
					"method", r.Method,
					"path", r.URL.Path,
				)
				writeJSONError(w, "An internal error occurred", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
