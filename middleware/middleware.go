// ABOUTME: Shared middleware types and the chaining utility
// ABOUTME: Middleware compose in declaration order (first is outermost)

package middleware

import "net/http"

// Cookie and header names shared by the session middleware and handlers.
const (
	SessionCookieName = "ECOFINDS_SESSION"
	CSRFHeaderName    = "X-CSRF-Token"
	CSRFFieldName     = "csrf_token"
)

// Middleware wraps a handler with extra behavior.
type Middleware func(http.Handler) http.Handler

// Chain applies middleware to a handler in order.
// The first middleware in the list is the outermost (executes first).
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// SessionID returns the request's session cookie value, or "".
func SessionID(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
