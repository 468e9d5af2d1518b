// ABOUTME: Page guards for the web frontend
// ABOUTME: RequireAuth sends visitors to login, RequireAnon keeps users off auth pages

package middleware

import (
	"net/http"
	"net/url"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

// Guard decides page access from the request's server-side session.
type Guard struct {
	sessions *services.WebSessions
}

// NewGuard creates a guard over the session service.
func NewGuard(sessions *services.WebSessions) *Guard {
	return &Guard{sessions: sessions}
}

// authenticated reports whether the request's session holds an access token.
func (g *Guard) authenticated(r *http.Request) bool {
	s, err := g.sessions.StoreFor(SessionID(r))
	if err != nil {
		return false
	}
	token, ok := s.Get(store.KeyAccessToken)
	return ok && token != ""
}

// RequireAuth redirects anonymous visitors to the login page, carrying
// the original URL so login can send them back.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.authenticated(r) {
			target := "/login"
			if r.URL.Path != "/" {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAnon keeps signed-in users off the login and register pages.
func (g *Guard) RequireAnon(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.authenticated(r) {
			http.Redirect(w, r, "/landing", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
