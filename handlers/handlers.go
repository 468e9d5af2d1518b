// ABOUTME: HTTP handlers for the EcoFinds web frontend
// ABOUTME: Resolves the session, builds per-request API clients, renders pages

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/config"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/middleware"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

// Handler serves the web frontend. Upstream credentials live in the
// server-side session store; the browser only ever holds the session
// cookie.
type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	sessions  *services.WebSessions
	templates *TemplateCache
}

func NewHandler(cfg *config.Config, c *cache.Cache, sessions *services.WebSessions, templates *TemplateCache) *Handler {
	return &Handler{
		cfg:       cfg,
		cache:     c,
		sessions:  sessions,
		templates: templates,
	}
}

// session bundles everything a request needs: the session's store and
// API clients scoped to that session's credentials.
type session struct {
	id      string
	store   store.Store
	auth    *services.AuthClient
	catalog *services.CatalogClient
	csrf    string
}

// session resolves the request's session, creating one (and setting the
// cookie) when the browser has none or a stale one.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session, error) {
	sessionID := middleware.SessionID(r)
	s, err := h.sessions.StoreFor(sessionID)
	if err != nil {
		sessionID, err = h.sessions.Create()
		if err != nil {
			return nil, err
		}
		s, err = h.sessions.StoreFor(sessionID)
		if err != nil {
			return nil, err
		}
		h.setSessionCookie(w, sessionID)
	}

	csrf, err := h.sessions.CSRFToken(sessionID)
	if err != nil {
		return nil, err
	}

	api := services.NewClient(h.cfg.APIBaseURL, time.Duration(h.cfg.APITimeout)*time.Second, s)
	auth := services.NewAuthClient(api)

	// Renew the access token before it expires. Failure already logged
	// the user out, so the request proceeds as anonymous.
	if auth.NeedsRefresh() {
		if _, err := auth.RefreshToken(r.Context()); err != nil {
			slog.Info("Token refresh failed", "session", sessionID[:8], "error", err)
		}
	}

	return &session{
		id:      sessionID,
		store:   s,
		auth:    auth,
		catalog: services.NewCatalogClient(api, h.cache, time.Duration(h.cfg.CacheTTL)*time.Second),
		csrf:    csrf,
	}, nil
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   h.cfg.SessionTTL,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// render executes a page template with the shared chrome data merged in.
func (h *Handler) render(w http.ResponseWriter, name string, sess *session, data map[string]interface{}) {
	tmpl := h.templates.Get(name)
	if tmpl == nil {
		slog.Error("Template not found", "name", name)
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if sess != nil {
		data["CSRFToken"] = sess.csrf
		if _, ok := data["User"]; !ok {
			data["User"] = sess.auth.CurrentUser()
		}
		if _, ok := data["CartCount"]; !ok {
			raw, _ := sess.store.Get(store.KeyCart)
			data["CartCount"] = models.DecodeCart(raw).Count()
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
		slog.Error("Template execution failed", "name", name, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, models.ErrorResponse{Error: message, Code: code})
}

// handleError maps a service error to the right page response. A dead
// session goes back to login; everything else renders the error page.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, sess *session, err error) {
	if services.IsUnauthorized(err) {
		slog.Info("Session rejected, redirecting to login", "path", r.URL.Path)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if services.IsNotFound(err) {
		http.NotFound(w, r)
		return
	}

	slog.Error("Request failed", "path", r.URL.Path, "error", err)
	message := models.MsgGenericError
	var connErr *services.ConnectError
	if errors.As(err, &connErr) {
		message = models.MsgNetworkError
	}
	w.WriteHeader(http.StatusBadGateway)
	h.render(w, "error.html", sess, map[string]interface{}{
		"Message": message,
	})
}
