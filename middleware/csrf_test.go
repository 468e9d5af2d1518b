// ABOUTME: Tests for CSRF validation middleware
// ABOUTME: Covers safe methods, header and form tokens, and rejection paths

package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

func newSessions() *services.WebSessions {
	c := cache.New(5 * time.Minute)
	return services.NewWebSessions(func(sessionID string) store.Store {
		return store.NewMemoryStore(c, "session:"+sessionID+":", 5*time.Minute)
	})
}

func csrfRequest(t *testing.T, sessions *services.WebSessions, mutate func(*http.Request, string)) *httptest.ResponseRecorder {
	t.Helper()
	sessionID, err := sessions.Create()
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	token, err := sessions.CSRFToken(sessionID)
	if err != nil {
		t.Fatalf("CSRFToken() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sessionID})
	mutate(req, token)

	rec := httptest.NewRecorder()
	CSRF(sessions)(okHandler()).ServeHTTP(rec, req)
	return rec
}

func TestCSRF_SafeMethodSkipped(t *testing.T) {
	sessions := newSessions()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	rec := httptest.NewRecorder()
	CSRF(sessions)(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCSRF_NoSessionSkipped(t *testing.T) {
	sessions := newSessions()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	CSRF(sessions)(okHandler()).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCSRF_ValidHeaderToken(t *testing.T) {
	rec := csrfRequest(t, newSessions(), func(req *http.Request, token string) {
		req.Header.Set(CSRFHeaderName, token)
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCSRF_ValidFormToken(t *testing.T) {
	rec := csrfRequest(t, newSessions(), func(req *http.Request, token string) {
		form := url.Values{CSRFFieldName: {token}}
		req.Body = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode())).Body
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestCSRF_MissingTokenRejected(t *testing.T) {
	rec := csrfRequest(t, newSessions(), func(req *http.Request, token string) {})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCSRF_WrongTokenRejected(t *testing.T) {
	rec := csrfRequest(t, newSessions(), func(req *http.Request, token string) {
		req.Header.Set(CSRFHeaderName, strings.Repeat("x", len(token)))
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCSRF_ShortTokenRejected(t *testing.T) {
	rec := csrfRequest(t, newSessions(), func(req *http.Request, token string) {
		req.Header.Set(CSRFHeaderName, "short")
	})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}
