// ABOUTME: Browser session service backing the cookie-based web frontend
// ABOUTME: Issues cryptographically secure session IDs and per-session scoped stores

package services

import (
	"crypto/rand"
	"encoding/base64"
	"errors"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

// ErrSessionNotFound is returned when a session ID has no backing store,
// either because it expired or was never issued.
var ErrSessionNotFound = errors.New("session not found")

// StoreFactory builds a key-value store scoped to one session. The web
// server provides a memory- or Redis-backed implementation.
type StoreFactory func(sessionID string) store.Store

// WebSessions manages browser sessions. Each session owns an isolated
// store holding the upstream tokens, cached user, CSRF token, and cart,
// so credentials never leave the server.
type WebSessions struct {
	factory StoreFactory
}

// NewWebSessions creates a session service over the given store factory.
func NewWebSessions(factory StoreFactory) *WebSessions {
	return &WebSessions{factory: factory}
}

// Create generates a new session with a fresh CSRF token and returns the
// session ID for the cookie.
func (w *WebSessions) Create() (string, error) {
	// 32 bytes of cryptographically secure random data for the session ID
	sessionIDBytes := make([]byte, 32)
	if _, err := rand.Read(sessionIDBytes); err != nil {
		return "", err
	}
	sessionID := base64.URLEncoding.EncodeToString(sessionIDBytes)

	csrfBytes := make([]byte, 32)
	if _, err := rand.Read(csrfBytes); err != nil {
		return "", err
	}
	csrfToken := base64.URLEncoding.EncodeToString(csrfBytes)

	s := w.factory(sessionID)
	s.Set(store.KeyCSRF, csrfToken)

	return sessionID, nil
}

// StoreFor returns the scoped store for a session ID. The CSRF token
// doubles as the liveness marker: a session whose store has expired or
// was destroyed no longer has one.
func (w *WebSessions) StoreFor(sessionID string) (store.Store, error) {
	if sessionID == "" {
		return nil, ErrSessionNotFound
	}
	s := w.factory(sessionID)
	if _, ok := s.Get(store.KeyCSRF); !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// CSRFToken returns the session's CSRF token.
func (w *WebSessions) CSRFToken(sessionID string) (string, error) {
	s, err := w.StoreFor(sessionID)
	if err != nil {
		return "", err
	}
	token, ok := s.Get(store.KeyCSRF)
	if !ok {
		return "", ErrSessionNotFound
	}
	return token, nil
}

// Destroy removes everything the session stored.
func (w *WebSessions) Destroy(sessionID string) {
	if sessionID == "" {
		return
	}
	w.factory(sessionID).Clear()
}
