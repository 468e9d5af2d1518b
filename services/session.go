// ABOUTME: Session manager owning the auth lifecycle state machine
// ABOUTME: Uninitialized -> Hydrating -> Authenticated or Anonymous, with observers

package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
)

// SessionState is the manager's position in the auth lifecycle.
type SessionState int

const (
	StateUninitialized SessionState = iota
	StateHydrating
	StateAuthenticated
	StateAnonymous
)

func (s SessionState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateHydrating:
		return "hydrating"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// SessionManager holds the reactive session state for one principal.
// Observers registered with Subscribe are notified after every state
// transition. All methods are safe for concurrent use.
type SessionManager struct {
	mu          sync.Mutex
	auth        *AuthClient
	state       SessionState
	user        *models.User
	subscribers []func(SessionState)
}

// NewSessionManager creates a manager in the uninitialized state.
func NewSessionManager(auth *AuthClient) *SessionManager {
	return &SessionManager{auth: auth, state: StateUninitialized}
}

// Hydrate resolves the initial state from stored credentials, once.
// A stored token is validated by fetching the profile: success means
// Authenticated; a rejected token means the session is cleared and the
// state is Anonymous; any other failure leaves the token untouched but
// still lands on Anonymous. Subsequent calls are no-ops.
func (m *SessionManager) Hydrate(ctx context.Context) {
	m.mu.Lock()
	if m.state != StateUninitialized {
		m.mu.Unlock()
		return
	}
	m.state = StateHydrating
	m.mu.Unlock()
	m.notify(StateHydrating)

	if m.auth.Token() == "" {
		m.transition(StateAnonymous, nil)
		return
	}

	user, err := m.auth.Profile(ctx)
	if err != nil {
		if !m.auth.IsAuthenticated() {
			// The 401 handling already cleared the token; finish tearing
			// the session down so the cached user goes too.
			m.auth.Logout(ctx)
		} else {
			slog.Warn("Session hydration failed, keeping stored token", "error", err)
		}
		m.transition(StateAnonymous, nil)
		return
	}

	m.transition(StateAuthenticated, user)
}

// Login authenticates and transitions to Authenticated on success.
// On failure the state is unchanged and the normalized error is returned.
func (m *SessionManager) Login(ctx context.Context, username, password string) error {
	resp, err := m.auth.Login(ctx, models.LoginRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	user := resp.User
	m.transition(StateAuthenticated, &user)
	return nil
}

// Register creates an account and transitions to Authenticated on success.
func (m *SessionManager) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := m.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	user := resp.User
	m.transition(StateAuthenticated, &user)
	return nil
}

// Logout transitions to Anonymous unconditionally; a failed server call
// still clears local state.
func (m *SessionManager) Logout(ctx context.Context) {
	m.auth.Logout(ctx)
	m.transition(StateAnonymous, nil)
}

// UpdateProfile changes the cached user without touching auth state.
func (m *SessionManager) UpdateProfile(ctx context.Context, update ProfileUpdate) error {
	user, err := m.auth.UpdateProfile(ctx, update)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.user = user
	m.mu.Unlock()
	return nil
}

// ChangePassword changes the password; session state is untouched.
func (m *SessionManager) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	return m.auth.ChangePassword(ctx, req)
}

// CurrentUser returns the hydrated user, falling back to the stored copy.
func (m *SessionManager) CurrentUser() *models.User {
	m.mu.Lock()
	user := m.user
	m.mu.Unlock()
	if user != nil {
		return user
	}
	return m.auth.CurrentUser()
}

// State returns the current lifecycle state.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// IsAuthenticated reports whether the manager holds an authenticated session.
func (m *SessionManager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// Hydrating reports whether the initial session resolution is still running.
func (m *SessionManager) Hydrating() bool {
	state := m.State()
	return state == StateUninitialized || state == StateHydrating
}

// Subscribe registers an observer called after each state transition.
func (m *SessionManager) Subscribe(fn func(SessionState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// transition updates state and user, then notifies observers.
func (m *SessionManager) transition(state SessionState, user *models.User) {
	m.mu.Lock()
	m.state = state
	m.user = user
	m.mu.Unlock()
	m.notify(state)
}

// notify calls observers outside the lock so they may read the manager.
func (m *SessionManager) notify(state SessionState) {
	m.mu.Lock()
	subs := make([]func(SessionState), len(m.subscribers))
	copy(subs, m.subscribers)
	m.mu.Unlock()
	for _, fn := range subs {
		fn(state)
	}
}
