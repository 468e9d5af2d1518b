// ABOUTME: Tests for the session manager state machine
// ABOUTME: Verifies hydration outcomes, transitions, and observer notification

package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

func newSessionManager(serverURL string, s store.Store) *SessionManager {
	return NewSessionManager(newAuthClient(serverURL, s))
}

func TestHydrate_NoTokenIsAnonymous(t *testing.T) {
	m := newSessionManager("http://127.0.0.1:1", newTestStore())
	if m.State() != StateUninitialized {
		t.Fatalf("state = %v, want uninitialized", m.State())
	}
	m.Hydrate(context.Background())
	if m.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", m.State())
	}
	if m.Hydrating() {
		t.Error("Hydrating() = true after hydration completed")
	}
}

func TestHydrate_ValidTokenIsAuthenticated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/profile/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"id":3,"username":"eco"}`))
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyAccessToken, "acc")
	m := newSessionManager(server.URL, s)
	m.Hydrate(context.Background())

	if m.State() != StateAuthenticated {
		t.Fatalf("state = %v, want authenticated", m.State())
	}
	if user := m.CurrentUser(); user == nil || user.Username != "eco" {
		t.Errorf("CurrentUser() = %+v, want eco", user)
	}
}

func TestHydrate_RejectedTokenClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyAccessToken, "stale")
	s.Set(store.KeyUser, `{"id":1}`)

	m := newSessionManager(server.URL, s)
	m.Hydrate(context.Background())

	if m.State() != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", m.State())
	}
	if _, ok := s.Get(store.KeyAccessToken); ok {
		t.Error("rejected token still stored")
	}
	if _, ok := s.Get(store.KeyUser); ok {
		t.Error("cached user still stored")
	}
}

func TestHydrate_BackendDownKeepsToken(t *testing.T) {
	s := newTestStore()
	s.Set(store.KeyAccessToken, "acc")

	m := newSessionManager("http://127.0.0.1:1", s)
	m.Hydrate(context.Background())

	if m.State() != StateAnonymous {
		t.Fatalf("state = %v, want anonymous", m.State())
	}
	// Connectivity failure is not a rejection: the token survives
	if tok, _ := s.Get(store.KeyAccessToken); tok != "acc" {
		t.Errorf("access token = %q, want acc", tok)
	}
}

func TestHydrate_RunsOnce(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"id":3,"username":"eco"}`))
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyAccessToken, "acc")
	m := newSessionManager(server.URL, s)
	m.Hydrate(context.Background())
	m.Hydrate(context.Background())

	if calls != 1 {
		t.Errorf("profile fetched %d times, want 1", calls)
	}
}

func TestLogin_TransitionsAndNotifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"acc","refresh":"ref","user":{"id":2,"username":"eco"}}`))
	}))
	defer server.Close()

	m := newSessionManager(server.URL, newTestStore())
	var seen []SessionState
	m.Subscribe(func(state SessionState) { seen = append(seen, state) })

	if err := m.Login(context.Background(), "eco", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !m.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}
	if len(seen) != 1 || seen[0] != StateAuthenticated {
		t.Errorf("observed states = %v, want [authenticated]", seen)
	}
}

func TestLogin_FailureKeepsState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["Invalid username or password."]}`))
	}))
	defer server.Close()

	m := newSessionManager(server.URL, newTestStore())
	m.Hydrate(context.Background())

	err := m.Login(context.Background(), "eco", "bad")
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := err.(*models.AuthError); !ok {
		t.Errorf("error = %T, want *models.AuthError", err)
	}
	if m.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", m.State())
	}
}

func TestLogout_TransitionsToAnonymous(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"access":"acc","refresh":"ref","user":{"id":2,"username":"eco"}}`))
	}))
	defer server.Close()

	m := newSessionManager(server.URL, newTestStore())
	if err := m.Login(context.Background(), "eco", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	m.Logout(context.Background())

	if m.State() != StateAnonymous {
		t.Errorf("state = %v, want anonymous", m.State())
	}
	if m.CurrentUser() != nil {
		t.Error("CurrentUser() non-nil after logout")
	}
}

func TestSessionState_String(t *testing.T) {
	states := map[SessionState]string{
		StateUninitialized: "uninitialized",
		StateHydrating:     "hydrating",
		StateAuthenticated: "authenticated",
		StateAnonymous:     "anonymous",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestSubscribe_SeesHydrationStates(t *testing.T) {
	m := newSessionManager("http://127.0.0.1:1", newTestStore())
	var seen []SessionState
	m.Subscribe(func(state SessionState) { seen = append(seen, state) })
	m.Hydrate(context.Background())

	want := []SessionState{StateHydrating, StateAnonymous}
	if len(seen) != len(want) {
		t.Fatalf("observed %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observed %v, want %v", seen, want)
			break
		}
	}
}
