// ABOUTME: Tests for the auth session service
// ABOUTME: Verifies token storage, logout semantics, and error normalization

package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

func newAuthClient(serverURL string, s store.Store) *AuthClient {
	return NewAuthClient(NewClient(serverURL, 5*time.Second, s))
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiry)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestLogin_StoresSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/login/" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds models.LoginRequest
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "eco" {
			t.Errorf("username = %q, want eco", creds.Username)
		}
		json.NewEncoder(w).Encode(models.AuthResponse{
			Access:  "acc-1",
			Refresh: "ref-1",
			User:    models.User{ID: 7, Username: "eco"},
		})
	}))
	defer server.Close()

	s := newTestStore()
	auth := newAuthClient(server.URL, s)

	resp, err := auth.Login(context.Background(), models.LoginRequest{Username: "eco", Password: "pw"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Username != "eco" {
		t.Errorf("user = %q, want eco", resp.User.Username)
	}

	if tok, _ := s.Get(store.KeyAccessToken); tok != "acc-1" {
		t.Errorf("access_token = %q, want acc-1", tok)
	}
	if tok, _ := s.Get(store.KeyRefreshToken); tok != "ref-1" {
		t.Errorf("refresh_token = %q, want ref-1", tok)
	}
	if user := auth.CurrentUser(); user == nil || user.ID != 7 {
		t.Errorf("CurrentUser() = %+v, want ID 7", user)
	}
	if !auth.IsAuthenticated() {
		t.Error("IsAuthenticated() = false after login")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"non_field_errors":["Invalid username or password."]}`))
	}))
	defer server.Close()

	auth := newAuthClient(server.URL, newTestStore())
	_, err := auth.Login(context.Background(), models.LoginRequest{Username: "eco", Password: "bad"})
	authErr, ok := err.(*models.AuthError)
	if !ok {
		t.Fatalf("error = %T, want *models.AuthError", err)
	}
	if authErr.Message != "Invalid username or password." {
		t.Errorf("message = %q", authErr.Message)
	}
	if auth.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed login")
	}
}

func TestLogout_ClearsSessionDespiteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyAccessToken, "acc")
	s.Set(store.KeyRefreshToken, "ref")
	s.Set(store.KeyUser, `{"id":1}`)

	auth := newAuthClient(server.URL, s)
	auth.Logout(context.Background())

	for _, key := range []string{store.KeyAccessToken, store.KeyRefreshToken, store.KeyUser} {
		if _, ok := s.Get(key); ok {
			t.Errorf("key %q still present after logout", key)
		}
	}
}

func TestLogout_SendsRefreshToken(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyRefreshToken, "ref-x")
	newAuthClient(server.URL, s).Logout(context.Background())

	if gotBody["refresh"] != "ref-x" {
		t.Errorf("logout body = %v, want refresh ref-x", gotBody)
	}
}

func TestRefreshToken_MissingFailsFast(t *testing.T) {
	// No server: the call must not go over the wire at all
	auth := newAuthClient("http://127.0.0.1:1", newTestStore())
	_, err := auth.RefreshToken(context.Background())
	authErr, ok := err.(*models.AuthError)
	if !ok {
		t.Fatalf("error = %T, want *models.AuthError", err)
	}
	if authErr.Message != "No refresh token available" {
		t.Errorf("message = %q", authErr.Message)
	}
}

func TestRefreshToken_FailureLogsOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyAccessToken, "acc")
	s.Set(store.KeyRefreshToken, "dead")

	auth := newAuthClient(server.URL, s)
	_, err := auth.RefreshToken(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if auth.IsAuthenticated() {
		t.Error("IsAuthenticated() = true after failed refresh")
	}
	if _, ok := s.Get(store.KeyRefreshToken); ok {
		t.Error("refresh token still present after failed refresh")
	}
}

func TestRefreshToken_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/token/refresh/" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"access":"acc-new"}`))
	}))
	defer server.Close()

	s := newTestStore()
	s.Set(store.KeyRefreshToken, "ref")

	auth := newAuthClient(server.URL, s)
	access, err := auth.RefreshToken(context.Background())
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if access != "acc-new" {
		t.Errorf("access = %q, want acc-new", access)
	}
	if tok, _ := s.Get(store.KeyAccessToken); tok != "acc-new" {
		t.Errorf("stored access = %q, want acc-new", tok)
	}
}

func TestCurrentUser_MalformedCacheReturnsNil(t *testing.T) {
	s := newTestStore()
	s.Set(store.KeyUser, "{not json")
	auth := newAuthClient("http://127.0.0.1:1", s)
	if user := auth.CurrentUser(); user != nil {
		t.Errorf("CurrentUser() = %+v, want nil", user)
	}
}

func TestNeedsRefresh(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Duration
		want   bool
	}{
		{"far from expiry", time.Hour, false},
		{"inside window", 2 * time.Minute, true},
		{"already expired", -time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.Set(store.KeyAccessToken, signedToken(t, time.Now().Add(tt.expiry)))
			auth := newAuthClient("http://127.0.0.1:1", s)
			if got := auth.NeedsRefresh(); got != tt.want {
				t.Errorf("NeedsRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsRefresh_OpaqueToken(t *testing.T) {
	s := newTestStore()
	s.Set(store.KeyAccessToken, "not-a-jwt")
	auth := newAuthClient("http://127.0.0.1:1", s)
	if auth.NeedsRefresh() {
		t.Error("NeedsRefresh() = true for a token without a readable expiry")
	}
}

func TestTokenExpiry(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	got, err := TokenExpiry(signedToken(t, expiry))
	if err != nil {
		t.Fatalf("TokenExpiry() error = %v", err)
	}
	if !got.Equal(expiry) {
		t.Errorf("TokenExpiry() = %v, want %v", got, expiry)
	}
}

func TestNormalizeAuthError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantMsg   string
		wantField string
		wantCode  string
	}{
		{
			name:    "non_field_errors wins",
			err:     &APIError{StatusCode: 400, Body: []byte(`{"non_field_errors":["Bad combo"],"email":["Taken"]}`)},
			wantMsg: "Bad combo",
		},
		{
			name:      "field error carries field and status",
			err:       &APIError{StatusCode: 400, Body: []byte(`{"email":["Enter a valid email address."]}`)},
			wantMsg:   "Enter a valid email address.",
			wantField: "email",
			wantCode:  "400",
		},
		{
			name:      "first field in sorted key order",
			err:       &APIError{StatusCode: 400, Body: []byte(`{"username":["Required."],"email":["Taken."]}`)},
			wantMsg:   "Taken.",
			wantField: "email",
			wantCode:  "400",
		},
		{
			name:    "detail string",
			err:     &APIError{StatusCode: 403, Body: []byte(`{"detail":"Permission denied."}`)},
			wantMsg: "Permission denied.",
		},
		{
			name:    "message string",
			err:     &APIError{StatusCode: 500, Body: []byte(`{"message":"Server exploded."}`)},
			wantMsg: "Server exploded.",
		},
		{
			name:    "unparseable body falls back to generic",
			err:     &APIError{StatusCode: 502, Body: []byte(`<html>bad gateway</html>`)},
			wantMsg: models.MsgGenericError,
		},
		{
			name:    "connect error becomes network message",
			err:     &ConnectError{URL: "http://x", Err: context.DeadlineExceeded},
			wantMsg: models.MsgNetworkError,
		},
		{
			name:    "already normalized passes through",
			err:     &models.AuthError{Message: "No refresh token available"},
			wantMsg: "No refresh token available",
		},
		{
			name:    "anything else is generic",
			err:     context.Canceled,
			wantMsg: models.MsgGenericError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAuthError(tt.err)
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", got.Field, tt.wantField)
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", got.Code, tt.wantCode)
			}
		})
	}
}
