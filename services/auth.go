// ABOUTME: Auth session service wrapping the /accounts/ endpoints
// ABOUTME: Persists tokens and the cached user, and normalizes every failure

package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

// refreshWindow is how close to expiry a token may get before NeedsRefresh
// reports true.
const refreshWindow = 5 * time.Minute

// AuthClient wraps the backend's account endpoints. Successful calls keep
// the session store's access_token, refresh_token, and user keys in sync;
// every failure comes back as a *models.AuthError.
type AuthClient struct {
	api *Client
}

// NewAuthClient creates an auth client over the configured HTTP client.
func NewAuthClient(api *Client) *AuthClient {
	return &AuthClient{api: api}
}

// ProfileUpdate carries the subset of user fields a profile edit may change.
type ProfileUpdate struct {
	FirstName      string `json:"first_name,omitempty"`
	LastName       string `json:"last_name,omitempty"`
	Email          string `json:"email,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Address        string `json:"address,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// Login exchanges credentials for tokens and stores the session.
func (a *AuthClient) Login(ctx context.Context, creds models.LoginRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/login/", creds, &resp); err != nil {
		return nil, NormalizeAuthError(err)
	}
	a.storeSession(&resp)
	return &resp, nil
}

// Register creates an account; the storage contract matches Login.
func (a *AuthClient) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/register/", req, &resp); err != nil {
		return nil, NormalizeAuthError(err)
	}
	a.storeSession(&resp)
	return &resp, nil
}

// Logout invalidates the session server-side on a best-effort basis and
// unconditionally clears the local session keys.
func (a *AuthClient) Logout(ctx context.Context) {
	if refresh, ok := a.api.Store().Get(store.KeyRefreshToken); ok && refresh != "" {
		payload := map[string]string{"refresh": refresh}
		if err := a.api.JSON(ctx, http.MethodPost, "/accounts/logout/", payload, nil); err != nil {
			slog.Warn("Server-side logout failed", "error", err)
		}
	}
	a.api.Store().Delete(store.KeyAccessToken, store.KeyRefreshToken, store.KeyUser)
}

// Profile fetches the current user and refreshes the cached copy.
func (a *AuthClient) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := a.api.JSON(ctx, http.MethodGet, "/accounts/profile/", nil, &user); err != nil {
		return nil, NormalizeAuthError(err)
	}
	a.storeUser(&user)
	return &user, nil
}

// UpdateProfile sends the changed fields and stores the updated user.
func (a *AuthClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (*models.User, error) {
	var user models.User
	if err := a.api.JSON(ctx, http.MethodPut, "/accounts/profile/update/", update, &user); err != nil {
		return nil, NormalizeAuthError(err)
	}
	a.storeUser(&user)
	return &user, nil
}

// ChangePassword changes the password; no local state is touched.
func (a *AuthClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error {
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/change-password/", req, nil); err != nil {
		return NormalizeAuthError(err)
	}
	return nil
}

// RequestPasswordReset starts a reset by email.
func (a *AuthClient) RequestPasswordReset(ctx context.Context, email string) error {
	req := models.PasswordResetRequest{Email: email}
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/password-reset/", req, nil); err != nil {
		return NormalizeAuthError(err)
	}
	return nil
}

// ConfirmPasswordReset completes a reset with the emailed token.
func (a *AuthClient) ConfirmPasswordReset(ctx context.Context, req models.PasswordResetConfirmRequest) error {
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/password-reset-confirm/", req, nil); err != nil {
		return NormalizeAuthError(err)
	}
	return nil
}

// RefreshToken exchanges the stored refresh token for a new access token.
// Any failure logs the session out before propagating.
func (a *AuthClient) RefreshToken(ctx context.Context) (string, error) {
	refresh, ok := a.api.Store().Get(store.KeyRefreshToken)
	if !ok || refresh == "" {
		return "", &models.AuthError{Message: "No refresh token available"}
	}

	payload := map[string]string{"refresh": refresh}
	var resp struct {
		Access string `json:"access"`
	}
	if err := a.api.JSON(ctx, http.MethodPost, "/accounts/token/refresh/", payload, &resp); err != nil {
		a.Logout(ctx)
		return "", NormalizeAuthError(err)
	}

	a.api.Store().Set(store.KeyAccessToken, resp.Access)
	return resp.Access, nil
}

// CurrentUser is a synchronous read of the cached user. It returns nil on
// a missing or malformed cache entry and never fails.
func (a *AuthClient) CurrentUser() *models.User {
	raw, ok := a.api.Store().Get(store.KeyUser)
	if !ok || raw == "" {
		return nil
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		slog.Error("Failed to parse cached user", "error", err)
		return nil
	}
	return &user
}

// Token returns the stored access token, or "".
func (a *AuthClient) Token() string {
	token, _ := a.api.Store().Get(store.KeyAccessToken)
	return token
}

// IsAuthenticated reports whether an access token is stored.
func (a *AuthClient) IsAuthenticated() bool {
	return a.Token() != ""
}

// NeedsRefresh reports whether the stored access token expires within the
// refresh window. Tokens without a readable expiry never trigger a refresh.
func (a *AuthClient) NeedsRefresh() bool {
	token := a.Token()
	if token == "" {
		return false
	}
	expiry, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return time.Until(expiry) <= refreshWindow
}

// storeSession persists both tokens and the user after login/register.
func (a *AuthClient) storeSession(resp *models.AuthResponse) {
	s := a.api.Store()
	s.Set(store.KeyAccessToken, resp.Access)
	if resp.Refresh != "" {
		s.Set(store.KeyRefreshToken, resp.Refresh)
	}
	a.storeUser(&resp.User)
}

func (a *AuthClient) storeUser(user *models.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		slog.Error("Failed to encode user for storage", "error", err)
		return
	}
	a.api.Store().Set(store.KeyUser, string(raw))
}

// TokenExpiry reads the exp claim from a JWT without verifying the
// signature. Verification is the backend's job; the client only needs to
// know when to refresh.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token has no expiry claim")
	}
	return claims.ExpiresAt.Time, nil
}

// NormalizeAuthError converts any failure into the single AuthError shape.
// The cascade, in priority order:
//  1. backend non_field_errors list: first entry
//  2. any field holding a list of messages: first message, plus the field
//     name and the HTTP status as a code
//  3. a detail or message string from the backend
//  4. network-level failure: fixed connectivity message
//  5. anything else: fixed generic message
func NormalizeAuthError(err error) *models.AuthError {
	// Already normalized (e.g. the missing-refresh-token fast path)
	var authErr *models.AuthError
	if errors.As(err, &authErr) {
		return authErr
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		var body map[string]interface{}
		if json.Unmarshal(apiErr.Body, &body) == nil {
			if msg, ok := firstString(body["non_field_errors"]); ok {
				return &models.AuthError{Message: msg}
			}

			// Field errors: keys scanned in sorted order so the result is
			// deterministic regardless of map iteration
			keys := make([]string, 0, len(body))
			for key := range body {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				if msg, ok := firstString(body[key]); ok {
					return &models.AuthError{
						Message: msg,
						Field:   key,
						Code:    strconv.Itoa(apiErr.StatusCode),
					}
				}
			}

			if detail, ok := body["detail"].(string); ok && detail != "" {
				return &models.AuthError{Message: detail}
			}
			if msg, ok := body["message"].(string); ok && msg != "" {
				return &models.AuthError{Message: msg}
			}
		}
		return &models.AuthError{Message: models.MsgGenericError}
	}

	var connErr *ConnectError
	if errors.As(err, &connErr) {
		return &models.AuthError{Message: models.MsgNetworkError}
	}

	return &models.AuthError{Message: models.MsgGenericError}
}

// firstString returns the first string of a JSON array value.
func firstString(value interface{}) (string, bool) {
	list, ok := value.([]interface{})
	if !ok || len(list) == 0 {
		return "", false
	}
	str, ok := list[0].(string)
	return str, ok
}
