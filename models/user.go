// ABOUTME: User and auth request/response models for the EcoFinds backend contract
// ABOUTME: Field names match the REST API's JSON exactly

package models

// User is the account record as returned by the backend.
type User struct {
	ID             int    `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DateJoined     string `json:"date_joined"`
	IsActive       bool   `json:"is_active,omitempty"`
	LastLogin      string `json:"last_login,omitempty"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Address        string `json:"address,omitempty"`
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.Username
}

// LoginRequest represents credentials for authentication
type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me,omitempty"`
}

// RegisterRequest represents a new account signup
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	TermsAccepted   bool   `json:"terms_accepted"`
}

// AuthResponse is the token payload returned by login and register.
// The contract is the {access, refresh, user} shape.
type AuthResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// ChangePasswordRequest carries the password change fields.
// Matching and strength rules are enforced by the backend.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}

// PasswordResetRequest starts a password reset by email
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest completes a password reset with the emailed token
type PasswordResetConfirmRequest struct {
	Token              string `json:"token"`
	NewPassword        string `json:"new_password"`
	NewPasswordConfirm string `json:"new_password_confirm"`
}
