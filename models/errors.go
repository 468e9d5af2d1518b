// ABOUTME: Normalized error shape for all auth-path failures
// ABOUTME: UI code only ever sees this one contract, never transport errors

package models

// AuthError is the single error shape every auth operation returns,
// regardless of what the backend sent back.
type AuthError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code,omitempty"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// Fixed fallback messages used by the normalization cascade.
const (
	MsgNetworkError = "Network error. Please check your connection."
	MsgGenericError = "An unexpected error occurred. Please try again."
)
