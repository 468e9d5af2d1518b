// ABOUTME: Auth page handlers: login, register, logout, dashboard, password flows
// ABOUTME: Forms post back to the same path; failures re-render with the message

package handlers

import (
	"net/http"
	"strings"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
)

// LoginPage renders the login form.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "login.html", sess, map[string]interface{}{
		"Next": r.URL.Query().Get("next"),
	})
}

// Login handles the login form post.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	creds := models.LoginRequest{
		Username:   strings.TrimSpace(r.FormValue("username")),
		Password:   r.FormValue("password"),
		RememberMe: r.FormValue("remember_me") == "on",
	}

	if _, err := sess.auth.Login(r.Context(), creds); err != nil {
		authErr := services.NormalizeAuthError(err)
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, "login.html", sess, map[string]interface{}{
			"Error":    authErr.Message,
			"Field":    authErr.Field,
			"Username": creds.Username,
			"Next":     r.FormValue("next"),
		})
		return
	}

	http.Redirect(w, r, safeNext(r.FormValue("next"), "/landing"), http.StatusSeeOther)
}

// RegisterPage renders the signup form.
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "register.html", sess, nil)
}

// Register handles the signup form post. Registration logs the new user
// in immediately.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	req := models.RegisterRequest{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
		FirstName:       strings.TrimSpace(r.FormValue("first_name")),
		LastName:        strings.TrimSpace(r.FormValue("last_name")),
		TermsAccepted:   r.FormValue("terms_accepted") == "on",
	}

	if _, err := sess.auth.Register(r.Context(), req); err != nil {
		authErr := services.NormalizeAuthError(err)
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "register.html", sess, map[string]interface{}{
			"Error": authErr.Message,
			"Field": authErr.Field,
			"Form":  req,
		})
		return
	}

	http.Redirect(w, r, "/landing", http.StatusSeeOther)
}

// Logout tears the session down on both sides and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err == nil {
		sess.auth.Logout(r.Context())
		h.sessions.Destroy(sess.id)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Dashboard renders the profile page with fresh data from the backend.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	user, err := sess.auth.Profile(r.Context())
	if err != nil {
		// The profile fetch failing should not hide the page when we
		// still hold a cached user
		if cached := sess.auth.CurrentUser(); cached != nil {
			user = cached
		} else {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
	}

	h.render(w, "dashboard.html", sess, map[string]interface{}{
		"User": user,
	})
}

// UpdateProfile handles the profile edit form post.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	update := services.ProfileUpdate{
		FirstName:   strings.TrimSpace(r.FormValue("first_name")),
		LastName:    strings.TrimSpace(r.FormValue("last_name")),
		Email:       strings.TrimSpace(r.FormValue("email")),
		PhoneNumber: strings.TrimSpace(r.FormValue("phone_number")),
		Address:     strings.TrimSpace(r.FormValue("address")),
	}

	user, err := sess.auth.UpdateProfile(r.Context(), update)
	if err != nil {
		authErr := services.NormalizeAuthError(err)
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "dashboard.html", sess, map[string]interface{}{
			"Error": authErr.Message,
			"Field": authErr.Field,
		})
		return
	}

	h.render(w, "dashboard.html", sess, map[string]interface{}{
		"User":    user,
		"Success": "Profile updated.",
	})
}

// ChangePassword handles the password change form post.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	req := models.ChangePasswordRequest{
		CurrentPassword:    r.FormValue("current_password"),
		NewPassword:        r.FormValue("new_password"),
		NewPasswordConfirm: r.FormValue("new_password_confirm"),
	}

	if err := sess.auth.ChangePassword(r.Context(), req); err != nil {
		authErr := services.NormalizeAuthError(err)
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, "dashboard.html", sess, map[string]interface{}{
			"PasswordError": authErr.Message,
		})
		return
	}

	h.render(w, "dashboard.html", sess, map[string]interface{}{
		"Success": "Password changed.",
	})
}

// PasswordResetPage renders the forgot-password form.
func (h *Handler) PasswordResetPage(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}
	h.render(w, "password_reset.html", sess, nil)
}

// PasswordReset handles the forgot-password form post. The response is
// the same whether or not the address exists.
func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.session(w, r)
	if err != nil {
		writeError(w, "Session unavailable", http.StatusInternalServerError)
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	if err := sess.auth.RequestPasswordReset(r.Context(), email); err != nil {
		authErr := services.NormalizeAuthError(err)
		if authErr.Message == models.MsgNetworkError {
			w.WriteHeader(http.StatusBadGateway)
			h.render(w, "password_reset.html", sess, map[string]interface{}{
				"Error": authErr.Message,
			})
			return
		}
	}

	h.render(w, "password_reset.html", sess, map[string]interface{}{
		"Success": "If an account exists for that address, a reset link is on its way.",
	})
}

// safeNext keeps post-login redirects on this site. Absolute URLs and
// protocol-relative paths fall back to the default.
func safeNext(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return fallback
	}
	return next
}
