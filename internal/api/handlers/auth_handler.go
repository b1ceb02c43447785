package handlers

import (
	"mime"
	"net/http"

	"github.com/isdelr/authkit/internal/services"
)

// maxFormMemory bounds the in-memory part of a multipart login form.
const maxFormMemory = 1 << 20

// AuthHandler handles the public credential lifecycle endpoints.
type AuthHandler struct {
	service services.AuthServiceProvider
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

// EmailPayload carries a single email address.
type EmailPayload struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenPayload carries an action token.
type TokenPayload struct {
	Token string `json:"token" validate:"required"`
}

// ResetPasswordPayload defines the structure for password reset requests.
type ResetPasswordPayload struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max=128"`
}

// LoginPayload is the OAuth2 password form; username holds the email.
// Like the form it mirrors, only presence is checked.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "register", "Invalid request body")
		return
	}
	if !validatePayload(w, payload) {
		observe("register", http.StatusUnprocessableEntity)
		return
	}

	if err := h.service.Register(r.Context(), payload.Email, payload.Password); err != nil {
		observe("register", writeServiceError(w, r, err, "Failed to send verification email"))
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully. Please check your email to verify your account.")
	observe("register", http.StatusCreated)
}

// VerifyEmail confirms an email address and logs the user in.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var payload TokenPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "verify_email", "Invalid request body")
		return
	}
	fromQuery(r, &payload.Token, "token")
	if !validatePayload(w, payload) {
		observe("verify_email", http.StatusUnprocessableEntity)
		return
	}

	token, err := h.service.VerifyEmail(r.Context(), payload.Token)
	if err != nil {
		observe("verify_email", writeServiceError(w, r, err, ""))
		return
	}

	WriteJSON(w, http.StatusOK, token)
	observe("verify_email", http.StatusOK)
}

// ResendVerificationEmail sends a fresh verification link.
func (h *AuthHandler) ResendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var payload EmailPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "resend_verification", "Invalid request body")
		return
	}
	fromQuery(r, &payload.Email, "email")
	if !validatePayload(w, payload) {
		observe("resend_verification", http.StatusUnprocessableEntity)
		return
	}

	if err := h.service.ResendVerificationEmail(r.Context(), payload.Email); err != nil {
		observe("resend_verification", writeServiceError(w, r, err, "Failed to send verification email"))
		return
	}

	writeMessage(w, http.StatusOK, "Verification email resent successfully.")
	observe("resend_verification", http.StatusOK)
}

// Login handles user authentication and JWT generation.
// It accepts the OAuth2 password form as well as a JSON body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if mediaType := contentType(r); mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data" {
		if err := parseForm(r, mediaType); err != nil {
			rejectBody(w, "login", "Invalid form body")
			return
		}
		payload.Username = r.PostForm.Get("username")
		payload.Password = r.PostForm.Get("password")
	} else if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "login", "Invalid request body")
		return
	}
	if !validatePayload(w, payload) {
		observe("login", http.StatusUnprocessableEntity)
		return
	}

	token, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		observe("login", writeServiceError(w, r, err, ""))
		return
	}

	WriteJSON(w, http.StatusOK, token)
	observe("login", http.StatusOK)
}

// RecoverPassword emails a password reset link.
func (h *AuthHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var payload EmailPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "recover_password", "Invalid request body")
		return
	}
	fromQuery(r, &payload.Email, "email")
	if !validatePayload(w, payload) {
		observe("recover_password", http.StatusUnprocessableEntity)
		return
	}

	if err := h.service.RecoverPassword(r.Context(), payload.Email); err != nil {
		observe("recover_password", writeServiceError(w, r, err, "Failed to send password recovery email"))
		return
	}

	writeMessage(w, http.StatusOK, "Password recovery email sent successfully.")
	observe("recover_password", http.StatusOK)
}

// ResetPassword sets a new password using a reset token.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload ResetPasswordPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "reset_password", "Invalid request body")
		return
	}
	fromQuery(r, &payload.Token, "token")
	fromQuery(r, &payload.NewPassword, "new_password")
	if !validatePayload(w, payload) {
		observe("reset_password", http.StatusUnprocessableEntity)
		return
	}

	if err := h.service.ResetPassword(r.Context(), payload.Token, payload.NewPassword); err != nil {
		observe("reset_password", writeServiceError(w, r, err, ""))
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successfully.")
	observe("reset_password", http.StatusOK)
}

func contentType(r *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mediaType
}

// parseForm fills r.PostForm for urlencoded and multipart bodies.
func parseForm(r *http.Request, mediaType string) error {
	if mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}
