package handlers

import (
	"errors"
	"net/http"

	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for the authenticated user.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// UpdatePasswordPayload defines the structure for password change requests.
type UpdatePasswordPayload struct {
	CurrentPassword string `json:"current_password" validate:"required,min=6,max=128"`
	NewPassword     string `json:"new_password" validate:"required,min=6,max=128"`
}

// Me returns the profile of the authenticated user.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	profile, err := h.service.GetCurrentUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

// UpdatePassword changes the password of the authenticated user.
func (h *UserHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var payload UpdatePasswordPayload
	if err := decodeJSON(r, &payload); err != nil {
		rejectBody(w, "update_password", "Invalid request body")
		return
	}
	if !validatePayload(w, payload) {
		observe("update_password", http.StatusUnprocessableEntity)
		return
	}

	err := h.service.UpdatePassword(r.Context(), user.ID, payload.CurrentPassword, payload.NewPassword)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		log.Warn().Str("user_id", user.ID).Msg("Password change with wrong current password")
		WriteError(w, http.StatusBadRequest, "Incorrect current password")
		observe("update_password", http.StatusBadRequest)
		return
	case err != nil:
		observe("update_password", writeServiceError(w, r, err, ""))
		return
	}

	writeMessage(w, http.StatusOK, "Password updated successfully.")
	observe("update_password", http.StatusOK)
}
