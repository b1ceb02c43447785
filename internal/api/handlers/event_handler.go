package handlers

import (
	"net/http"
	"strconv"

	"github.com/isdelr/authkit/internal/auth"
	"github.com/isdelr/authkit/internal/pagination"
	"github.com/isdelr/authkit/internal/services"
	"github.com/rs/zerolog/log"
)

// MaxEventPageSize caps the size query parameter.
const MaxEventPageSize = 100

// EventHandler handles HTTP requests related to account events.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// GetMine returns one page of the authenticated user's events, newest first.
func (h *EventHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	page := queryInt(r, "page", 1)
	size := min(queryInt(r, "size", pagination.DefaultSize), MaxEventPageSize)

	events, err := h.service.GetEventsForUser(r.Context(), user.ID, pagination.New(page, size))
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to retrieve events")
		WriteError(w, http.StatusInternalServerError, "Failed to retrieve events")
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

func queryInt(r *http.Request, name string, fallback int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
