package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/isdelr/authkit/internal/models"
	"github.com/isdelr/authkit/internal/pagination"
	"github.com/rs/zerolog/log"
)

// EventStore persists account events.
type EventStore interface {
	CreateEvent(ctx context.Context, event models.AccountEvent) error
	CountEventsForUser(ctx context.Context, userID string) (int, error)
	ListEventsForUser(ctx context.Context, userID string, limit, offset int) ([]models.AccountEvent, error)
}

// EventRecorder records account lifecycle events.
type EventRecorder interface {
	Record(ctx context.Context, userID, eventType, message string)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	EventRecorder
	GetEventsForUser(ctx context.Context, userID string, p pagination.Paginator) (pagination.Pagination[models.AccountEvent], error)
}

// EventService provides business logic for the account event log.
type EventService struct {
	store EventStore
}

// NewEventService creates a new EventService.
func NewEventService(store EventStore) *EventService {
	return &EventService{store: store}
}

// Record logs a new event to the database. A failed write is logged and
// otherwise ignored so that it never fails the operation being recorded.
func (s *EventService) Record(ctx context.Context, userID, eventType, message string) {
	event := models.AccountEvent{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      eventType,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Str("type", eventType).Msg("Failed to record account event")
	}
}

// GetEventsForUser returns one page of a user's events, newest first.
func (s *EventService) GetEventsForUser(ctx context.Context, userID string, p pagination.Paginator) (pagination.Pagination[models.AccountEvent], error) {
	total, err := s.store.CountEventsForUser(ctx, userID)
	if err != nil {
		return pagination.Pagination[models.AccountEvent]{}, fmt.Errorf("failed to count events: %w", err)
	}

	events, err := s.store.ListEventsForUser(ctx, userID, p.Limit(), p.Offset())
	if err != nil {
		return pagination.Pagination[models.AccountEvent]{}, fmt.Errorf("failed to list events: %w", err)
	}

	return pagination.Create(events, total, p.Page, p.Size), nil
}
