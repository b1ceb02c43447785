package database

import (
	"context"
	"fmt"

	"github.com/isdelr/authkit/internal/models"
)

// EventRepository persists account events.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// CreateEvent inserts a new account event.
func (r *EventRepository) CreateEvent(ctx context.Context, event models.AccountEvent) error {
	query := r.db.rebind("INSERT INTO account_events (id, user_id, type, message, created_at) VALUES (?, ?, ?, ?, ?)")
	if _, err := r.db.ExecContext(ctx, query, event.ID, event.UserID, event.Type, event.Message, event.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// CountEventsForUser returns how many events a user has.
func (r *EventRepository) CountEventsForUser(ctx context.Context, userID string) (int, error) {
	var total int
	query := r.db.rebind("SELECT COUNT(*) FROM account_events WHERE user_id = ?")
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return total, nil
}

// ListEventsForUser returns a page of a user's events, newest first.
func (r *EventRepository) ListEventsForUser(ctx context.Context, userID string, limit, offset int) ([]models.AccountEvent, error) {
	query := r.db.rebind(`
		SELECT id, user_id, type, message, created_at
		FROM account_events
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.AccountEvent{}
	for rows.Next() {
		var event models.AccountEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.Type, &event.Message, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}
