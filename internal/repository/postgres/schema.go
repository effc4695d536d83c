package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// Constraint names the repositories translate into domain errors.
const (
	eventsSlugKey            = "events_slug_key"
	bookingsEventIDEmailKey  = "bookings_event_id_email_key"
	uniqueViolationErrorCode = "23505"
)

// EnsureSchema creates the events and bookings tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
