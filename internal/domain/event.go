package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the wire format of Event.Date in requests and responses.
const DateLayout = "2006-01-02"

// EventMode describes how attendees take part in an event.
type EventMode string

const (
	EventModeOnline  EventMode = "online"
	EventModeOffline EventMode = "offline"
	EventModeHybrid  EventMode = "hybrid"
)

// Valid reports whether m is one of the accepted modes.
func (m EventMode) Valid() bool {
	switch m {
	case EventModeOnline, EventModeOffline, EventModeHybrid:
		return true
	}
	return false
}

// Event represents a published event.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date" swaggertype:"string" example:"2025-04-09"`
	Time        string    `json:"time"`
	Mode        EventMode `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type eventJSON Event

// MarshalJSON writes Date as a calendar day (DateLayout).
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		eventJSON
		Date string `json:"date"`
	}{eventJSON(e), e.Date.Format(DateLayout)})
}

// UnmarshalJSON reads Date as a calendar day. RFC 3339 timestamps are accepted too.
func (e *Event) UnmarshalJSON(data []byte) error {
	aux := struct {
		*eventJSON
		Date string `json:"date"`
	}{eventJSON: (*eventJSON)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.Date = time.Time{}
	if aux.Date == "" {
		return nil
	}
	d, err := time.Parse(DateLayout, aux.Date)
	if err != nil {
		if d, err = time.Parse(time.RFC3339, aux.Date); err != nil {
			return fmt.Errorf("event date %q: %w", aux.Date, err)
		}
	}
	e.Date = d
	return nil
}

// EventFilter narrows ListEvents. Zero values match everything.
type EventFilter struct {
	Mode      EventMode
	Tag       string
	Organizer string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, filter EventFilter) ([]*Event, error)
	// ListSimilar returns up to limit events sharing at least one of tags, excluding excludeID.
	ListSimilar(ctx context.Context, excludeID string, tags []string, limit int) ([]*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
}

// EventCache caches events by slug. Implementations return ErrNotFound on a miss.
type EventCache interface {
	Get(ctx context.Context, slug string) (*Event, error)
	Set(ctx context.Context, event *Event) error
	Delete(ctx context.Context, slugs ...string) error
}

// EventService defines the business logic for publishing and finding events.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	UpdateEvent(ctx context.Context, id string, event *Event) (*Event, error)
	GetEventByID(ctx context.Context, id string) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
	ListSimilarEvents(ctx context.Context, slug string) ([]*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
