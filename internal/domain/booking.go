package domain

import (
	"context"
	"time"
)

// Booking represents an attendee's spot at an event, keyed by email.
// EventID is a non-owning reference: deleting the event leaves the booking in place.
// swagger:model Booking
type Booking struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBooking returns a new Booking. ID is set by the repository on create.
func NewBooking(eventID, email string) *Booking {
	return &Booking{
		EventID: eventID,
		Email:   email,
	}
}

// BookingFilter narrows ListBookings. Zero values match everything.
type BookingFilter struct {
	EventID string
	Email   string
}

// BookingRepository defines storage operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	Update(ctx context.Context, booking *Booking) error
}

// BookingService defines attendee-facing booking operations.
type BookingService interface {
	CreateBooking(ctx context.Context, booking *Booking) error
	UpdateBooking(ctx context.Context, id string, booking *Booking) (*Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*Booking, error)
	CountBookings(ctx context.Context, eventID string) (int, error)
}
