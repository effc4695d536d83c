package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"devevent/internal/domain"
)

type bookingService struct {
	eventRepo      domain.EventRepository
	bookingRepo    domain.BookingRepository
	emailService   domain.EmailService
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

// NewBookingService creates a BookingService. emailService may be nil to skip confirmations.
func NewBookingService(
	eventRepo domain.EventRepository,
	bookingRepo domain.BookingRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BookingService {
	return &bookingService{
		eventRepo:      eventRepo,
		bookingRepo:    bookingRepo,
		emailService:   emailService,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *bookingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *bookingService) CreateBooking(ctx context.Context, booking *domain.Booking) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.prepareBooking(ctx, nil, booking, s.now())
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) {
			return err
		}
		return fmt.Errorf("create booking: %w", err)
	}
	s.sendConfirmation(ctx, booking, event)
	return nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, id string, booking *domain.Booking) (*domain.Booking, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prev, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}

	booking.ID = prev.ID
	if _, err := s.prepareBooking(ctx, prev, booking, s.now()); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrDuplicateBooking) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update booking: %w", err)
	}
	return booking, nil
}

// prepareBooking normalizes and validates next against prev (nil for a new record).
// The referenced event is looked up only when the booking is new or its event changed;
// the returned event is nil when the lookup was skipped.
func (s *bookingService) prepareBooking(ctx context.Context, prev, next *domain.Booking, now time.Time) (*domain.Event, error) {
	email, err := normalizeEmail(next.Email)
	if err != nil {
		return nil, err
	}
	next.Email = email

	next.EventID = strings.TrimSpace(next.EventID)
	if next.EventID == "" {
		return nil, domain.NewValidationError(domain.ErrMissingField, "event_id", "event_id is required")
	}

	var event *domain.Event
	if prev == nil || prev.EventID != next.EventID {
		if !isUUID(next.EventID) {
			return nil, domain.NewValidationError(domain.ErrInvalidFormat, "event_id", "event_id must be a valid UUID")
		}
		event, err = s.eventRepo.GetByID(ctx, next.EventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.NewValidationError(domain.ErrReference, "event_id", "Referenced event does not exist")
			}
			return nil, fmt.Errorf("get event: %w", err)
		}
		next.Slug = event.Slug
	} else {
		next.Slug = prev.Slug
	}

	if prev == nil {
		next.CreatedAt = now
	} else {
		next.CreatedAt = prev.CreatedAt
	}
	next.UpdatedAt = now
	return event, nil
}

// sendConfirmation mails the attendee; failures are logged and never undo the booking.
// The send gets its own timeout, detached from the request's deadline.
func (s *bookingService) sendConfirmation(ctx context.Context, booking *domain.Booking, event *domain.Event) {
	if s.emailService == nil || event == nil {
		return
	}
	ctx, cancel := s.withTimeout(context.WithoutCancel(ctx))
	defer cancel()
	data := &domain.BookingConfirmationEmailData{
		Email:      booking.Email,
		EventTitle: event.Title,
		EventSlug:  event.Slug,
		Date:       event.Date.Format("January 2, 2006"),
		Time:       event.Time,
		Venue:      event.Venue,
		Location:   event.Location,
	}
	if err := s.emailService.SendBookingConfirmation(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "booking confirmation email failed", "booking_id", booking.ID, "err", err)
	}
}

func (s *bookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter.EventID = strings.TrimSpace(filter.EventID)
	if filter.EventID != "" && !isUUID(filter.EventID) {
		return []*domain.Booking{}, nil
	}
	filter.Email = strings.ToLower(strings.TrimSpace(filter.Email))

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	if bookings == nil {
		bookings = []*domain.Booking{}
	}
	return bookings, nil
}

func (s *bookingService) CountBookings(ctx context.Context, eventID string) (int, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return 0, domain.NewValidationError(domain.ErrMissingField, "event_id", "event_id is required")
	}
	if !isUUID(eventID) {
		return 0, nil
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.bookingRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("count bookings: %w", err)
	}
	return n, nil
}
