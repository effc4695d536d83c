package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"devevent/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// mockBookingRepository is an in-memory BookingRepository with the (event_id, email) unique key.
type mockBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	err      error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: map[string]*domain.Booking{}}
}

func (m *mockBookingRepository) taken(eventID, email, exceptID string) bool {
	for id, b := range m.bookings {
		if b.EventID == eventID && b.Email == email && id != exceptID {
			return true
		}
	}
	return false
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.taken(booking.EventID, booking.Email, "") {
		return domain.ErrDuplicateBooking
	}
	booking.ID = uuid.NewString()
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*domain.Booking
	for _, b := range m.bookings {
		if filter.EventID != "" && b.EventID != filter.EventID {
			continue
		}
		if filter.Email != "" && b.Email != filter.Email {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockBookingRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, m.err
}

func (m *mockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.ID]; !ok {
		return domain.ErrNotFound
	}
	if m.taken(booking.EventID, booking.Email, booking.ID) {
		return domain.ErrDuplicateBooking
	}
	cp := *booking
	m.bookings[booking.ID] = &cp
	return nil
}

// countingEventRepository records GetByID calls to verify when the referential check runs.
type countingEventRepository struct {
	*mockEventRepository
	lookups atomic.Int32
}

func (c *countingEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	c.lookups.Add(1)
	return c.mockEventRepository.GetByID(ctx, id)
}

type mockEmailService struct {
	sent        []*domain.BookingConfirmationEmailData
	err         error
	ctxErr      error
	hasDeadline bool
}

func (m *mockEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	m.ctxErr = ctx.Err()
	_, m.hasDeadline = ctx.Deadline()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, data)
	return nil
}

type bookingFixture struct {
	events   *countingEventRepository
	bookings *mockBookingRepository
	email    *mockEmailService
	svc      *bookingService
	event    *domain.Event
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	events := &countingEventRepository{mockEventRepository: newMockEventRepository()}
	eventSvc := newTestEventService(events.mockEventRepository, false)
	ev := validEvent()
	require.NoError(t, eventSvc.CreateEvent(context.Background(), ev))

	bookings := newMockBookingRepository()
	email := &mockEmailService{}
	svc := NewBookingService(events, bookings, email, testLogger, time.Second).(*bookingService)
	return &bookingFixture{events: events, bookings: bookings, email: email, svc: svc, event: ev}
}

func TestNormalizeEmail(t *testing.T) {
	valid := map[string]string{
		"TEST@EXAMPLE.COM":       "test@example.com",
		"  test@example.com  ":   "test@example.com",
		"user@example.co.uk":     "user@example.co.uk",
		"user+tag@example.com":   "user+tag@example.com",
		"first.last@example.com": "first.last@example.com",
		"a@b.io":                 "a@b.io",
	}
	for in, want := range valid {
		got, err := normalizeEmail(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	invalid := []string{
		"invalidemail.com",
		"user@",
		"@example.com",
		"user@example",
		"user name@example.com",
		"user@@example.com",
		".user@example.com",
		"user.@example.com",
		"user@.example.com",
		"user@example..com",
		"user@example.com.",
	}
	for _, in := range invalid {
		t.Run(in, func(t *testing.T) {
			_, err := normalizeEmail(in)
			require.ErrorIs(t, err, domain.ErrInvalidFormat)
		})
	}

	_, err := normalizeEmail("   ")
	require.ErrorIs(t, err, domain.ErrMissingField)
}

func TestBookingService_CreateBooking(t *testing.T) {
	f := newBookingFixture(t)
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return now }

	b := domain.NewBooking(f.event.ID, "  Ada@Example.COM ")
	require.NoError(t, f.svc.CreateBooking(context.Background(), b))

	require.NotEmpty(t, b.ID)
	require.Equal(t, "ada@example.com", b.Email)
	require.Equal(t, f.event.Slug, b.Slug)
	require.Equal(t, now, b.CreatedAt)
	require.Equal(t, now, b.UpdatedAt)

	require.Len(t, f.email.sent, 1)
	require.Equal(t, "ada@example.com", f.email.sent[0].Email)
	require.Equal(t, f.event.Title, f.email.sent[0].EventTitle)
	require.Equal(t, "April 9, 2025", f.email.sent[0].Date)
}

func TestBookingService_CreateBooking_DuplicateAfterNormalization(t *testing.T) {
	f := newBookingFixture(t)

	require.NoError(t, f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "test@example.com")))

	for _, email := range []string{"TEST@EXAMPLE.COM", "  test@example.com  "} {
		err := f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, email))
		require.ErrorIs(t, err, domain.ErrUniqueness, email)
		require.ErrorIs(t, err, domain.ErrDuplicateBooking, email)
	}
	require.Len(t, f.bookings.bookings, 1)
}

func TestBookingService_CreateBooking_Validation(t *testing.T) {
	f := newBookingFixture(t)

	tests := []struct {
		name    string
		eventID string
		email   string
		kind    error
		field   string
	}{
		{"missing email", f.event.ID, "", domain.ErrMissingField, "email"},
		{"invalid email", f.event.ID, "user@example", domain.ErrInvalidFormat, "email"},
		{"missing event", "", "ada@example.com", domain.ErrMissingField, "event_id"},
		{"malformed event id", "12345", "ada@example.com", domain.ErrInvalidFormat, "event_id"},
		{"unknown event", uuid.NewString(), "ada@example.com", domain.ErrReference, "event_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.svc.CreateBooking(context.Background(), domain.NewBooking(tt.eventID, tt.email))
			require.ErrorIs(t, err, tt.kind)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			require.Equal(t, tt.field, vErr.Field)
		})
	}
	require.Empty(t, f.bookings.bookings)
	require.Empty(t, f.email.sent)
}

func TestBookingService_ReferenceErrorMessage(t *testing.T) {
	f := newBookingFixture(t)

	err := f.svc.CreateBooking(context.Background(), domain.NewBooking(uuid.NewString(), "ada@example.com"))
	require.ErrorIs(t, err, domain.ErrReference)
	require.Contains(t, err.Error(), "Referenced event does not exist")
}

func TestBookingService_EmailFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture(t)
	f.email.err = errors.New("ses throttled")

	b := domain.NewBooking(f.event.ID, "ada@example.com")
	require.NoError(t, f.svc.CreateBooking(context.Background(), b))
	require.Len(t, f.bookings.bookings, 1)
}

func TestBookingService_ConfirmationOutlivesRequestContext(t *testing.T) {
	f := newBookingFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.svc.CreateBooking(ctx, domain.NewBooking(f.event.ID, "ada@example.com")))
	require.Len(t, f.email.sent, 1)
	require.NoError(t, f.email.ctxErr)
	require.True(t, f.email.hasDeadline)
}

func TestBookingService_NilEmailService(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewBookingService(f.events, f.bookings, nil, testLogger, 0)

	require.NoError(t, svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "ada@example.com")))
}

func TestBookingService_UpdateBooking_ReferentialCheckOnlyOnEventChange(t *testing.T) {
	f := newBookingFixture(t)
	created := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return created }

	b := domain.NewBooking(f.event.ID, "ada@example.com")
	require.NoError(t, f.svc.CreateBooking(context.Background(), b))
	require.Equal(t, 1, int(f.events.lookups.Load()))

	later := created.Add(time.Minute)
	f.svc.now = func() time.Time { return later }

	// email-only edit: no event lookup
	updated, err := f.svc.UpdateBooking(context.Background(), b.ID, &domain.Booking{EventID: f.event.ID, Email: "ADA.L@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, int(f.events.lookups.Load()))
	require.Equal(t, "ada.l@example.com", updated.Email)
	require.Equal(t, f.event.Slug, updated.Slug)
	require.Equal(t, created, updated.CreatedAt)
	require.Equal(t, later, updated.UpdatedAt)

	// even if the event has since been deleted, unrelated edits still pass
	delete(f.events.events, f.event.ID)
	_, err = f.svc.UpdateBooking(context.Background(), b.ID, &domain.Booking{EventID: f.event.ID, Email: "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, 1, int(f.events.lookups.Load()))

	// moving the booking to another event re-runs the check
	_, err = f.svc.UpdateBooking(context.Background(), b.ID, &domain.Booking{EventID: uuid.NewString(), Email: "ada@example.com"})
	require.ErrorIs(t, err, domain.ErrReference)
	require.Equal(t, 2, int(f.events.lookups.Load()))
}

func TestBookingService_UpdateBooking_Errors(t *testing.T) {
	f := newBookingFixture(t)

	a := domain.NewBooking(f.event.ID, "a@example.com")
	b := domain.NewBooking(f.event.ID, "b@example.com")
	require.NoError(t, f.svc.CreateBooking(context.Background(), a))
	require.NoError(t, f.svc.CreateBooking(context.Background(), b))

	_, err := f.svc.UpdateBooking(context.Background(), b.ID, &domain.Booking{EventID: f.event.ID, Email: " A@example.com"})
	require.ErrorIs(t, err, domain.ErrDuplicateBooking)

	_, err = f.svc.UpdateBooking(context.Background(), b.ID, &domain.Booking{EventID: f.event.ID, Email: "not-an-email"})
	require.ErrorIs(t, err, domain.ErrInvalidFormat)

	_, err = f.svc.UpdateBooking(context.Background(), uuid.NewString(), &domain.Booking{EventID: f.event.ID, Email: "c@example.com"})
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.UpdateBooking(context.Background(), "nope", &domain.Booking{EventID: f.event.ID, Email: "c@example.com"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_BookingsSurviveEventDeletion(t *testing.T) {
	f := newBookingFixture(t)
	eventSvc := newTestEventService(f.events.mockEventRepository, false)

	require.NoError(t, f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "a@example.com")))
	require.NoError(t, f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "b@example.com")))
	require.NoError(t, eventSvc.DeleteEvent(context.Background(), f.event.ID))

	bookings, err := f.svc.ListBookings(context.Background(), domain.BookingFilter{EventID: f.event.ID})
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	n, err := f.svc.CountBookings(context.Background(), f.event.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestBookingService_ListBookings(t *testing.T) {
	f := newBookingFixture(t)
	require.NoError(t, f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "a@example.com")))
	require.NoError(t, f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "b@example.com")))

	got, err := f.svc.ListBookings(context.Background(), domain.BookingFilter{Email: " A@Example.com "})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "a@example.com", got[0].Email)

	got, err = f.svc.ListBookings(context.Background(), domain.BookingFilter{EventID: "malformed"})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)

	f.bookings.err = errors.New("timeout")
	_, err = f.svc.ListBookings(context.Background(), domain.BookingFilter{})
	require.Error(t, err)
}

func TestBookingService_CountBookings(t *testing.T) {
	f := newBookingFixture(t)

	n, err := f.svc.CountBookings(context.Background(), f.event.ID)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = f.svc.CountBookings(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrMissingField)

	n, err = f.svc.CountBookings(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestBookingService_ConcurrentDuplicateBookings(t *testing.T) {
	f := newBookingFixture(t)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.svc.CreateBooking(context.Background(), domain.NewBooking(f.event.ID, "race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.ErrorIs(t, err, domain.ErrDuplicateBooking)
	}
	require.Equal(t, 1, succeeded)
}
