package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"devevent/internal/domain"

	"github.com/google/uuid"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 1000
	maxOverviewLength    = 500
	similarEventsLimit   = 3
)

// EventServiceConfig tunes an EventService.
type EventServiceConfig struct {
	Timeout time.Duration
	// SlugSuffix appends a base-36 timestamp to every derived slug so identical titles never collide.
	SlugSuffix bool
}

type eventService struct {
	eventRepo      domain.EventRepository
	cache          domain.EventCache
	logger         *slog.Logger
	contextTimeout time.Duration
	slugSuffix     bool
	suffixer       *slugSuffixer
	now            func() time.Time
}

// NewEventService returns an EventService. A nil cache disables caching.
func NewEventService(eventRepo domain.EventRepository, cache domain.EventCache, logger *slog.Logger, cfg EventServiceConfig) domain.EventService {
	if cache == nil {
		cache = noopEventCache{}
	}
	return &eventService{
		eventRepo:      eventRepo,
		cache:          cache,
		logger:         logger,
		contextTimeout: cfg.Timeout,
		slugSuffix:     cfg.SlugSuffix,
		suffixer:       &slugSuffixer{},
		now:            time.Now,
	}
}

func (s *eventService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.contextTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.contextTimeout)
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.now()
	if err := s.prepareEvent(nil, event, now); err != nil {
		return err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return err
		}
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, event *domain.Event) (*domain.Event, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	prev, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	event.ID = prev.ID
	if err := s.prepareEvent(prev, event, s.now()); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.invalidate(ctx, prev.Slug, event.Slug)
	return event, nil
}

// prepareEvent validates next and fills its derived fields. prev is the stored state,
// or nil for a new record; slug and time are only recomputed when new or changed.
func (s *eventService) prepareEvent(prev, next *domain.Event, now time.Time) error {
	if err := validateEvent(next); err != nil {
		return err
	}

	if prev == nil || prev.Title != next.Title {
		slug := slugify(next.Title)
		if slug == "" {
			return domain.NewValidationError(domain.ErrInvalidValue, "title", "title must contain at least one letter or digit")
		}
		if s.slugSuffix {
			slug += "-" + s.suffixer.next(now)
		}
		next.Slug = slug
	} else {
		next.Slug = prev.Slug
	}

	if prev == nil || prev.Time != next.Time {
		t, err := normalizeTimeOfDay(next.Time)
		if err != nil {
			return err
		}
		next.Time = t
	} else {
		next.Time = prev.Time
	}

	if prev == nil {
		next.CreatedAt = now
	} else {
		next.CreatedAt = prev.CreatedAt
	}
	next.UpdatedAt = now
	return nil
}

// validateEvent trims the event in place and checks its shape. Slug and time are handled by prepareEvent.
func validateEvent(e *domain.Event) error {
	required := []struct {
		field string
		value *string
	}{
		{"title", &e.Title},
		{"description", &e.Description},
		{"overview", &e.Overview},
		{"image", &e.Image},
		{"venue", &e.Venue},
		{"location", &e.Location},
		{"time", &e.Time},
		{"audience", &e.Audience},
		{"organizer", &e.Organizer},
	}
	for _, r := range required {
		*r.value = strings.TrimSpace(*r.value)
		if *r.value == "" {
			return domain.NewValidationError(domain.ErrMissingField, r.field, r.field+" is required")
		}
	}

	if err := maxLength("title", e.Title, maxTitleLength); err != nil {
		return err
	}
	if err := maxLength("description", e.Description, maxDescriptionLength); err != nil {
		return err
	}
	if err := maxLength("overview", e.Overview, maxOverviewLength); err != nil {
		return err
	}

	if u, err := url.ParseRequestURI(e.Image); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return domain.NewValidationError(domain.ErrInvalidFormat, "image", "image must be an absolute http(s) URL")
	}

	if e.Date.IsZero() {
		return domain.NewValidationError(domain.ErrMissingField, "date", "date is required")
	}
	y, m, d := e.Date.Date()
	e.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	e.Mode = domain.EventMode(strings.ToLower(strings.TrimSpace(string(e.Mode))))
	if e.Mode == "" {
		return domain.NewValidationError(domain.ErrMissingField, "mode", "mode is required")
	}
	if !e.Mode.Valid() {
		return domain.NewValidationError(domain.ErrInvalidValue, "mode", "mode must be one of online, offline, hybrid")
	}

	agenda, err := nonBlankList("agenda", e.Agenda, false)
	if err != nil {
		return err
	}
	e.Agenda = agenda

	tags, err := nonBlankList("tags", e.Tags, true)
	if err != nil {
		return err
	}
	e.Tags = tags
	return nil
}

func maxLength(field, value string, limit int) error {
	if utf8.RuneCountInString(value) > limit {
		return domain.NewValidationError(domain.ErrInvalidValue, field, fmt.Sprintf("%s cannot exceed %d characters", field, limit))
	}
	return nil
}

// nonBlankList trims every entry and rejects an empty list or any blank entry.
// With dedupe set, repeated entries keep only their first occurrence.
func nonBlankList(field string, items []string, dedupe bool) ([]string, error) {
	if len(items) == 0 {
		return nil, domain.NewValidationError(domain.ErrNonEmpty, field, field+" must contain at least one item")
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return nil, domain.NewValidationError(domain.ErrNonEmpty, field, field+" cannot contain empty items")
		}
		if dedupe {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *eventService) GetEventByID(ctx context.Context, id string) (*domain.Event, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, domain.NewValidationError(domain.ErrMissingField, "slug", "slug is required")
	}

	cached, err := s.cache.Get(ctx, slug)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "event cache read failed", "slug", slug, "err", err)
	}

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	if err := s.cache.Set(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "event cache write failed", "slug", slug, "err", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter.Mode = domain.EventMode(strings.ToLower(strings.TrimSpace(string(filter.Mode))))
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, domain.NewValidationError(domain.ErrInvalidValue, "mode", "mode must be one of online, offline, hybrid")
	}
	filter.Tag = strings.TrimSpace(filter.Tag)
	filter.Organizer = strings.TrimSpace(filter.Organizer)

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) ListSimilarEvents(ctx context.Context, slug string) ([]*domain.Event, error) {
	event, err := s.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	similar, err := s.eventRepo.ListSimilar(ctx, event.ID, event.Tags, similarEventsLimit)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	if similar == nil {
		similar = []*domain.Event{}
	}
	return similar, nil
}

// DeleteEvent removes the event only; its bookings are left in place.
func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	if !isUUID(id) {
		return domain.ErrNotFound
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.invalidate(ctx, event.Slug)
	return nil
}

func (s *eventService) invalidate(ctx context.Context, slugs ...string) {
	if err := s.cache.Delete(ctx, slugs...); err != nil {
		s.logger.WarnContext(ctx, "event cache invalidation failed", "slugs", slugs, "err", err)
	}
}

// isUUID guards storage lookups: a malformed id cannot name a stored record.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type noopEventCache struct{}

func (noopEventCache) Get(context.Context, string) (*domain.Event, error) { return nil, domain.ErrNotFound }
func (noopEventCache) Set(context.Context, *domain.Event) error           { return nil }
func (noopEventCache) Delete(context.Context, ...string) error            { return nil }
