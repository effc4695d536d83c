package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"devevent/internal/domain"

	"github.com/redis/go-redis/v9"
)

const eventKeyPrefix = "event:"

// cacheClient is the subset of redis.Cmdable the event cache needs.
type cacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// EventCache stores events as JSON under "event:<slug>".
type EventCache struct {
	client cacheClient
	ttl    time.Duration
}

// NewEventCache returns a domain.EventCache backed by client.
func NewEventCache(client redis.Cmdable, ttl time.Duration) *EventCache {
	return &EventCache{client: client, ttl: ttl}
}

// NewClient parses a redis:// URL and verifies the server answers PING.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func eventKey(slug string) string {
	return eventKeyPrefix + slug
}

func (c *EventCache) Get(ctx context.Context, slug string) (*domain.Event, error) {
	data, err := c.client.Get(ctx, eventKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var event domain.Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("decode cached event: %w", err)
	}
	return &event, nil
}

func (c *EventCache) Set(ctx context.Context, event *domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, eventKey(event.Slug), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *EventCache) Delete(ctx context.Context, slugs ...string) error {
	keys := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug != "" {
			keys = append(keys, eventKey(slug))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
