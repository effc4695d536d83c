// Package database manages the single Postgres handle shared by the whole process.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"devevent/config"
	"devevent/internal/domain"

	_ "github.com/lib/pq"
)

// Opener opens and verifies a database handle for dsn.
type Opener func(ctx context.Context, dsn string) (*sql.DB, error)

// attempt is a connection attempt in flight; done is closed once db/err are set.
// waiters counts callers that joined after it started and is guarded by Connector.mu.
type attempt struct {
	done    chan struct{}
	db      *sql.DB
	err     error
	waiters int
}

// Connector lazily establishes one *sql.DB and hands the same handle to every caller.
// At most one connection attempt is in flight at a time; concurrent callers join it.
type Connector struct {
	mu      sync.Mutex
	db      *sql.DB
	pending *attempt

	open   Opener
	dsn    func() string
	logger *slog.Logger
}

// Option configures a Connector.
type Option func(*Connector)

// WithOpener replaces the lib/pq opener.
func WithOpener(open Opener) Option {
	return func(c *Connector) { c.open = open }
}

// WithDSN replaces the source of the connection string (config.DatabaseURL by default).
func WithDSN(dsn func() string) Option {
	return func(c *Connector) { c.dsn = dsn }
}

// WithLogger sets the logger used for connection lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) { c.logger = logger.With("component", "database") }
}

// NewConnector returns an unconnected Connector.
func NewConnector(opts ...Option) *Connector {
	c := &Connector{
		open:   OpenPostgres,
		dsn:    config.DatabaseURL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect returns the cached handle, joins the attempt in flight, or starts a new one.
// The connection string is read when an attempt starts, not when the Connector is built.
// A failed attempt is forgotten so the next call retries; every caller waiting on it gets its error.
func (c *Connector) Connect(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	if c.db != nil {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	if a := c.pending; a != nil {
		a.waiters++
		c.mu.Unlock()
		c.logger.Debug("joining pending database connection attempt")
		return wait(ctx, a)
	}

	dsn := c.dsn()
	if dsn == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: set %s", domain.ErrConfiguration, config.DatabaseURLEnv)
	}
	a := &attempt{done: make(chan struct{})}
	c.pending = a
	c.mu.Unlock()

	// The attempt is shared, so it must not die with the first caller's context.
	go c.run(context.WithoutCancel(ctx), dsn, a)
	return wait(ctx, a)
}

func (c *Connector) run(ctx context.Context, dsn string, a *attempt) {
	db, err := c.open(ctx, dsn)

	c.mu.Lock()
	c.pending = nil
	if err == nil {
		c.db = db
	}
	waiters := a.waiters
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("database connection failed", "waiters", waiters, "err", err)
	} else {
		c.logger.Info("connected to database", "waiters", waiters)
	}
	a.db, a.err = db, err
	close(a.done)
}

func wait(ctx context.Context, a *attempt) (*sql.DB, error) {
	select {
	case <-a.done:
		return a.db, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes the cached handle, if any, and returns the Connector to the unconnected state.
func (c *Connector) Close() error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db == nil {
		return nil
	}
	return db.Close()
}

// OpenPostgres opens a lib/pq handle, applies pool limits and pings it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return db, nil
}

var (
	defaultMu        sync.Mutex
	defaultConnector = NewConnector()
)

func current() *Connector {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultConnector
}

// Connect returns the process-wide database handle, connecting on first use.
func Connect(ctx context.Context) (*sql.DB, error) {
	return current().Connect(ctx)
}

// Close closes the process-wide handle.
func Close() error {
	return current().Close()
}

// Configure replaces the process-wide connector before first use. Call it from main only.
func Configure(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultConnector = NewConnector(opts...)
}

// ResetForTesting replaces the process-wide connector with a fresh, unconnected one.
// A previously cached handle is not closed.
func ResetForTesting(opts ...Option) {
	Configure(opts...)
}
