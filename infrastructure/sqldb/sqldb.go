// Package sqldb opens database/sql connections (through sqlx) for the
// mysql, sqlite and postgres drivers and exposes them as a base repository
// execution engine.
package sqldb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/jrazmi/repogen/core/scaffolding/dialect"
	"github.com/jrazmi/repogen/sdk/environment"
)

// Options represents the exportable database configuration
type Options struct {
	Driver       string        `env:"SQL_DRIVER" default:"mysql"`
	DSN          string        `env:"SQL_DSN" default:"root:password@tcp(localhost:3306)/repogen"`
	MaxOpenConns int           `env:"SQL_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns int           `env:"SQL_MAX_IDLE_CONNS" default:"5"`
	MaxLifetime  time.Duration `env:"SQL_MAX_LIFETIME" default:"1h"`
	MaxIdleTime  time.Duration `env:"SQL_MAX_IDLE_TIME" default:"30m"`
}

// options holds the internal runtime configuration
type options struct {
	logger         *slog.Logger
	logQueries     bool
	connectTimeout time.Duration
}

// Option is a function that configures the database options
type Option func(*options)

// WithLogger sets a custom logger for the engine
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogQueries enables or disables query logging
func WithLogQueries(enable bool) Option {
	return func(o *options) {
		o.logQueries = enable
	}
}

// WithConnectTimeout sets the connection timeout
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.connectTimeout = timeout
	}
}

// NewFromEnv opens a database using environment variables
func NewFromEnv(prefix string, opts ...Option) (*Engine, error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	return Open(cfg, opts...)
}

// Open opens and pings the database described by cfg.
func Open(cfg Options, opts ...Option) (*Engine, error) {
	internalOpts := &options{
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(internalOpts)
	}

	d, err := dialect.Lookup(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.MaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), internalOpts.connectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return newEngine(db, d, internalOpts), nil
}

// NewTestDB opens a database for tests with small pool settings.
func NewTestDB(driver, dsn string, opts ...Option) (*Engine, error) {
	return Open(Options{
		Driver:       driver,
		DSN:          dsn,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		MaxLifetime:  time.Hour,
		MaxIdleTime:  time.Hour,
	}, opts...)
}

// StatusCheck returns nil if it can successfully talk to the database
func StatusCheck(ctx context.Context, e *Engine) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Second)
		defer cancel()
	}
	return e.db.PingContext(ctx)
}
