package postgres

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Drivers registered by the blank imports above.
const (
	DriverPgx = "pgx"
	DriverPQ  = "postgres"
)

type Options struct {
	Driver             string
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
}

// Open connects with the configured driver and checks the connection.
func Open(ctx context.Context, opts Options) (*sqlx.DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverPgx
	}
	if driver != DriverPgx && driver != DriverPQ {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Open(driver, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(opts.ConnMaxLifetimeMin) * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	log.Info().Str("component", "postgres").Str("driver", driver).Msg("database connected")
	return db, nil
}
