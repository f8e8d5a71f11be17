package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"soundshelf/shared/go/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenBackend builds the persister selected by cfg. The returned closer
// releases any database handle.
func OpenBackend(ctx context.Context, cfg config.StoreConfig) (Persister, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return NewFilePersister(cfg.Path), nopCloser{}, nil

	case config.BackendPostgres:
		db, err := openDatabase(ctx, "pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		p, err := NewSQLPersister(db, Postgres, cfg.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return p, db, nil

	case config.BackendSQLite:
		db, err := openDatabase(ctx, "sqlite3", cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
		p, err := NewSQLPersister(db, SQLite, cfg.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		if err := p.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return p, db, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

// Connection retry bounds. A database started alongside the API may take a
// while to accept connections.
const (
	pingTimeout    = 5 * time.Second
	connectWindow  = 30 * time.Second
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// openDatabase opens dsn with driver and pings it with exponential backoff
// until it answers, connectWindow elapses, or ctx is done.
func openDatabase(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	giveUp := time.Now().Add(connectWindow)
	for backoff := initialBackoff; ; backoff = min(backoff*2, maxBackoff) {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = db.PingContext(pingCtx)
		cancel()
		if err == nil {
			return db, nil
		}
		if ctx.Err() != nil || time.Now().Add(backoff).After(giveUp) {
			break
		}

		wait := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			wait.Stop()
		case <-wait.C:
			continue
		}
		break
	}

	_ = db.Close()
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	return nil, fmt.Errorf("ping %s database: %w", driver, err)
}
