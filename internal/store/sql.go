package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"soundshelf/shared/go/models"
)

// Dialect selects the SQL flavour used by SQLPersister.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DefaultTable is the table holding the snapshot document.
const DefaultTable = "catalog_snapshots"

// snapshotRow is the fixed primary key of the single snapshot row.
const snapshotRow = 1

// SQLPersister stores the snapshot as one JSON document in a single-row table.
type SQLPersister struct {
	db      *sql.DB
	dialect Dialect

	createQuery string
	selectQuery string
	upsertQuery string
}

// NewSQLPersister builds a persister over db. An empty table selects DefaultTable.
func NewSQLPersister(db *sql.DB, dialect Dialect, table string) (*SQLPersister, error) {
	if table == "" {
		table = DefaultTable
	}
	quoted := pq.QuoteIdentifier(table)

	p := &SQLPersister{db: db, dialect: dialect}
	switch dialect {
	case Postgres:
		p.createQuery = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			data JSONB NOT NULL,
			saved_at TIMESTAMPTZ NOT NULL
		)`, quoted)
		p.selectQuery = fmt.Sprintf(`SELECT data FROM %s WHERE id = $1`, quoted)
		p.upsertQuery = fmt.Sprintf(`
		INSERT INTO %s (id, data, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`, quoted)
	case SQLite:
		p.createQuery = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY,
			data TEXT NOT NULL,
			saved_at TIMESTAMP NOT NULL
		)`, quoted)
		p.selectQuery = fmt.Sprintf(`SELECT data FROM %s WHERE id = ?`, quoted)
		p.upsertQuery = fmt.Sprintf(`
		INSERT INTO %s (id, data, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`, quoted)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	return p, nil
}

// EnsureSchema creates the snapshot table when it does not exist yet.
func (p *SQLPersister) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, p.createQuery); err != nil {
		return fmt.Errorf("create snapshot table: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or an empty one if nothing was saved yet.
func (p *SQLPersister) Load(ctx context.Context) (*models.Snapshot, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx, p.selectQuery, snapshotRow).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewSnapshot(), nil
	}
	if err != nil {
		if isUndefinedTable(err) {
			return nil, fmt.Errorf("snapshot table missing, run migrations: %w", err)
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	snap.Normalize()
	return &snap, nil
}

// Save upserts the snapshot row in a single statement.
func (p *SQLPersister) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, p.upsertQuery, snapshotRow, string(data), time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42P01"
	}
	return false
}
