package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS events_kind ON events(kind, seq);
`

// Journal is an append only event log stored in an SQLite database. Events
// are never updated nor removed.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

var _ quickex.EventSink = (*Journal)(nil)

// Record is a single journal entry.
type Record struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

// OpenJournal opens or creates the journal database at given path. Use
// ":memory:" for a journal that lives as long as the process.
func OpenJournal(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open journal: %s", err)
	}
	// SQLite allows a single writer. With one connection the in memory
	// database is also shared by all queries.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, errors.Wrapf(errors.ErrDatabase, "%s: %s", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "journal schema: %s", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Publish appends all events in a single transaction.
func (j *Journal) Publish(ctx context.Context, events []quickex.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "begin: %s", err)
	}
	now := j.now().UTC().UnixNano()
	for _, e := range events {
		payload, err := json.Marshal(e)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(errors.ErrType, "cannot serialize %q event: %s", e.Kind(), err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO events (id, kind, payload, created_at) VALUES (?, ?, ?, ?)`,
			uuid.New().String(), e.Kind(), string(payload), now)
		if err != nil {
			tx.Rollback()
			return errors.Wrapf(errors.ErrDatabase, "insert %q event: %s", e.Kind(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}
	return nil
}

// List returns up to limit most recent records, newest first. An empty kind
// matches all events. A non positive limit means no limit.
func (j *Journal) List(ctx context.Context, kind string, limit int) ([]Record, error) {
	query := `SELECT id, kind, payload, created_at FROM events`
	var args []interface{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY seq DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "list events: %s", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			payload string
			created int64
		)
		if err := rows.Scan(&r.ID, &r.Kind, &payload, &created); err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan event: %s", err)
		}
		r.Payload = json.RawMessage(payload)
		r.CreatedAt = time.Unix(0, created).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "list events: %s", err)
	}
	return records, nil
}

// Count returns the number of records of given kind, or of all records when
// kind is empty.
func (j *Journal) Count(ctx context.Context, kind string) (int, error) {
	query := `SELECT COUNT(*) FROM events`
	var args []interface{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	var n int
	if err := j.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, errors.Wrapf(errors.ErrDatabase, "count events: %s", err)
	}
	return n, nil
}
