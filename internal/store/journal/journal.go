// Package journal is an append-only local audit log of runs. Nothing in the
// duplicate check reads it.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"snsdedupe/internal/logging"
)

// Event types written by the commands.
const (
	TypeDedupe  = "dedupe"
	TypeCheck   = "check"
	TypeCreated = "post_created"
	TypeFailed  = "post_failed"
)

// DB wraps the SQLite journal.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: ":memory:" databases are per connection.
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS events (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  ts INTEGER NOT NULL,
	  type TEXT NOT NULL,
	  payload TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	`)
	return err
}

// PutEvent appends an event; payload is stored as JSON.
func (d *DB) PutEvent(ctx context.Context, ts time.Time, typ string, payload any) error {
	pb, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = d.sql.ExecContext(ctx, `INSERT INTO events(ts, type, payload) VALUES(?,?,?)`, ts.UnixNano(), typ, string(pb))
	return err
}

// Record appends an event stamped now. A failed write is logged and
// otherwise ignored; the journal never fails a run.
func (d *DB) Record(ctx context.Context, typ string, payload any) {
	if err := d.PutEvent(ctx, time.Now().UTC(), typ, payload); err != nil {
		logging.Warn("journal_write_failed", map[string]any{"type": typ, "error": err.Error()})
	}
}

// Event is a stored journal entry.
type Event struct {
	TS      time.Time
	Type    string
	Payload string
}

// LoadEventsRange returns events in [start, end), oldest first. An empty typ
// matches every type.
func (d *DB) LoadEventsRange(ctx context.Context, start, end time.Time, typ string) ([]Event, error) {
	var rows *sql.Rows
	var err error
	if typ == "" {
		rows, err = d.sql.QueryContext(ctx, `SELECT ts, type, payload FROM events WHERE ts>=? AND ts<? ORDER BY ts, id`, start.UnixNano(), end.UnixNano())
	} else {
		rows, err = d.sql.QueryContext(ctx, `SELECT ts, type, payload FROM events WHERE ts>=? AND ts<? AND type=? ORDER BY ts, id`, start.UnixNano(), end.UnixNano(), typ)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var ts int64
		var e Event
		var payload sql.NullString
		if err := rows.Scan(&ts, &e.Type, &payload); err != nil {
			return nil, err
		}
		e.TS = time.Unix(0, ts).UTC()
		e.Payload = payload.String
		out = append(out, e)
	}
	return out, rows.Err()
}
