package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"rio-visualizer/internal/event"
	"rio-visualizer/internal/fields"
	"rio-visualizer/internal/timeutil"
)

const schema = `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id   TEXT PRIMARY KEY,
		started_at   BIGINT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshots (
		session_id   TEXT NOT NULL,
		seq          BIGINT NOT NULL,
		kind         TEXT NOT NULL,
		game_id      BIGINT NOT NULL,
		captured_at  BIGINT NOT NULL,
		data         TEXT NOT NULL,
		PRIMARY KEY (session_id, seq),
		FOREIGN KEY (session_id) REFERENCES sessions(session_id)
	);
`

// Archive stores every event-producing snapshot of a run in SQLite.
// Each Open starts a new session.
type Archive struct {
	db      *sql.DB
	clock   timeutil.Clock
	session uuid.UUID

	mu  sync.Mutex
	seq int64
}

// SessionInfo summarises one archived run.
type SessionInfo struct {
	ID        uuid.UUID
	StartedAt time.Time
	Count     int
}

// ErrReadOnly is returned by Record on an archive opened for reading.
var ErrReadOnly = errors.New("session: archive opened read-only")

func openDB(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session: open archive %s: %w", path, err)
	}
	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		schema,
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("session: init archive: %w", err)
		}
	}
	return db, nil
}

// OpenArchive opens or creates the database at path and registers a new
// session.
func OpenArchive(ctx context.Context, path string, clock timeutil.Clock) (*Archive, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	a := &Archive{db: db, clock: clock, session: uuid.New()}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO sessions (session_id, started_at) VALUES (?, ?)",
		a.session.String(), clock.Now().UnixNano()); err != nil {
		db.Close()
		return nil, fmt.Errorf("session: register session: %w", err)
	}
	return a, nil
}

// ReadArchive opens the database at path for listing and replay only.
func ReadArchive(ctx context.Context, path string) (*Archive, error) {
	db, err := openDB(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Archive{db: db, clock: timeutil.RealClock{}}, nil
}

// Session returns the id of the session being recorded, or uuid.Nil for
// a read-only archive.
func (a *Archive) Session() uuid.UUID { return a.session }

// Record appends one snapshot to the current session.
func (a *Archive) Record(ctx context.Context, kind event.Kind, s *fields.Snapshot) error {
	if a.session == uuid.Nil {
		return ErrReadOnly
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: marshal snapshot: %w", err)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err = a.db.ExecContext(ctx,
		"INSERT INTO snapshots (session_id, seq, kind, game_id, captured_at, data) VALUES (?, ?, ?, ?, ?, ?)",
		a.session.String(), a.seq, kind.String(), int64(s.GameID), a.clock.Now().UnixNano(), string(data))
	if err != nil {
		return fmt.Errorf("session: record: %w", err)
	}
	a.seq++
	return nil
}

// Sessions lists archived sessions, oldest first.
func (a *Archive) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT s.session_id, s.started_at, COUNT(p.seq)
		FROM sessions s LEFT JOIN snapshots p ON p.session_id = s.session_id
		GROUP BY s.session_id, s.started_at
		ORDER BY s.started_at, s.session_id`)
	if err != nil {
		return nil, fmt.Errorf("session: list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var (
			id      string
			started int64
			info    SessionInfo
		)
		if err := rows.Scan(&id, &started, &info.Count); err != nil {
			return nil, fmt.Errorf("session: scan session: %w", err)
		}
		if info.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("session: bad session id %q: %w", id, err)
		}
		info.StartedAt = time.Unix(0, started)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Snapshots returns a session's snapshots in capture order.
func (a *Archive) Snapshots(ctx context.Context, id uuid.UUID) ([]*fields.Snapshot, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT data FROM snapshots WHERE session_id = ? ORDER BY seq", id.String())
	if err != nil {
		return nil, fmt.Errorf("session: query snapshots: %w", err)
	}
	defer rows.Close()

	var out []*fields.Snapshot
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("session: scan snapshot: %w", err)
		}
		s := new(fields.Snapshot)
		if err := json.Unmarshal([]byte(data), s); err != nil {
			return nil, fmt.Errorf("session: decode snapshot: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (a *Archive) Close() error {
	return a.db.Close()
}
