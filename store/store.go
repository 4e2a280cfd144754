// Package store archives waveform documents as capture sessions in a
// SQLite database. The session body is the document's canonical
// serialization, so what goes in is exactly what a golden-file comparison
// would see; signal metadata is unpacked into rows for querying.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/pflow-xyz/go-vcd/parser"
	"github.com/pflow-xyz/go-vcd/waveform"
	"github.com/pflow-xyz/go-vcd/writer"
)

// Store handles SQLite operations for archived capture sessions.
type Store struct {
	db *sql.DB
}

// Session is one archived trace.
type Session struct {
	ID        string
	Name      string
	Date      string
	Version   string
	Timescale string
	Signals   int
	Events    int
	CreatedAt time.Time
}

// Signal is one declared variable of an archived trace.
type Signal struct {
	SessionID string
	Code      string
	Name      string
	Path      string
	Type      string
	Width     int
	Events    int
}

// Open opens (and if needed creates) a session database. Use ":memory:"
// for an ephemeral one.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		date TEXT NOT NULL DEFAULT '',
		version TEXT NOT NULL DEFAULT '',
		timescale TEXT NOT NULL DEFAULT '',
		signals INTEGER NOT NULL DEFAULT 0,
		events INTEGER NOT NULL DEFAULT 0,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS signals (
		session_id TEXT NOT NULL,
		idx INTEGER NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		type TEXT NOT NULL,
		width INTEGER NOT NULL,
		events INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, idx),
		FOREIGN KEY (session_id) REFERENCES sessions(id)
	);

	CREATE INDEX IF NOT EXISTS idx_signals_name ON signals(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save archives a document under a human-readable name and returns the
// generated session ID.
func (s *Store) Save(ctx context.Context, name string, doc *waveform.Document) (string, error) {
	body, err := writer.Bytes(doc)
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}

	id := uuid.New().String()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	timescale := ""
	if doc.Header.Timescale.Magnitude > 0 {
		timescale = doc.Header.Timescale.String()
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, name, date, version, timescale, signals, events, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, name, doc.Header.Date, doc.Header.Version, timescale,
		doc.Symbols.Len(), doc.Timeline.Len(), string(body))
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	for _, v := range doc.Symbols.Variables() {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO signals (session_id, idx, code, name, path, type, width, events)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, v.Index, v.Code, v.Name, strings.Join(v.Scope, "."), v.Type.String(), v.Width,
			len(doc.Timeline.Events(v)))
		if err != nil {
			return "", fmt.Errorf("insert signal %s: %w", v.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Load reconstructs an archived document by session ID.
func (s *Store) Load(ctx context.Context, id string) (*waveform.Document, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM sessions WHERE id = ?`, id).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	doc, err := parser.ParseString(body)
	if err != nil {
		return nil, fmt.Errorf("archived body for %s does not parse: %w", id, err)
	}
	return doc, nil
}

// List returns all sessions, newest first.
func (s *Store) List(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, date, version, timescale, signals, events
		 FROM sessions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.Name, &sess.CreatedAt, &sess.Date,
			&sess.Version, &sess.Timescale, &sess.Signals, &sess.Events); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// Signals returns the declared variables of one session in arena order.
func (s *Store) Signals(ctx context.Context, id string) ([]Signal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, code, name, path, type, width, events
		 FROM signals WHERE session_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query signals: %w", err)
	}
	defer rows.Close()

	var signals []Signal
	for rows.Next() {
		var sig Signal
		if err := rows.Scan(&sig.SessionID, &sig.Code, &sig.Name, &sig.Path,
			&sig.Type, &sig.Width, &sig.Events); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		signals = append(signals, sig)
	}
	return signals, rows.Err()
}
