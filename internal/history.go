package internal

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryCache mirrors chat sessions fetched from the server into a
// local SQLite file so exports keep working offline. It is a cache, not
// a source of truth; the server copy always wins on conflict.
type HistoryCache struct {
	db *sql.DB
}

// OpenHistoryCache opens (and initializes) the cache under the config
// directory.
func OpenHistoryCache() (*HistoryCache, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, &HistoryError{Op: "open", Err: err}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &HistoryError{Op: "open", Err: err}
	}
	return OpenHistoryCacheAt(filepath.Join(dir, "history.db"))
}

// OpenHistoryCacheAt opens a cache backed by an explicit database path.
func OpenHistoryCacheAt(path string) (*HistoryCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &HistoryError{Op: "open", Err: err}
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &HistoryError{Op: "open", Err: err}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS chat_sessions (
		session_id TEXT PRIMARY KEY,
		updated_at TEXT NOT NULL,
		value TEXT NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, &HistoryError{Op: "open", Err: err}
	}

	return &HistoryCache{db: db}, nil
}

// Close releases the underlying database.
func (hc *HistoryCache) Close() error {
	return hc.db.Close()
}

// Put upserts one session. Pending local messages are not persisted.
func (hc *HistoryCache) Put(session Session) error {
	stored := session
	stored.Messages = nil
	for _, m := range session.Messages {
		if m.Delivery == DeliveryPending {
			continue
		}
		m.LocalID = ""
		m.Delivery = DeliveryDelivered
		stored.Messages = append(stored.Messages, m)
	}

	value, err := json.Marshal(stored)
	if err != nil {
		return &HistoryError{Op: "put", Err: err}
	}
	_, err = hc.db.Exec(
		`INSERT INTO chat_sessions (session_id, updated_at, value) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET updated_at = excluded.updated_at, value = excluded.value`,
		stored.SessionID, stored.UpdatedAt.UTC().Format(time.RFC3339), string(value))
	if err != nil {
		return &HistoryError{Op: "put", Err: err}
	}
	return nil
}

// PutAll upserts a batch of sessions.
func (hc *HistoryCache) PutAll(sessions []Session) error {
	for _, s := range sessions {
		if err := hc.Put(s); err != nil {
			return err
		}
	}
	return nil
}

// Get returns one cached session by id.
func (hc *HistoryCache) Get(sessionID string) (*Session, error) {
	var value string
	err := hc.db.QueryRow(
		`SELECT value FROM chat_sessions WHERE session_id = ?`, sessionID).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &HistoryError{Op: "get", Err: err}
	}
	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return nil, &HistoryError{Op: "get", Err: err}
	}
	return &session, nil
}

// All returns every cached session, most recently updated first.
func (hc *HistoryCache) All() ([]Session, error) {
	rows, err := hc.db.Query(`SELECT value FROM chat_sessions`)
	if err != nil {
		return nil, &HistoryError{Op: "get", Err: err}
	}
	defer func() { _ = rows.Close() }()

	var sessions []Session
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, &HistoryError{Op: "get", Err: err}
		}
		var session Session
		if err := json.Unmarshal([]byte(value), &session); err != nil {
			return nil, &HistoryError{Op: "get", Err: err}
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, &HistoryError{Op: "get", Err: err}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}
