package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dminalm/filtro-candidatos/internal/llm"
)

// SQLiteStore persists session state across restarts, so the
// at-most-once row guarantee survives a redeploy.
type SQLiteStore struct {
	db       *sql.DB
	turnLock *keyedMutex
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// WAL mode for better concurrency.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db, turnLock: newKeyedMutex()}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		history_json TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS saved_flags (
		session_id TEXT NOT NULL,
		category TEXT NOT NULL,
		saved_at INTEGER NOT NULL,
		PRIMARY KEY (session_id, category)
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_updated ON sessions(updated_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return err
	}
	return nil
}

func (s *SQLiteStore) GetOrCreate(id string) error {
	now := time.Now().Unix()
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, created_at, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at = excluded.updated_at`,
		id, now, now)
	if err != nil {
		return fmt.Errorf("get or create session: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendUser(id, content string) error {
	return s.append(id, llm.Message{Role: "user", Content: content})
}

func (s *SQLiteStore) AppendAssistant(id, content string) error {
	return s.append(id, llm.Message{Role: "assistant", Content: content})
}

// append rewrites the history column. Safe because the engine holds the
// per-id turn lock around every mutation of one session.
func (s *SQLiteStore) append(id string, msg llm.Message) error {
	if err := s.GetOrCreate(id); err != nil {
		return err
	}
	history, err := s.History(id)
	if err != nil {
		return err
	}
	history = append(history, msg)
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	_, err = s.db.Exec(`UPDATE sessions SET history_json = ?, updated_at = ? WHERE id = ?`,
		string(raw), time.Now().Unix(), id)
	if err != nil {
		return fmt.Errorf("append utterance: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History(id string) ([]llm.Message, error) {
	var raw string
	err := s.db.QueryRow(`SELECT history_json FROM sessions WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	var out []llm.Message
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) IsSaved(id, category string) (bool, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM saved_flags WHERE session_id = ? AND category = ?`,
		id, category).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check saved flag: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) MarkSaved(id, category string) error {
	_, err := s.db.Exec(`
		INSERT INTO saved_flags (session_id, category, saved_at) VALUES (?, ?, ?)
		ON CONFLICT(session_id, category) DO NOTHING`,
		id, category, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("mark saved: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Lock(id string) func() {
	return s.turnLock.lock(id)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
