// Package persistence provides the single-slot save store and the codec for
// the save blob.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SlotKey is the one fixed save slot. Saving always overwrites it.
const SlotKey = "monetary_state_save"

// Store wraps a SQLite connection holding the save slot.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the save database at the given path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	st := &Store{conn: conn}
	if err := st.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

// Close closes the database connection.
func (st *Store) Close() error {
	return st.conn.Close()
}

func (st *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS save_slot (
		key TEXT PRIMARY KEY,
		blob TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);
	`
	_, err := st.conn.Exec(schema)
	return err
}

// Save writes the blob into the single slot, overwriting any previous save.
func (st *Store) Save(blob []byte) error {
	_, err := st.conn.Exec(
		"INSERT OR REPLACE INTO save_slot (key, blob, saved_at) VALUES (?, ?, ?)",
		SlotKey, string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save slot: %w", err)
	}
	slog.Info("save slot written", "bytes", len(blob))
	return nil
}

// Load reads the save slot. ok is false when no save exists.
func (st *Store) Load() (blob []byte, ok bool, err error) {
	var s string
	err = st.conn.Get(&s, "SELECT blob FROM save_slot WHERE key = ?", SlotKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load slot: %w", err)
	}
	return []byte(s), true, nil
}

// Clear deletes the save slot.
func (st *Store) Clear() error {
	_, err := st.conn.Exec("DELETE FROM save_slot WHERE key = ?", SlotKey)
	return err
}
