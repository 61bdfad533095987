package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one remembered search keyword.
type Entry struct {
	Keyword    string    `json:"keyword"`
	SearchedAt time.Time `json:"searched_at"`
}

// Store persists search history in sqlite, most recent first.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_history (
		keyword TEXT PRIMARY KEY,
		searched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_history_searched ON search_history(searched_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record remembers a keyword, moving it to the front when already present.
func (s *Store) Record(keyword string) error {
	if keyword == "" {
		return nil
	}
	_, err := s.db.Exec(`
		INSERT INTO search_history (keyword, searched_at)
		VALUES (?, ?)
		ON CONFLICT(keyword) DO UPDATE SET searched_at = excluded.searched_at`,
		keyword, time.Now().UTC())
	return err
}

// List returns up to limit entries, most recent first.
func (s *Store) List(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT keyword, searched_at FROM search_history
		ORDER BY searched_at DESC, keyword
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Keyword, &e.SearchedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RemoveAt deletes the entry at the given position in the most-recent-first
// ordering. An out-of-range index is a no-op.
func (s *Store) RemoveAt(index int) error {
	if index < 0 {
		return nil
	}
	_, err := s.db.Exec(`
		DELETE FROM search_history WHERE keyword IN (
			SELECT keyword FROM search_history
			ORDER BY searched_at DESC, keyword
			LIMIT 1 OFFSET ?
		)`, index)
	return err
}

// Clear removes all remembered keywords.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM search_history`)
	return err
}
