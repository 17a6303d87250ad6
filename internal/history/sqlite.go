package history

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/amishk599/boardwatch/internal/model"
)

// SQLiteStore keeps history in a SQLite database. Rows are only ever
// inserted, so the first title and date recorded for a URL stick.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// postings table exists. A file that is not a usable database is reported as
// a *model.HistoryCorruptError.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &model.HistoryCorruptError{Path: dbPath, Err: err}
	}

	createTable := `CREATE TABLE IF NOT EXISTS postings (
		url        TEXT PRIMARY KEY,
		title      TEXT NOT NULL,
		posted_at  TEXT NOT NULL DEFAULT '',
		first_seen DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, &model.HistoryCorruptError{Path: dbPath, Err: fmt.Errorf("creating postings table: %w", err)}
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

// Location returns the database path.
func (s *SQLiteStore) Location() string { return s.path }

// Load returns every stored posting in insertion order.
func (s *SQLiteStore) Load(ctx context.Context) ([]model.Posting, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT title, url, posted_at FROM postings ORDER BY rowid")
	if err != nil {
		return nil, &model.HistoryCorruptError{Path: s.path, Err: err}
	}
	defer rows.Close()

	postings := []model.Posting{}
	for rows.Next() {
		var p model.Posting
		if err := rows.Scan(&p.Title, &p.URL, &p.PostedAt); err != nil {
			return nil, &model.HistoryCorruptError{Path: s.path, Err: err}
		}
		postings = append(postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.HistoryCorruptError{Path: s.path, Err: err}
	}
	return postings, nil
}

// Save records every posting not already stored, in one transaction. URLs
// already present are left as they are; the table never shrinks.
func (s *SQLiteStore) Save(ctx context.Context, postings []model.Posting) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.PersistError{Path: s.path, Err: err}
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO postings (url, title, posted_at) VALUES (?, ?, ?)")
	if err != nil {
		return &model.PersistError{Path: s.path, Err: err}
	}
	defer stmt.Close()

	for _, p := range postings {
		if _, err := stmt.ExecContext(ctx, p.URL, p.Title, p.PostedAt); err != nil {
			return &model.PersistError{Path: s.path, Err: fmt.Errorf("inserting %s: %w", p.URL, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &model.PersistError{Path: s.path, Err: err}
	}
	return nil
}

// Count returns the number of stored postings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM postings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting postings: %w", err)
	}
	return count, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
