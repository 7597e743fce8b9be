package output

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/castcrawl/internal/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS associations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	actor TEXT NOT NULL,
	movie_or_tv_name TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_associations_actor ON associations(actor);
CREATE INDEX IF NOT EXISTS idx_associations_work ON associations(movie_or_tv_name);
`

// SQLiteWriter inserts records into the associations table of a SQLite file.
// Rows from a previous run are removed when the writer is opened.
type SQLiteWriter struct {
	mu     sync.Mutex
	db     *sql.DB
	insert *sql.Stmt
	closed bool
}

// NewSQLiteWriter opens or creates the database at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ctx := context.Background()
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM associations"); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to clear associations: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, "INSERT INTO associations (actor, movie_or_tv_name) VALUES (?, ?)")
	if err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}

	return &SQLiteWriter{db: db, insert: stmt}, nil
}

// Write implements Writer.
func (s *SQLiteWriter) Write(rec model.Association) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, err := s.insert.ExecContext(context.Background(), rec.Actor, rec.MovieOrTVName); err != nil {
		return fmt.Errorf("failed to insert association: %w", err)
	}
	return nil
}

// Close implements Writer.
func (s *SQLiteWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.insert.Close() //nolint:errcheck // closing the db releases it too
	return s.db.Close()
}
