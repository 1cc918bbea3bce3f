package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"crawlprep/internal/modules/listmode/domain"
	listmodeout "crawlprep/internal/modules/listmode/port/out"

	_ "modernc.org/sqlite"
)

type SQLiteHistoryProjector struct {
	db *sql.DB
}

func NewSQLiteHistoryProjector(dbPath string) (*SQLiteHistoryProjector, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	projector := &SQLiteHistoryProjector{db: db}
	if err := projector.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return projector, nil
}

func (s *SQLiteHistoryProjector) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS ingestions (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  file_name TEXT,
  valid_count INTEGER NOT NULL,
  invalid_count INTEGER NOT NULL,
  unique_domains INTEGER NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS ingestions_created_at ON ingestions(created_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create ingestions table: %w", err)
	}
	return nil
}

// Record stores created_at as Unix nanoseconds so rows sort numerically.
func (s *SQLiteHistoryProjector) Record(ctx context.Context, entry listmodeout.HistoryEntry) error {
	const stmt = `
INSERT INTO ingestions (id, source, file_name, valid_count, invalid_count, unique_domains, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ID,
		string(entry.Source),
		entry.FileName,
		entry.ValidCount,
		entry.InvalidCount,
		entry.UniqueDomains,
		entry.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert ingestion: %w", err)
	}
	return nil
}

func (s *SQLiteHistoryProjector) Recent(ctx context.Context, limit int) ([]listmodeout.HistoryEntry, error) {
	const query = `
SELECT id, source, COALESCE(file_name, ''), valid_count, invalid_count, unique_domains, created_at
FROM ingestions
ORDER BY created_at DESC, rowid DESC
LIMIT ?;
`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query ingestions: %w", err)
	}
	defer rows.Close()

	var out []listmodeout.HistoryEntry
	for rows.Next() {
		var (
			entry     listmodeout.HistoryEntry
			source    string
			createdAt int64
		)
		if err := rows.Scan(&entry.ID, &source, &entry.FileName, &entry.ValidCount, &entry.InvalidCount, &entry.UniqueDomains, &createdAt); err != nil {
			return nil, fmt.Errorf("scan ingestion: %w", err)
		}
		entry.Source = domain.IngestionSource(source)
		entry.CreatedAt = time.Unix(0, createdAt).UTC()
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ingestions: %w", err)
	}
	return out, nil
}

func (s *SQLiteHistoryProjector) Close() error {
	return s.db.Close()
}
