package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scannamer/internal/domain"
	"scannamer/internal/port"
)

// currentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const currentSchemaVersion = 1

type store struct {
	db *sql.DB
}

// NewStore opens (or creates) the audit database at the given path and
// applies pending schema migrations.
func NewStore(path string) (port.AuditLog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create audit directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &store{db: db}, nil
}

func (s *store) Record(ctx context.Context, outcome *domain.RenameOutcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rename_outcomes (
		  id, document_id, original_name, proposed_title, status, applied,
		  provider, model, prompt_tokens, completion_tokens, error, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		outcome.DocumentID,
		outcome.OriginalName,
		outcome.ProposedTitle,
		string(outcome.Status),
		outcome.Applied,
		outcome.Provider,
		outcome.Model,
		outcome.Usage.Prompt,
		outcome.Usage.Completion,
		outcome.Error,
		outcome.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

func (s *store) Close() error {
	return s.db.Close()
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := getUserVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS rename_outcomes (
		  id                TEXT PRIMARY KEY,
		  document_id       TEXT NOT NULL,
		  original_name     TEXT NOT NULL,
		  proposed_title    TEXT,
		  status            TEXT NOT NULL,
		  applied           INTEGER NOT NULL,
		  provider          TEXT,
		  model             TEXT,
		  prompt_tokens     INTEGER NOT NULL,
		  completion_tokens INTEGER NOT NULL,
		  error             TEXT,
		  finished_at       INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_rename_outcomes_document
		ON rename_outcomes(document_id, finished_at DESC);

		CREATE INDEX IF NOT EXISTS idx_rename_outcomes_status
		ON rename_outcomes(status);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

func getUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
