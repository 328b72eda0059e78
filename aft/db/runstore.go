package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/tursodatabase/go-libsql"
)

// Run is one persisted training run.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Config    string
	FinalLoss sql.NullFloat64
	Accuracy  sql.NullFloat64
	LossPath  sql.NullString
}

// RunStore tracks training runs in a local libsql database.
type RunStore struct {
	db *sql.DB
}

// NewRunStore opens or initializes the run database at path.
func NewRunStore(path string) (*RunStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("could not create run database directory: %w", err)
	}

	slog.Debug("Run database path", "path", path)

	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run database: %w", err)
	}

	store := &RunStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// init sets up the runs table.
func (s *RunStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY UNIQUE,
		started_at DATETIME NOT NULL,
		config TEXT,
		final_loss REAL,
		accuracy REAL,
		loss_path TEXT
	)`)
	if err != nil {
		return fmt.Errorf("failed to create runs table: %w", err)
	}
	return nil
}

// AddRun registers a new run before training starts.
func (s *RunStore) AddRun(id uuid.UUID, startedAt time.Time, configJSON string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // Will be a no-op if transaction is committed

	result, err := tx.Exec(
		"INSERT INTO runs (id, started_at, config) VALUES (?, ?, ?)",
		id.String(), startedAt.UTC().Format(time.RFC3339Nano), configJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("expected 1 row affected, got %d", rowsAffected)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Registered training run", "id", id)
	return nil
}

// SetResults records the final loss, evaluation accuracy, and the exported
// loss-trace path for a run.
func (s *RunStore) SetResults(id uuid.UUID, finalLoss, accuracy float64, lossPath string) error {
	result, err := s.db.Exec(
		"UPDATE runs SET final_loss = ?, accuracy = ?, loss_path = ? WHERE id = ?",
		finalLoss, accuracy, lossPath, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// GetRun retrieves one run by ID.
func (s *RunStore) GetRun(id uuid.UUID) (*Run, error) {
	var run Run
	var idStr, startedAt string
	err := s.db.QueryRow(
		"SELECT id, started_at, config, final_loss, accuracy, loss_path FROM runs WHERE id = ?",
		id.String(),
	).Scan(&idStr, &startedAt, &run.Config, &run.FinalLoss, &run.Accuracy, &run.LossPath)
	if err != nil {
		return nil, err
	}
	run.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run id: %w", err)
	}
	run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
	}
	return &run, nil
}

// ListRuns returns all runs, most recent first.
func (s *RunStore) ListRuns() ([]Run, error) {
	rows, err := s.db.Query(
		"SELECT id, started_at, config, final_loss, accuracy, loss_path FROM runs ORDER BY started_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var idStr, startedAt string
		if err := rows.Scan(&idStr, &startedAt, &run.Config, &run.FinalLoss, &run.Accuracy, &run.LossPath); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if run.ID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("failed to parse run id: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("failed to parse run timestamp: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close releases the database handle.
func (s *RunStore) Close() error {
	return s.db.Close()
}
