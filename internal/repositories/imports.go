package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
)

// ImportRepository stores batch import history. It satisfies catalog.Recorder.
type ImportRepository struct {
	db *sql.DB
}

// NewImportRepository creates a new ImportRepository with the given database connection
func NewImportRepository(db *sql.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// Record inserts job with a fresh sequence number. An empty ID is generated.
func (r *ImportRepository) Record(ctx context.Context, job *models.ImportJob) error {
	if job.Source == "" || job.Status == "" {
		return fmt.Errorf("%w: import job needs a source and a status", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(r.db, "imports")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	if job.ID == "" {
		job.ID = shared.GenerateID()
	}
	job.Sequence = sequence

	query := `
		INSERT INTO imports (id, sequence, source, status, added, failed, error_message, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var errorMessage any = job.Error
	if job.Error == "" {
		errorMessage = nil
	}

	_, err = r.db.ExecContext(ctx, query,
		job.ID,
		job.Sequence,
		job.Source,
		string(job.Status),
		job.Added,
		job.Failed,
		errorMessage,
		job.StartedAt,
		job.CompletedAt,
	)
	if err != nil {
		return sqliteError("insert import", err)
	}

	return nil
}

// Get retrieves an import job by ID
func (r *ImportRepository) Get(ctx context.Context, id string) (*models.ImportJob, error) {
	query := `
		SELECT id, sequence, source, status, added, failed, error_message, started_at, completed_at
		FROM imports
		WHERE id = ?
	`

	job, err := scanImport(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: import %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, sqliteError("scan import", err)
	}
	return job, nil
}

// List retrieves the most recent import jobs, newest first. A limit of zero returns all of them.
func (r *ImportRepository) List(ctx context.Context, limit int) ([]*models.ImportJob, error) {
	query := `
		SELECT id, sequence, source, status, added, failed, error_message, started_at, completed_at
		FROM imports
		ORDER BY sequence DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, sqliteError("query imports", err)
	}
	defer rows.Close()

	var jobs []*models.ImportJob
	for rows.Next() {
		job, err := scanImport(rows)
		if err != nil {
			return nil, sqliteError("scan import", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, sqliteError("row iteration", err)
	}

	return jobs, nil
}

func scanImport(row scanner) (*models.ImportJob, error) {
	var (
		job          models.ImportJob
		status       string
		errorMessage sql.NullString
		startedAt    time.Time
		completedAt  sql.NullTime
	)

	err := row.Scan(
		&job.ID, &job.Sequence, &job.Source, &status, &job.Added, &job.Failed,
		&errorMessage, &startedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Status = models.ImportStatus(status)
	job.StartedAt = startedAt
	if errorMessage.Valid {
		job.Error = errorMessage.String
	}
	if completedAt.Valid {
		job.CompletedAt = &completedAt.Time
	}

	return &job, nil
}
