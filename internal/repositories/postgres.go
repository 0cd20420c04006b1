package repositories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// SQLSTATE codes mapped onto the shared store errors.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
	pgNotNullMissing  = "23502"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS movies (
    id UUID PRIMARY KEY,
    title TEXT NOT NULL,
    title_key TEXT NOT NULL UNIQUE,
    release_date TEXT NOT NULL,
    phase INTEGER NOT NULL CHECK (phase > 0),
    director TEXT NOT NULL,
    running_time INTEGER NOT NULL CHECK (running_time BETWEEN 30 AND 300),
    rating DOUBLE PRECISION NOT NULL CHECK (rating BETWEEN 1.0 AND 10.0),
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_movies_phase ON movies(phase);
`

// PostgresMovieRepository implements [models.MovieStore] on PostgreSQL through a pgx pool.
type PostgresMovieRepository struct {
	db DBTX
}

// NewPostgresMovieRepository creates a repository over a pool or transaction
func NewPostgresMovieRepository(db DBTX) *PostgresMovieRepository {
	return &PostgresMovieRepository{db: db}
}

// EnsureSchema creates the movies table when it does not exist yet
func (r *PostgresMovieRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, pgSchema); err != nil {
		return postgresError("create schema", err)
	}
	return nil
}

func (r *PostgresMovieRepository) Insert(ctx context.Context, movie models.Movie) error {
	now := time.Now()
	query := `
		INSERT INTO movies (id, title_key, ` + movieColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		shared.GenerateID(),
		movie.Key(),
		movie.Title,
		movie.ReleaseDate,
		movie.Phase,
		movie.Director,
		movie.RunningTime,
		movie.Rating,
		now,
		now,
	)
	if err != nil {
		return postgresError("insert movie", err)
	}
	return nil
}

func (r *PostgresMovieRepository) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM movies WHERE title_key = $1`, models.TitleKey(title))
	if err != nil {
		return 0, postgresError("delete movie", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMovieRepository) SelectAll(ctx context.Context) ([]models.Movie, error) {
	rows, err := r.db.Query(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY title_key ASC`)
	if err != nil {
		return nil, postgresError("query movies", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, postgresError("scan movie", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, postgresError("row iteration", err)
	}
	return movies, nil
}

func (r *PostgresMovieRepository) SelectByTitle(ctx context.Context, title string) (models.Movie, error) {
	row := r.db.QueryRow(ctx, `SELECT `+movieColumns+` FROM movies WHERE title_key = $1`, models.TitleKey(title))

	movie, err := scanMovie(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Movie{}, fmt.Errorf("%w: %q", shared.ErrNotFound, title)
	}
	if err != nil {
		return models.Movie{}, postgresError("select movie", err)
	}
	return movie, nil
}

func (r *PostgresMovieRepository) UpdateColumn(ctx context.Context, title string, update models.FieldUpdate) (int64, error) {
	query, args, err := updateStatement(update, postgresBind)
	if err != nil {
		return 0, err
	}
	args = append(args, time.Now(), models.TitleKey(title))

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, postgresError("update movie", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMovieRepository) AverageRating(ctx context.Context, phase int) (float64, int, error) {
	var (
		avg   *float64
		count int
	)

	err := r.db.QueryRow(ctx, `SELECT AVG(rating), COUNT(*) FROM movies WHERE phase = $1`, phase).Scan(&avg, &count)
	if err != nil {
		return 0, 0, postgresError("average rating", err)
	}
	if avg == nil {
		return 0, 0, nil
	}
	return *avg, count, nil
}

func (r *PostgresMovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, postgresError("delete movies", err)
	}
	return tag.RowsAffected(), nil
}

func postgresBind(n int) string { return "$" + strconv.Itoa(n) }

// postgresError classifies a pgx error by SQLSTATE the same way [sqliteError] does for SQLite.
func postgresError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s: %v", shared.ErrDuplicateKey, op, err)
		case pgCheckViolation, pgNotNullMissing:
			return fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, op, err)
		}
	}
	return fmt.Errorf("%w: failed to %s: %w", shared.ErrStoreUnavailable, op, err)
}
