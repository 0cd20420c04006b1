package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/mattn/go-sqlite3"
)

// MovieRepository implements [models.MovieStore] on SQLite.
//
// Rows are keyed by title_key, the normalized title, under a UNIQUE constraint.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

const movieColumns = `title, release_date, phase, director, running_time, rating`

// Insert adds a movie with a generated ID
func (r *MovieRepository) Insert(ctx context.Context, movie models.Movie) error {
	now := time.Now()
	query := `
		INSERT INTO movies (id, title_key, ` + movieColumns + `, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
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
		return sqliteError("insert movie", err)
	}
	return nil
}

// DeleteByTitle hard-deletes the movie with the given title
func (r *MovieRepository) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies WHERE title_key = ?`, models.TitleKey(title))
	if err != nil {
		return 0, sqliteError("delete movie", err)
	}
	return rowsAffected(result)
}

// SelectAll retrieves every movie ordered by title key
func (r *MovieRepository) SelectAll(ctx context.Context) ([]models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies ORDER BY title_key ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, sqliteError("query movies", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, sqliteError("scan movie", err)
		}
		movies = append(movies, movie)
	}

	if err := rows.Err(); err != nil {
		return nil, sqliteError("row iteration", err)
	}
	return movies, nil
}

// SelectByTitle retrieves a movie by normalized title
func (r *MovieRepository) SelectByTitle(ctx context.Context, title string) (models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title_key = ?`

	movie, err := scanMovie(r.db.QueryRowContext(ctx, query, models.TitleKey(title)))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Movie{}, fmt.Errorf("%w: %q", shared.ErrNotFound, title)
	}
	if err != nil {
		return models.Movie{}, sqliteError("select movie", err)
	}
	return movie, nil
}

// UpdateColumn sets the single column named by update. A title change also rewrites title_key.
func (r *MovieRepository) UpdateColumn(ctx context.Context, title string, update models.FieldUpdate) (int64, error) {
	query, args, err := updateStatement(update, sqliteBind)
	if err != nil {
		return 0, err
	}
	args = append(args, time.Now(), models.TitleKey(title))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, sqliteError("update movie", err)
	}
	return rowsAffected(result)
}

// AverageRating computes the mean rating and count for a phase
func (r *MovieRepository) AverageRating(ctx context.Context, phase int) (float64, int, error) {
	var (
		avg   sql.NullFloat64
		count int
	)

	err := r.db.QueryRowContext(ctx, `SELECT AVG(rating), COUNT(*) FROM movies WHERE phase = ?`, phase).Scan(&avg, &count)
	if err != nil {
		return 0, 0, sqliteError("average rating", err)
	}
	if !avg.Valid {
		return 0, 0, nil
	}
	return avg.Float64, count, nil
}

// DeleteAll removes every movie
func (r *MovieRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM movies`)
	if err != nil {
		return 0, sqliteError("delete movies", err)
	}
	return rowsAffected(result)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(row scanner) (models.Movie, error) {
	var m models.Movie
	err := row.Scan(&m.Title, &m.ReleaseDate, &m.Phase, &m.Director, &m.RunningTime, &m.Rating)
	return m, err
}

func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, sqliteError("get affected rows", err)
	}
	return n, nil
}

// sqliteError classifies a driver error: unique violations become [shared.ErrDuplicateKey],
// check violations [shared.ErrInvalidInput], everything else [shared.ErrStoreUnavailable].
func sqliteError(op string, err error) error {
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s: %v", shared.ErrDuplicateKey, op, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %s: %v", shared.ErrInvalidInput, op, err)
		}
	}
	return fmt.Errorf("%w: failed to %s: %w", shared.ErrStoreUnavailable, op, err)
}

// updateStatement builds the UPDATE for a single field. bind renders the nth placeholder; the
// caller appends updated_at and the current title key to the returned arguments.
func updateStatement(update models.FieldUpdate, bind func(n int) string) (string, []any, error) {
	column := update.Field().Column()
	if column == "" {
		return "", nil, fmt.Errorf("%w: no field given", shared.ErrInvalidInput)
	}

	if update.Field() == models.FieldTitle {
		query := fmt.Sprintf(`UPDATE movies SET title = %s, title_key = %s, updated_at = %s WHERE title_key = %s`,
			bind(1), bind(2), bind(3), bind(4))
		return query, []any{update.Text(), models.TitleKey(update.Text())}, nil
	}

	query := fmt.Sprintf(`UPDATE movies SET %s = %s, updated_at = %s WHERE title_key = %s`,
		column, bind(1), bind(2), bind(3))
	return query, []any{update.Value()}, nil
}

func sqliteBind(int) string { return "?" }
