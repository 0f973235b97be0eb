package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
)

var movieOrderColumns = map[string]struct{}{
	"id":         {},
	"title":      {},
	"likes":      {},
	"hates":      {},
	"created_at": {},
}

type MovieRepo struct {
	DB DBTX
}

const createMovie = `-- name: CreateMovie
WITH m AS (
	INSERT INTO movies (user_id, title, description, created_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id, title, description, user_id, likes, hates, created_at
)
SELECT m.id, m.title, m.description, m.user_id, u.username, m.likes, m.hates, m.created_at
FROM m JOIN users u ON u.id = m.user_id
`

func (r *MovieRepo) CreateMovie(ctx context.Context, m models.Movie) (models.Movie, error) {
	rows, _ := r.DB.Query(ctx, createMovie, m.UserID, m.Title, m.Description, m.CreatedAt)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return movie, fmt.Errorf("db error: %w", err)
	}

	return movie, nil
}

const getMovieByID = `-- name: GetMovieByID
SELECT m.id, m.title, m.description, m.user_id, u.username, m.likes, m.hates, m.created_at
FROM movies m JOIN users u ON u.id = m.user_id
WHERE m.id = $1
`

func (r *MovieRepo) GetMovieByID(ctx context.Context, id int64) (models.Movie, error) {
	rows, _ := r.DB.Query(ctx, getMovieByID, id)
	movie, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Movie])

	switch {
	case err == nil:
		return movie, nil
	case errors.Is(err, pgx.ErrNoRows):
		return movie, apperrors.ErrMovieNotFound
	default:
		return movie, fmt.Errorf("db error: %w", err)
	}
}

const findMovies = `-- name: FindMovies
SELECT m.id, m.title, m.description, m.user_id, u.username, m.likes, m.hates, m.created_at
FROM movies m JOIN users u ON u.id = m.user_id
`

func (r *MovieRepo) Find(ctx context.Context, f repository.Filters) ([]models.Movie, error) {
	var b strings.Builder
	var args []any

	b.WriteString(findMovies)

	if f.Username != "" {
		args = append(args, f.Username)
		fmt.Fprintf(&b, "WHERE u.username = $%d", len(args))
	}

	order, err := orderClause(f, movieOrderColumns, "m")
	if err != nil {
		return nil, err
	}
	b.WriteString(order)

	args = append(args, f.Limit, f.Offset)
	fmt.Fprintf(&b, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, _ := r.DB.Query(ctx, b.String(), args...)
	movies, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Movie])
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return movies, nil
}

const saveVote = `-- name: SaveVote
INSERT INTO votes (movie_id, user_id, kind)
VALUES ($1, $2, $3)
ON CONFLICT (movie_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
WHERE votes.kind <> EXCLUDED.kind
`

// Conflicting insert waits for concurrent vote to commit and then sees its kind,
// so repeated vote is detected without explicit locking
func (r *MovieRepo) SaveVote(ctx context.Context, v models.Vote) error {
	tag, err := r.DB.Exec(ctx, saveVote, v.MovieID, v.UserID, v.Kind)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAlreadyVoted
	}
	return nil
}

const recountVotes = `-- name: RecountVotes
UPDATE movies SET
	likes = (SELECT count(*) FROM votes WHERE movie_id = $1 AND kind = 'like'),
	hates = (SELECT count(*) FROM votes WHERE movie_id = $1 AND kind = 'hate')
WHERE id = $1
`

func (r *MovieRepo) RecountVotes(ctx context.Context, movieID int64) (models.Movie, error) {
	tag, err := r.DB.Exec(ctx, recountVotes, movieID)
	if err != nil {
		return models.Movie{}, fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.Movie{}, apperrors.ErrMovieNotFound
	}

	return r.GetMovieByID(ctx, movieID)
}
