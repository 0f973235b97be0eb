package repository

import (
	"context"

	"github.com/nkiryanov/movierater/internal/models"
)

// Query constraints derived by services from client parameters
// Repositories trust OrderBy, Sort and Fields: they must be checked against allow-lists before
type Filters struct {
	// Exact match on username (user listing) or movie author (movie listing); ignored if empty
	Username string

	OrderBy string
	Sort    string
	Limit   int
	Offset  int

	// Columns to select; all public columns if empty
	Fields []string
}

// User repository interface
type UserRepo interface {
	// Create user with the given username, password hash and creation time
	// If user with username exists already has to return error apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// Report whether user with username exists
	Exists(ctx context.Context, username string) (bool, error)

	// Get user by it's id or username
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, id int64) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)

	// List users matching filters; never returns password hashes
	Find(ctx context.Context, filters Filters) ([]models.User, error)
}

// Movie repository interface
type MovieRepo interface {
	CreateMovie(ctx context.Context, movie models.Movie) (models.Movie, error)

	// If movie not found must return apperrors.ErrMovieNotFound
	GetMovieByID(ctx context.Context, id int64) (models.Movie, error)

	// List movies matching filters
	Find(ctx context.Context, filters Filters) ([]models.Movie, error)

	// Create the vote or switch its kind
	// If the user already has the same vote must return apperrors.ErrAlreadyVoted
	SaveVote(ctx context.Context, vote models.Vote) error

	// Set movie counters from votes table and return updated movie
	RecountVotes(ctx context.Context, movieID int64) (models.Movie, error)
}

type Storage interface {
	User() UserRepo
	Movie() MovieRepo

	// Run fn within transaction, commit if fn returns nil
	InTx(ctx context.Context, fn func(Storage) error) error
}
