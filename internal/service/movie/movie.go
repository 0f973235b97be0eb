package movie

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
	"github.com/nkiryanov/movierater/internal/service"
	"github.com/nkiryanov/movierater/internal/service/payload"
	"github.com/nkiryanov/movierater/internal/service/query"
)

type Config struct {
	TitleMaxLength       int
	DescriptionMaxLength int

	// Default and maximum movies per page
	QueryLength    int
	MaxQueryLength int

	// Default listing order
	OrderField string
	SortMethod string
}

func DefaultConfig() Config {
	return Config{
		TitleMaxLength:       40,
		DescriptionMaxLength: 1000,
		QueryLength:          10,
		MaxQueryLength:       100,
		OrderField:           "created_at",
		SortMethod:           "DESC",
	}
}

var orderFields = []string{"id", "title", "likes", "hates", "created_at"}

var (
	createMovieErrors = apperrors.Allow(
		apperrors.KindExcessiveFields,
		apperrors.KindMissingProperty,
		apperrors.KindInvalidType,
		apperrors.KindExceedsMaxLength,
		apperrors.KindPersistenceFailure,
	)
	getMoviesErrors = apperrors.Allow(
		apperrors.KindInvalidParameterType,
		apperrors.KindInvalidParameterValue,
		apperrors.KindMovieNotFound,
	)
	voteErrors = apperrors.Allow(
		apperrors.KindInvalidParameterValue,
		apperrors.KindMovieNotFound,
		apperrors.KindSelfVote,
		apperrors.KindAlreadyVoted,
	)
)

type MovieService struct {
	cfg     Config
	storage repository.Storage
	logger  logger.Logger

	now func() time.Time
}

func NewService(cfg Config, storage repository.Storage, l logger.Logger) *MovieService {
	return &MovieService{
		cfg:     cfg,
		storage: storage,
		logger:  l,
		now:     time.Now,
	}
}

// CreateMovie posts new movie on behalf of author
func (s *MovieService) CreateMovie(ctx context.Context, author models.User, p payload.Payload) (models.Response, error) {
	movie, err := s.createMovie(ctx, author, p)
	if err != nil {
		return service.Failure(err, createMovieErrors, s.logger)
	}

	return service.Success(http.StatusCreated, movie.Resource()), nil
}

func (s *MovieService) createMovie(ctx context.Context, author models.User, p payload.Payload) (models.Movie, error) {
	var movie models.Movie
	fields := []string{"title", "description"}

	if err := payload.CheckSize(p, fields...); err != nil {
		return movie, err
	}
	if err := payload.Require(p, fields...); err != nil {
		return movie, err
	}
	values, err := payload.Strings(p, fields...)
	if err != nil {
		return movie, err
	}
	title, description := values[0], values[1]

	if utf8.RuneCountInString(title) > s.cfg.TitleMaxLength {
		return movie, apperrors.New(apperrors.KindExceedsMaxLength, "title")
	}
	if utf8.RuneCountInString(description) > s.cfg.DescriptionMaxLength {
		return movie, apperrors.New(apperrors.KindExceedsMaxLength, "description")
	}

	movie, err = s.storage.Movie().CreateMovie(ctx, models.Movie{
		Title:       title,
		Description: description,
		UserID:      author.ID,
		CreatedAt:   s.now().Unix(),
	})
	if err != nil {
		return movie, apperrors.Wrap(apperrors.KindPersistenceFailure, err)
	}

	return movie, nil
}

// GetMovies lists movies page by page, optionally posted by one author
func (s *MovieService) GetMovies(ctx context.Context, params query.Params) (models.Response, error) {
	movies, err := s.getMovies(ctx, params)
	if err != nil {
		return service.Failure(err, getMoviesErrors, s.logger)
	}

	resources := make([]models.MovieResource, 0, len(movies))
	for _, m := range movies {
		resources = append(resources, m.Resource())
	}

	return service.Success(http.StatusOK, resources), nil
}

func (s *MovieService) getMovies(ctx context.Context, params query.Params) ([]models.Movie, error) {
	filters, err := query.Filters(params, query.Options{
		OrderField:  s.cfg.OrderField,
		SortMethod:  s.cfg.SortMethod,
		OrderFields: orderFields,
		Length:      s.cfg.QueryLength,
		MaxLength:   s.cfg.MaxQueryLength,
	})
	if err != nil {
		return nil, err
	}

	movies, err := s.storage.Movie().Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("can't find movies. Err: %w", err)
	}
	if len(movies) == 0 {
		return nil, apperrors.ErrMovieNotFound
	}

	return movies, nil
}

// Vote likes or hates the movie
// Voting the other way switches the vote, voting the same way twice is rejected
func (s *MovieService) Vote(ctx context.Context, voter models.User, movieID int64, kind string) (models.Response, error) {
	movie, err := s.vote(ctx, voter, movieID, kind)
	if err != nil {
		return service.Failure(err, voteErrors, s.logger)
	}

	return service.Success(http.StatusOK, movie.Resource()), nil
}

func (s *MovieService) vote(ctx context.Context, voter models.User, movieID int64, kind string) (models.Movie, error) {
	var movie models.Movie

	if kind != models.VoteLike && kind != models.VoteHate {
		return movie, apperrors.New(apperrors.KindInvalidParameterValue, "kind")
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		m, err := tx.Movie().GetMovieByID(ctx, movieID)
		if err != nil {
			return err
		}
		if m.UserID == voter.ID {
			return apperrors.ErrSelfVote
		}

		err = tx.Movie().SaveVote(ctx, models.Vote{MovieID: movieID, UserID: voter.ID, Kind: kind})
		if err != nil {
			return err
		}

		movie, err = tx.Movie().RecountVotes(ctx, movieID)
		return err
	})
	if err != nil {
		return movie, fmt.Errorf("can't vote. Err: %w", err)
	}

	return movie, nil
}
