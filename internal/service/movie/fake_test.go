package movie

import (
	"context"
	"sync"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
)

type voteKey struct {
	movieID int64
	userID  int64
}

// In memory storage: movies and votes only, users are passed by tests
// InTx doesn't roll back, the movie service never relies on it in tests
type memStorage struct {
	mu      sync.Mutex
	movies  []models.Movie
	votes   map[voteKey]string
	authors map[int64]string

	err error
}

var _ repository.Storage = (*memStorage)(nil)

func newMemStorage(authors ...models.User) *memStorage {
	s := &memStorage{votes: map[voteKey]string{}, authors: map[int64]string{}}
	for _, a := range authors {
		s.authors[a.ID] = a.Username
	}
	return s
}

func (s *memStorage) User() repository.UserRepo {
	panic("users are not used by movie service")
}

func (s *memStorage) Movie() repository.MovieRepo {
	return s
}

func (s *memStorage) InTx(_ context.Context, fn func(repository.Storage) error) error {
	return fn(s)
}

func (s *memStorage) CreateMovie(_ context.Context, m models.Movie) (models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return models.Movie{}, s.err
	}

	m.ID = int64(len(s.movies) + 1)
	m.Username = s.authors[m.UserID]
	s.movies = append(s.movies, m)
	return m, nil
}

func (s *memStorage) GetMovieByID(_ context.Context, id int64) (models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.getMovie(id)
}

func (s *memStorage) getMovie(id int64) (models.Movie, error) {
	if s.err != nil {
		return models.Movie{}, s.err
	}
	if id < 1 || id > int64(len(s.movies)) {
		return models.Movie{}, apperrors.ErrMovieNotFound
	}
	return s.movies[id-1], nil
}

func (s *memStorage) Find(_ context.Context, f repository.Filters) ([]models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	var found []models.Movie
	for _, m := range s.movies {
		if f.Username == "" || m.Username == f.Username {
			found = append(found, m)
		}
	}

	if f.Offset >= len(found) {
		return nil, nil
	}
	found = found[f.Offset:]
	if len(found) > f.Limit {
		found = found[:f.Limit]
	}
	return found, nil
}

func (s *memStorage) SaveVote(_ context.Context, v models.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.votes[voteKey{v.MovieID, v.UserID}] == v.Kind {
		return apperrors.ErrAlreadyVoted
	}
	s.votes[voteKey{v.MovieID, v.UserID}] = v.Kind
	return nil
}

func (s *memStorage) RecountVotes(_ context.Context, movieID int64) (models.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.getMovie(movieID)
	if err != nil {
		return m, err
	}

	m.Likes, m.Hates = 0, 0
	for k, kind := range s.votes {
		if k.movieID != movieID {
			continue
		}
		if kind == models.VoteLike {
			m.Likes++
		} else {
			m.Hates++
		}
	}

	s.movies[movieID-1] = m
	return m, nil
}
