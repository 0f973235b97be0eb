package user

import (
	"context"
	"errors"
	"sync"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
)

// In memory users repository, counts persistence calls
type memUsers struct {
	mu      sync.Mutex
	users   []models.User
	creates int

	// Returned by every call if set
	err error
}

var _ repository.UserRepo = (*memUsers)(nil)

func (m *memUsers) CreateUser(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creates++
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, existed := range m.users {
		if existed.Username == u.Username {
			return models.User{}, apperrors.ErrUserAlreadyExists
		}
	}

	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, u)
	return u, nil
}

func (m *memUsers) Exists(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id int64) (models.User, error) {
	return m.get(func(u models.User) bool { return u.ID == id })
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (models.User, error) {
	return m.get(func(u models.User) bool { return u.Username == username })
}

func (m *memUsers) get(match func(models.User) bool) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return models.User{}, apperrors.ErrUserNotFound
}

// Find supports username filter and pagination in insertion order
func (m *memUsers) Find(_ context.Context, f repository.Filters) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}

	var found []models.User
	for _, u := range m.users {
		if f.Username == "" || u.Username == f.Username {
			found = append(found, models.User{ID: u.ID, Username: u.Username})
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

var errStorageDown = errors.New("storage is down")
