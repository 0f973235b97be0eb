package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/repository"
	"github.com/nkiryanov/movierater/internal/service"
	"github.com/nkiryanov/movierater/internal/service/password"
	"github.com/nkiryanov/movierater/internal/service/payload"
	"github.com/nkiryanov/movierater/internal/service/query"
	"github.com/nkiryanov/movierater/internal/service/validate"
)

// User policy with sensible defaults
type Config struct {
	UsernameMaxLength int
	PasswordPolicy    password.Policy

	// Default and maximum users per page
	QueryLength    int
	MaxQueryLength int

	// Default listing order
	OrderField string
	SortMethod string
}

func DefaultConfig() Config {
	return Config{
		UsernameMaxLength: 30,
		PasswordPolicy:    password.DefaultPolicy(),
		QueryLength:       10,
		MaxQueryLength:    100,
		OrderField:        "id",
		SortMethod:        "ASC",
	}
}

// Users may be ordered by public columns only
var orderFields = []string{"id", "username", "created_at"}

// Public fields returned by listing
var listFields = []string{"id", "username"}

// Expected failures of each operation
var (
	createUserErrors = apperrors.Allow(
		apperrors.KindExcessiveFields,
		apperrors.KindMissingProperty,
		apperrors.KindInvalidType,
		apperrors.KindInvalidCharacters,
		apperrors.KindExceedsMaxLength,
		apperrors.KindWeakPassword,
		apperrors.KindHashingFailure,
		apperrors.KindDuplicateUser,
		apperrors.KindPersistenceFailure,
	)
	loginUserErrors = apperrors.Allow(
		apperrors.KindExcessiveFields,
		apperrors.KindMissingProperty,
		apperrors.KindInvalidType,
		apperrors.KindUserNotFound,
		apperrors.KindInvalidCredentials,
	)
	getUsersErrors = apperrors.Allow(
		apperrors.KindInvalidParameterType,
		apperrors.KindInvalidParameterValue,
		apperrors.KindUserNotFound,
	)
)

// Data of successful login
type LoginResult struct {
	ID int64 `json:"id"`
}

type UserService struct {
	cfg    Config
	hasher password.Hasher
	users  repository.UserRepo
	logger logger.Logger

	now func() time.Time
}

func NewService(cfg Config, hasher password.Hasher, users repository.UserRepo, l logger.Logger) *UserService {
	if hasher == nil {
		hasher = password.DefaultHasher
	}

	return &UserService{
		cfg:    cfg,
		hasher: hasher,
		users:  users,
		logger: l,
		now:    time.Now,
	}
}

// CreateUser registers new user from request payload
// Returns failed response for expected rejections and error for anything unexpected
func (s *UserService) CreateUser(ctx context.Context, p payload.Payload) (models.Response, error) {
	user, err := s.createUser(ctx, p)
	if err != nil {
		return service.Failure(err, createUserErrors, s.logger)
	}

	return service.Success(http.StatusCreated, user.Resource()), nil
}

func (s *UserService) createUser(ctx context.Context, p payload.Payload) (models.User, error) {
	var user models.User

	username, plain, err := credentials(p)
	if err != nil {
		return user, err
	}

	if validate.HasSpecialCharacters(username) {
		return user, apperrors.New(apperrors.KindInvalidCharacters, "username")
	}
	if utf8.RuneCountInString(username) > s.cfg.UsernameMaxLength {
		return user, apperrors.New(apperrors.KindExceedsMaxLength, "username")
	}

	pwd := password.New(plain, s.hasher)
	if !pwd.IsStrong(s.cfg.PasswordPolicy) {
		return user, apperrors.New(apperrors.KindWeakPassword, "password")
	}
	if err := pwd.Hash(); err != nil {
		return user, apperrors.Wrap(apperrors.KindHashingFailure, err)
	}

	exists, err := s.users.Exists(ctx, username)
	if err != nil {
		return user, fmt.Errorf("can't check user exists. Err: %w", err)
	}
	if exists {
		return user, apperrors.New(apperrors.KindDuplicateUser, "username")
	}

	user, err = s.users.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: pwd.Value(),
		CreatedAt:    s.now().Unix(),
	})
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, apperrors.ErrUserAlreadyExists):
		return user, err
	default:
		return user, apperrors.Wrap(apperrors.KindPersistenceFailure, err)
	}
}

// LoginUser checks user credentials, returns user id on success
func (s *UserService) LoginUser(ctx context.Context, p payload.Payload) (models.Response, error) {
	user, err := s.Authenticate(ctx, p)
	if err != nil {
		return service.Failure(err, loginUserErrors, s.logger)
	}

	return service.Success(http.StatusOK, LoginResult{ID: user.ID}), nil
}

// Authenticate returns the user the payload credentials belong to
func (s *UserService) Authenticate(ctx context.Context, p payload.Payload) (models.User, error) {
	username, plain, err := credentials(p)
	if err != nil {
		return models.User{}, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return user, err
	}

	if !password.FromHash(user.PasswordHash, s.hasher).Compare(plain) {
		return models.User{}, apperrors.New(apperrors.KindInvalidCredentials, "")
	}

	return user, nil
}

// GetUsers lists users page by page
// If user is set only the user itself is looked up
func (s *UserService) GetUsers(ctx context.Context, user *models.User, params query.Params) (models.Response, error) {
	if user != nil {
		params.Username = user.Username
	}

	users, err := s.getUsers(ctx, params)
	if err != nil {
		return service.Failure(err, getUsersErrors, s.logger)
	}

	resources := make([]models.UserResource, 0, len(users))
	for _, u := range users {
		resources = append(resources, u.Resource())
	}

	return service.Success(http.StatusOK, resources), nil
}

func (s *UserService) getUsers(ctx context.Context, params query.Params) ([]models.User, error) {
	filters, err := s.Filters(params)
	if err != nil {
		return nil, err
	}

	users, err := s.users.Find(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("can't find users. Err: %w", err)
	}
	if len(users) == 0 {
		return nil, apperrors.ErrUserNotFound
	}

	return users, nil
}

// Filters builds repository filters from client query
func (s *UserService) Filters(params query.Params) (repository.Filters, error) {
	f, err := query.Filters(params, query.Options{
		OrderField:  s.cfg.OrderField,
		SortMethod:  s.cfg.SortMethod,
		OrderFields: orderFields,
		Length:      s.cfg.QueryLength,
		MaxLength:   s.cfg.MaxQueryLength,
	})
	if err != nil {
		return f, err
	}

	f.Fields = listFields
	return f, nil
}

// GetUserByID returns stored user, apperrors.ErrUserNotFound if there is no such user
func (s *UserService) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Validate payload shape and extract credentials
func credentials(p payload.Payload) (username string, plain string, err error) {
	fields := []string{"username", "password"}

	if err := payload.CheckSize(p, fields...); err != nil {
		return "", "", err
	}
	if err := payload.Require(p, fields...); err != nil {
		return "", "", err
	}

	values, err := payload.Strings(p, fields...)
	if err != nil {
		return "", "", err
	}

	return values[0], values[1], nil
}
