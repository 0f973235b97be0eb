package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/service/payload"
	"github.com/nkiryanov/movierater/internal/service/user"
)

const (
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

var ErrNoToken = errors.New("no access token in request")

type tokenManager interface {
	GenerateAccess(userID int64) (models.IssuedToken, error)
	ParseAccess(access string) (int64, error)
}

type userService interface {
	LoginUser(ctx context.Context, p payload.Payload) (models.Response, error)
	GetUserByID(ctx context.Context, id int64) (models.User, error)
}

// Auth service: logs users in with access tokens and authenticates requests
type AuthService struct {
	tokens tokenManager
	users  userService
}

func NewService(tokens tokenManager, users userService) *AuthService {
	return &AuthService{tokens: tokens, users: users}
}

// Login checks credentials and issues access token on success
// Token is empty if login failed
func (s *AuthService) Login(ctx context.Context, p payload.Payload) (models.Response, models.IssuedToken, error) {
	var token models.IssuedToken

	resp, err := s.users.LoginUser(ctx, p)
	if err != nil || !resp.Status {
		return resp, token, err
	}

	result, ok := resp.Data.(user.LoginResult)
	if !ok {
		return resp, token, fmt.Errorf("unexpected login result %T", resp.Data)
	}

	token, err = s.tokens.GenerateAccess(result.ID)
	if err != nil {
		return models.Response{}, token, fmt.Errorf("token could not be generated. Err: %w", err)
	}

	return resp, token, nil
}

// Set access token to response
func (s *AuthService) SetAuth(w http.ResponseWriter, token models.IssuedToken) {
	w.Header().Set(authorizationHeader, bearerPrefix+token.Value)
}

// Auth returns the user the request access token was issued for
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	header := r.Header.Get(authorizationHeader)
	access, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || access == "" {
		return models.User{}, ErrNoToken
	}

	userID, err := s.tokens.ParseAccess(access)
	if err != nil {
		return models.User{}, err
	}

	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return u, fmt.Errorf("can't get token user. Err: %w", err)
	}

	return u, nil
}
