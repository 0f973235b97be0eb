package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/cors"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/nkiryanov/movierater/internal/handlers/middleware"
	"github.com/nkiryanov/movierater/internal/handlers/render"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/metrics"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/service/payload"
	"github.com/nkiryanov/movierater/internal/service/query"
)

// Router options
type Config struct {
	// Origins allowed to call API from browser, CORS is off if empty
	CORSOrigins []string

	// Send Strict-Transport-Security header
	HSTS bool

	// Request body limit, middleware.DefaultMaxBodyBytes if zero
	MaxBodyBytes int64

	// Login and registration attempts per minute from one IP, unlimited if zero
	AuthRatePerMinute int

	// Request metrics served on GET /metrics, off if nil
	Metrics *metrics.Metrics
}

const metricsRoute = "GET /metrics"

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	cfg Config,
	authService authService,
	userService userService,
	movieService movieService,
	logger logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)
	withRateLimit := func(h http.Handler) http.Handler { return h }
	if cfg.AuthRatePerMinute > 0 {
		withRateLimit = middleware.PerMinute(cfg.AuthRatePerMinute).Middleware
	}

	mux := http.NewServeMux()

	mux.Handle("POST /api/user", withRateLimit(handleRegister(userService, logger)))
	mux.Handle("POST /api/user/login", withRateLimit(handleLogin(authService, logger)))
	mux.Handle("GET /api/user", handleListUsers(userService, logger))
	mux.Handle("GET /api/user/me", withAuth(handleUserMe(userService, logger)))

	mux.Handle("GET /api/movie", handleListMovies(movieService, logger))
	mux.Handle("POST /api/movie", withAuth(handleCreateMovie(movieService, logger)))
	mux.Handle("POST /api/movie/{id}/vote", withAuth(handleVote(movieService, logger)))

	mux.HandleFunc("/", render.NotFound)

	if cfg.Metrics != nil {
		mux.Handle(metricsRoute, cfg.Metrics.Handler())
	}

	mds := []func(http.Handler) http.Handler{
		chimw.RequestID,
		middleware.LoggerMiddleware(logger),
		middleware.Recover(logger),
		middleware.SecurityHeaders(cfg.HSTS),
	}
	if len(cfg.CORSOrigins) > 0 {
		mds = append(mds, cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Authorization"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	mds = append(mds, middleware.MaxBytes(cfg.MaxBodyBytes))
	if cfg.Metrics != nil {
		mds = append(mds, middleware.Metrics(cfg.Metrics, metricsRoute))
	}

	return chain(mux, mds...)
}

// Write service response, unexpected errors are logged and hidden behind 500
func respond(w http.ResponseWriter, resp models.Response, err error, logger logger.Logger) {
	if err != nil {
		logger.Error("unexpected service error", "error", err)
		render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	render.Response(w, resp)
}

type authService interface {
	// Login user with payload credentials
	// Token is issued only if login succeeded
	Login(ctx context.Context, p payload.Payload) (models.Response, models.IssuedToken, error)

	// Set access token to response
	SetAuth(w http.ResponseWriter, token models.IssuedToken)

	// Get request and return user if it authenticated or error
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type userService interface {
	CreateUser(ctx context.Context, p payload.Payload) (models.Response, error)
	GetUsers(ctx context.Context, user *models.User, params query.Params) (models.Response, error)
}

type movieService interface {
	CreateMovie(ctx context.Context, author models.User, p payload.Payload) (models.Response, error)
	GetMovies(ctx context.Context, params query.Params) (models.Response, error)
	Vote(ctx context.Context, voter models.User, movieID int64, kind string) (models.Response, error)
}
