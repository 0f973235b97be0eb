package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/movierater/internal/db"
	"github.com/nkiryanov/movierater/internal/handlers"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/metrics"
	"github.com/nkiryanov/movierater/internal/repository/postgres"
	"github.com/nkiryanov/movierater/internal/service/auth"
	"github.com/nkiryanov/movierater/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/movierater/internal/service/movie"
	"github.com/nkiryanov/movierater/internal/service/password"
	"github.com/nkiryanov/movierater/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	close  func()
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	// Initialize logger
	l, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config. Err: %w", err)
	}

	// Initialize token manager
	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	userCfg := user.DefaultConfig()
	userCfg.PasswordPolicy.MinLength = c.PasswordMinLength

	userService := user.NewService(userCfg, password.DefaultHasher, storage.User(), l.With("service", "user"))
	movieService := movie.NewService(movie.DefaultConfig(), storage, l.With("service", "movie"))
	authService := auth.NewService(tokenManager, userService)

	router := handlers.NewRouter(
		handlers.Config{
			CORSOrigins:       c.CORSOrigins,
			AuthRatePerMinute: c.AuthRatePerMinute,
			Metrics:           metrics.New(),
		},
		authService,
		userService,
		movieService,
		l,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		logger:     l,
		close:      pool.Close,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
