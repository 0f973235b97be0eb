package handlers

import (
	"net/http"

	"github.com/nkiryanov/movierater/internal/handlers/render"
	"github.com/nkiryanov/movierater/internal/handlers/userctx"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/service/query"
)

func handleRegister(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := render.BindPayload(w, r)
		if err != nil {
			return
		}

		resp, err := userService.CreateUser(r.Context(), p)
		respond(w, resp, err, logger)
	})
}

func handleLogin(authService authService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := render.BindPayload(w, r)
		if err != nil {
			return
		}

		resp, token, err := authService.Login(r.Context(), p)
		if err == nil && resp.Status {
			authService.SetAuth(w, token)
		}
		respond(w, resp, err, logger)
	})
}

func handleListUsers(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := userService.GetUsers(r.Context(), nil, query.FromValues(r.URL.Query()))
		respond(w, resp, err, logger)
	})
}

func handleUserMe(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userctx.MustFromContext(r.Context())

		resp, err := userService.GetUsers(r.Context(), &user, query.Params{})
		respond(w, resp, err, logger)
	})
}
