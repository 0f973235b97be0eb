package handlers

import (
	"net/http"
	"strconv"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/handlers/render"
	"github.com/nkiryanov/movierater/internal/handlers/userctx"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/service/query"
)

func handleListMovies(movieService movieService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp, err := movieService.GetMovies(r.Context(), query.FromValues(r.URL.Query()))
		respond(w, resp, err, logger)
	})
}

func handleCreateMovie(movieService movieService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userctx.MustFromContext(r.Context())

		p, err := render.BindPayload(w, r)
		if err != nil {
			return
		}

		resp, err := movieService.CreateMovie(r.Context(), user, p)
		respond(w, resp, err, logger)
	})
}

func handleVote(movieService movieService, logger logger.Logger) http.Handler {
	type VoteRequest struct {
		Kind string `json:"kind" validate:"required,oneof=like hate"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userctx.MustFromContext(r.Context())

		movieID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.AppError(w, apperrors.New(apperrors.KindInvalidParameterType, "id"))
			return
		}

		data, err := render.BindAndValidate[VoteRequest](w, r)
		if err != nil {
			return
		}

		resp, err := movieService.Vote(r.Context(), user, movieID, data.Kind)
		respond(w, resp, err, logger)
	})
}
