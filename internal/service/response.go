package service

import (
	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/logger"
	"github.com/nkiryanov/movierater/internal/models"
)

// Success response with data
func Success(code int, data any) models.Response {
	return models.Response{
		Status:   true,
		HTTPCode: code,
		Data:     data,
	}
}

// Failure converts an allowed application error into failed response
// Errors not in the allow list are returned as is, the caller has to treat them as unexpected
// Server faults are logged with their cause
func Failure(err error, allow apperrors.AllowList, l logger.Logger) (models.Response, error) {
	appErr, ok := allow.Match(err)
	if !ok {
		return models.Response{}, err
	}

	if appErr.Kind.IsServerFault() {
		l.Error("operation failed", "code", appErr.Kind, "error", err)
	}

	return models.Response{
		Status:   false,
		HTTPCode: appErr.Kind.HTTPCode(),
		Code:     string(appErr.Kind),
		Message:  appErr.Message(),
	}, nil
}
