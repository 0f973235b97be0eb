package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
	"github.com/nkiryanov/movierater/internal/service/payload"
)

const (
	ValidationErrorType = "validation_failed"
	DecodingErrorType   = "decoding_failed"
	ServiceErrorType    = "service_error"
)

var validate = validator.New()

func init() {
	configureValidator(validate)
}

type Struct any

// Response writes service response, HTTP status always equals response httpCode
func Response(w http.ResponseWriter, resp models.Response) {
	jsonWithStatus(w, resp, resp.HTTPCode)
}

// AppError renders application error as failed response
func AppError(w http.ResponseWriter, err *apperrors.Error) {
	Response(w, models.Response{
		Status:   false,
		HTTPCode: err.Kind.HTTPCode(),
		Code:     string(err.Kind),
		Message:  err.Message(),
	})
}

// Render ServiceError
func ServiceError(w http.ResponseWriter, message string, code int) {
	Response(w, models.Response{
		Status:   false,
		HTTPCode: code,
		Code:     ServiceErrorType,
		Message:  message,
	})
}

// NotFound answers unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	jsonWithStatus(w, map[string]string{"url": r.URL.Path + " not found"}, http.StatusNotFound)
}

// Render json DecodeError
func DecodeError(w http.ResponseWriter, err error) {
	response := models.Response{
		Status:   false,
		HTTPCode: http.StatusBadRequest,
		Code:     DecodingErrorType,
	}

	// Try to provide more specific error message based on error type
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		response.Message = fmt.Sprintf("Invalid data type for field '%s'", typeErr.Field)
	case errors.As(err, &typeErr):
		response.Message = "Request body must be a JSON object"
	default:
		response.Message = fmt.Sprintf("Failed to parse JSON: %s", err.Error())
	}

	Response(w, response)
}

// Render ValidationErrors, failed fields are listed in data
func ValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	fields := make(map[string]string, len(errs))

	// Create user-friendly error messages based on validation tag
	for _, fieldError := range errs {
		var message string
		switch fieldError.Tag() {
		case "required":
			message = "This field is required"
		case "min":
			message = fmt.Sprintf("Value is too short (minimum %s)", fieldError.Param())
		case "oneof":
			message = fmt.Sprintf("Value must be one of: %s", fieldError.Param())
		default:
			message = "Invalid value"
		}

		fields[fieldError.Field()] = message
	}

	Response(w, models.Response{
		Status:   false,
		HTTPCode: http.StatusBadRequest,
		Data:     fields,
		Code:     ValidationErrorType,
		Message:  "Request validation failed",
	})
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Returns the decoded value and writes appropriate error responses for decoding or validation failures.
func BindAndValidate[T Struct](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		DecodeError(w, err)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		// pretty sure cast will be ok cause expecting T is valid struct
		errs := err.(validator.ValidationErrors)
		ValidationErrors(w, errs)
		return value, err
	}

	return value, nil
}

// BindPayload decodes JSON object from request body as is
// Shape of the payload is checked by services
func BindPayload(w http.ResponseWriter, r *http.Request) (payload.Payload, error) {
	var p payload.Payload

	err := json.NewDecoder(r.Body).Decode(&p)
	if err != nil {
		DecodeError(w, err)
		return nil, err
	}
	if p == nil {
		p = payload.Payload{}
	}

	return p, nil
}

// renderJSONWithStatus sends data as json and enforces status code
func jsonWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
