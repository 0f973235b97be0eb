package render

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/movierater/internal/apperrors"
	"github.com/nkiryanov/movierater/internal/models"
)

// Serve handler once and return response status and body
func do(t *testing.T, h http.HandlerFunc, method string, body string) (int, string) {
	t.Helper()

	ts := httptest.NewServer(h)
	defer ts.Close()

	req, err := http.NewRequest(method, ts.URL+"/test", strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))

	return resp.StatusCode, string(b)
}

func TestRender_Response(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		status, body := do(t, func(w http.ResponseWriter, _ *http.Request) {
			Response(w, models.Response{Status: true, HTTPCode: http.StatusCreated, Data: map[string]int{"id": 1}})
		}, http.MethodGet, "")

		require.Equal(t, http.StatusCreated, status)
		assert.JSONEq(t, `{"status": true, "httpCode": 201, "data": {"id": 1}}`, body)
	})

	t.Run("failure", func(t *testing.T) {
		status, body := do(t, func(w http.ResponseWriter, _ *http.Request) {
			Response(w, models.Response{Status: false, HTTPCode: http.StatusConflict, Code: "duplicate_user", Message: "User already exists"})
		}, http.MethodGet, "")

		require.Equal(t, http.StatusConflict, status)
		assert.JSONEq(t, `{"status": false, "httpCode": 409, "code": "duplicate_user", "message": "User already exists"}`, body)
	})
}

func TestRender_AppError(t *testing.T) {
	status, body := do(t, func(w http.ResponseWriter, _ *http.Request) {
		AppError(w, apperrors.New(apperrors.KindInvalidParameterType, "id"))
	}, http.MethodGet, "")

	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"status": false,
		"httpCode": 400,
		"code": "invalid_parameter_type",
		"message": "Parameter 'id' must be a number"
	}`, body)
}

func TestRender_ServiceError(t *testing.T) {
	status, body := do(t, func(w http.ResponseWriter, _ *http.Request) {
		ServiceError(w, "something terrible happened", http.StatusForbidden)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusForbidden, status)
	assert.JSONEq(t, `{
		"status": false,
		"httpCode": 403,
		"code": "service_error",
		"message": "something terrible happened"
	}`, body)
}

func TestRender_NotFound(t *testing.T) {
	status, body := do(t, NotFound, http.MethodGet, "")

	require.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"url": "/test not found"}`, body)
}

func TestRender_DecodeError(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		value := struct {
			Key   string `json:"key"`
			Title int    `json:"title"`
		}{}

		err := json.NewDecoder(r.Body).Decode(&value)
		require.Error(t, err, "Please check what JSON was sent. Test expected that it is invalid")
		DecodeError(w, err)
	}

	tests := []struct {
		name        string
		requestBody string
		expected    string
	}{
		{
			name:        "json parsing error",
			requestBody: `invalid-json`,
			expected: `{
				"status": false,
				"httpCode": 400,
				"code": "decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:        "invalid type ok",
			requestBody: `{"key": "valid_json", "title": "but incorrect type"}`,
			expected: `{
				"status": false,
				"httpCode": 400,
				"code": "decoding_failed",
				"message": "Invalid data type for field 'title'"
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, h, http.MethodPost, tc.requestBody)

			require.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, tc.expected, body)
		})
	}
}

func TestRender_ValidationErrors(t *testing.T) {
	validate := validator.New()

	type T struct {
		Username string `validate:"required"`
		Password string `validate:"min=6"`
		Kind     string `validate:"oneof=like hate"`
		Email    string `validate:"email"`
	}

	status, body := do(t, func(w http.ResponseWriter, _ *http.Request) {
		invalidData := T{
			Password: "123",
			Kind:     "meh",
			Email:    "not-valid-email",
		}

		err := validate.Struct(invalidData)
		require.Error(t, err, "test expects that data not pass validation")
		errs, ok := err.(validator.ValidationErrors)
		require.True(t, ok, "be sure you pass structure to validator")
		ValidationErrors(w, errs)
	}, http.MethodGet, "")

	require.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `{
		"status": false,
		"httpCode": 400,
		"code": "validation_failed",
		"message": "Request validation failed",
		"data": {
			"Username": "This field is required",
			"Password": "Value is too short (minimum 6)",
			"Kind": "Value must be one of: like hate",
			"Email": "Invalid value"
		}
	}`, body)
}

func TestRender_BindAndValidate(t *testing.T) {
	type Vote struct {
		Kind string `json:"kind" validate:"required,oneof=like hate"`
	}

	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid request",
			requestBody:    `{"kind": "like"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status": true, "httpCode": 200, "data": "like"}`,
		},
		{
			name:           "invalid json",
			requestBody:    `invalid-json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"status": false,
				"httpCode": 400,
				"code": "decoding_failed",
				"message": "Failed to parse JSON: invalid character 'i' looking for beginning of value"
			}`,
		},
		{
			name:           "validation failed",
			requestBody:    `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"status": false,
				"httpCode": 400,
				"code": "validation_failed",
				"message": "Request validation failed",
				"data": {"kind": "This field is required"}
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, func(w http.ResponseWriter, r *http.Request) {
				v, err := BindAndValidate[Vote](w, r)
				if err != nil {
					return // Error response already written
				}
				Response(w, models.Response{Status: true, HTTPCode: http.StatusOK, Data: v.Kind})
			}, http.MethodPost, tc.requestBody)

			require.Equal(t, tc.expectedStatus, status)
			assert.JSONEq(t, tc.expectedBody, body)
		})
	}
}

func TestRender_BindPayload(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "object",
			requestBody:    `{"username": "john", "age": 42}`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status": true, "httpCode": 200, "data": {"username": "john", "age": 42}}`,
		},
		{
			name:           "null is empty payload",
			requestBody:    `null`,
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status": true, "httpCode": 200, "data": {}}`,
		},
		{
			name:           "array rejected",
			requestBody:    `[1, 2]`,
			expectedStatus: http.StatusBadRequest,
			expectedBody: `{
				"status": false,
				"httpCode": 400,
				"code": "decoding_failed",
				"message": "Request body must be a JSON object"
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, body := do(t, func(w http.ResponseWriter, r *http.Request) {
				p, err := BindPayload(w, r)
				if err != nil {
					return
				}
				Response(w, models.Response{Status: true, HTTPCode: http.StatusOK, Data: p})
			}, http.MethodPost, tc.requestBody)

			require.Equal(t, tc.expectedStatus, status)
			assert.JSONEq(t, tc.expectedBody, body)
		})
	}
}
