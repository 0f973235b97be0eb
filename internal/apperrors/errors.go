package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies an expected failure. Kinds are compared by value.
type Kind string

const (
	KindExcessiveFields       Kind = "excessive_fields"
	KindMissingProperty       Kind = "missing_property"
	KindInvalidType           Kind = "invalid_type"
	KindInvalidCharacters     Kind = "invalid_characters"
	KindExceedsMaxLength      Kind = "exceeds_max_length"
	KindInvalidParameterType  Kind = "invalid_parameter_type"
	KindInvalidParameterValue Kind = "invalid_parameter_value"

	KindWeakPassword       Kind = "weak_password"
	KindDuplicateUser      Kind = "duplicate_user"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindUserNotFound       Kind = "user_not_found"

	KindMovieNotFound Kind = "movie_not_found"
	KindSelfVote      Kind = "self_vote"
	KindAlreadyVoted  Kind = "already_voted"

	KindHashingFailure     Kind = "hashing_failure"
	KindPersistenceFailure Kind = "persistence_failure"
)

var kindStatus = map[Kind]int{
	KindExcessiveFields:       http.StatusBadRequest,
	KindMissingProperty:       http.StatusBadRequest,
	KindInvalidType:           http.StatusBadRequest,
	KindInvalidCharacters:     http.StatusBadRequest,
	KindExceedsMaxLength:      http.StatusBadRequest,
	KindInvalidParameterType:  http.StatusBadRequest,
	KindInvalidParameterValue: http.StatusBadRequest,
	KindWeakPassword:          http.StatusBadRequest,
	KindDuplicateUser:         http.StatusConflict,
	KindInvalidCredentials:    http.StatusUnauthorized,
	KindUserNotFound:          http.StatusNotFound,
	KindMovieNotFound:         http.StatusNotFound,
	KindSelfVote:              http.StatusForbidden,
	KindAlreadyVoted:          http.StatusConflict,
	KindHashingFailure:        http.StatusInternalServerError,
	KindPersistenceFailure:    http.StatusInternalServerError,
}

// HTTPCode returns the response status the kind is rendered with
func (k Kind) HTTPCode() int {
	if code, ok := kindStatus[k]; ok {
		return code
	}
	return http.StatusInternalServerError
}

// IsServerFault reports whether the kind is an infrastructure failure that has to be logged
func (k Kind) IsServerFault() bool {
	return k.HTTPCode() >= http.StatusInternalServerError
}

// Error is an expected failure of a service operation
type Error struct {
	Kind Kind

	// Request field or query parameter the error relates to, may be empty
	Field string

	// Underlying cause, never shown to the client
	Err error
}

func New(kind Kind, field string) *Error {
	return &Error{Kind: kind, Field: field}
}

func Wrap(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message(), e.Err)
	}
	return e.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind
// A target without field matches any field, so errors.Is(err, ErrMissingProperty) holds for every missing field
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Field == "" || t.Field == e.Field)
}

// Message is the user facing text of the error
func (e *Error) Message() string {
	switch e.Kind {
	case KindExcessiveFields:
		return "Request contains more properties than allowed"
	case KindMissingProperty:
		return fmt.Sprintf("Property '%s' is missing", e.Field)
	case KindInvalidType:
		return fmt.Sprintf("Property '%s' has invalid type", e.Field)
	case KindInvalidCharacters:
		return fmt.Sprintf("Property '%s' contains invalid characters", e.Field)
	case KindExceedsMaxLength:
		return fmt.Sprintf("Property '%s' exceeds maximum length", e.Field)
	case KindInvalidParameterType:
		return fmt.Sprintf("Parameter '%s' must be a number", e.Field)
	case KindInvalidParameterValue:
		return fmt.Sprintf("Parameter '%s' has invalid value", e.Field)
	case KindWeakPassword:
		return "Password is too weak"
	case KindDuplicateUser:
		return "User already exists"
	case KindInvalidCredentials:
		return "Invalid credentials"
	case KindUserNotFound:
		return "User not found"
	case KindMovieNotFound:
		return "Movie not found"
	case KindSelfVote:
		return "You can't vote for your own movie"
	case KindAlreadyVoted:
		return "You have already voted this way"
	case KindHashingFailure:
		return "Failed to process password"
	case KindPersistenceFailure:
		return "Failed to save data"
	default:
		return string(e.Kind)
	}
}

var (
	ErrExcessiveFields       = &Error{Kind: KindExcessiveFields}
	ErrMissingProperty       = &Error{Kind: KindMissingProperty}
	ErrInvalidType           = &Error{Kind: KindInvalidType}
	ErrInvalidCharacters     = &Error{Kind: KindInvalidCharacters}
	ErrExceedsMaxLength      = &Error{Kind: KindExceedsMaxLength}
	ErrInvalidParameterType  = &Error{Kind: KindInvalidParameterType}
	ErrInvalidParameterValue = &Error{Kind: KindInvalidParameterValue}

	ErrWeakPassword       = &Error{Kind: KindWeakPassword}
	ErrUserAlreadyExists  = &Error{Kind: KindDuplicateUser}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}

	ErrMovieNotFound = &Error{Kind: KindMovieNotFound}
	ErrSelfVote      = &Error{Kind: KindSelfVote}
	ErrAlreadyVoted  = &Error{Kind: KindAlreadyVoted}

	ErrHashingFailure     = &Error{Kind: KindHashingFailure}
	ErrPersistenceFailure = &Error{Kind: KindPersistenceFailure}
)

// AllowList is the set of error kinds an operation treats as expected outcomes
type AllowList map[Kind]struct{}

func Allow(kinds ...Kind) AllowList {
	a := make(AllowList, len(kinds))
	for _, k := range kinds {
		a[k] = struct{}{}
	}
	return a
}

// Match returns the application error if err carries an allowed kind
// Errors of any other kind (or plain errors) are not matched and must be propagated by the caller
func (a AllowList) Match(err error) (*Error, bool) {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return nil, false
	}
	if _, ok := a[appErr.Kind]; !ok {
		return nil, false
	}
	return appErr, true
}
