package payload

import (
	"github.com/nkiryanov/movierater/internal/apperrors"
)

// Payload is a decoded JSON request body
// Kept untyped so excessive, missing and mistyped properties are reported precisely
type Payload map[string]any

// CheckSize fails with ExcessiveFields if payload has more properties than allowed
func CheckSize(p Payload, allowed ...string) error {
	if len(p) > len(allowed) {
		return apperrors.New(apperrors.KindExcessiveFields, "")
	}
	return nil
}

// Require fails with MissingProperty for the first absent or empty field
func Require(p Payload, fields ...string) error {
	for _, field := range fields {
		if isEmpty(p[field]) {
			return apperrors.New(apperrors.KindMissingProperty, field)
		}
	}
	return nil
}

// Strings returns fields values, fails with InvalidType for the first non string field
func Strings(p Payload, fields ...string) ([]string, error) {
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		s, ok := p[field].(string)
		if !ok {
			return nil, apperrors.New(apperrors.KindInvalidType, field)
		}
		values = append(values, s)
	}
	return values, nil
}

// Absent, null, empty string, false and zero are treated as empty
func isEmpty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}
