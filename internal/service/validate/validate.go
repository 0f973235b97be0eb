package validate

import (
	"math"
	"strconv"
	"strings"
)

// IsNumber reports whether s parses as a finite number
func IsNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return false
	}

	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// HasSpecialCharacters reports whether s contains anything but ASCII letters, digits and underscore
func HasSpecialCharacters(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return true
		}
	}

	return false
}
