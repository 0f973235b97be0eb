package models

import (
	"time"
)

// Access token issued on login
type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}
