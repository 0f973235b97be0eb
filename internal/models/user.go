package models

type User struct {
	ID           int64  `json:"id" db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-" db:"password_hash"`
	CreatedAt    int64  `json:"created_at" db:"created_at"`
}

// UserResource is the response-ready user: the password never leaves the service
type UserResource struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

func (u User) Resource() UserResource {
	return UserResource{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
