package models

import (
	"github.com/shopspring/decimal"
)

const (
	VoteLike = "like"
	VoteHate = "hate"
)

type Movie struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	UserID      int64  `json:"-" db:"user_id"`
	Username    string `json:"username" db:"username"`
	Likes       int    `json:"likes" db:"likes"`
	Hates       int    `json:"hates" db:"hates"`
	CreatedAt   int64  `json:"created_at" db:"created_at"`
}

// Rating is the share of likes among all votes, zero if nobody voted yet
func (m Movie) Rating() decimal.Decimal {
	total := m.Likes + m.Hates
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(m.Likes)).
		DivRound(decimal.NewFromInt(int64(total)), 2)
}

type Vote struct {
	MovieID int64
	UserID  int64
	Kind    string
}

type MovieResource struct {
	Movie
	Rating decimal.Decimal `json:"rating"`
}

func (m Movie) Resource() MovieResource {
	return MovieResource{Movie: m, Rating: m.Rating()}
}
