package password

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var ErrAlreadyHashed = errors.New("password is already hashed")

// Policy a plain password has to satisfy
type Policy struct {
	MinLength int

	RequireLetter  bool
	RequireUpper   bool
	RequireDigit   bool
	RequireSpecial bool
}

func DefaultPolicy() Policy {
	return Policy{MinLength: 6}
}

// Password holds either a plain password or its hash, never both
type Password struct {
	value  string
	hashed bool
	hasher Hasher
}

func New(plain string, hasher Hasher) *Password {
	if hasher == nil {
		hasher = DefaultHasher
	}
	return &Password{value: plain, hasher: hasher}
}

// FromHash wraps a stored hash, so it may be compared with user input
func FromHash(hash string, hasher Hasher) *Password {
	p := New(hash, hasher)
	p.hashed = true
	return p
}

func (p *Password) IsHashed() bool {
	return p.hashed
}

// Value returns the hash once the password is hashed
func (p *Password) Value() string {
	return p.value
}

// IsStrong checks plain password against the policy
// Hashed password is never considered strong: the policy can't be checked anymore
func (p *Password) IsStrong(policy Policy) bool {
	if p.hashed {
		return false
	}

	if utf8.RuneCountInString(p.value) < policy.MinLength {
		return false
	}

	var letter, upper, digit, special bool
	for _, r := range p.value {
		switch {
		case unicode.IsUpper(r):
			upper, letter = true, true
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r):
			special = true
		}
	}

	switch {
	case policy.RequireLetter && !letter:
		return false
	case policy.RequireUpper && !upper:
		return false
	case policy.RequireDigit && !digit:
		return false
	case policy.RequireSpecial && !special:
		return false
	default:
		return true
	}
}

// Hash replaces plain password with its hash
func (p *Password) Hash() error {
	if p.hashed {
		return ErrAlreadyHashed
	}

	hash, err := p.hasher.Hash(p.value)
	if err != nil {
		return fmt.Errorf("error while hashing password. Err: %w", err)
	}

	p.value = hash
	p.hashed = true
	return nil
}

// Compare reports whether candidate matches the hashed password
func (p *Password) Compare(candidate string) bool {
	if !p.hashed {
		return false
	}
	return p.hasher.Compare(p.value, candidate) == nil
}
