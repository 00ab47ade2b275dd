// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const MaxEmailLen = 254

var (
	ErrEmailEmpty   = errors.New("email empty")
	ErrEmailTooLong = errors.New("email too long")
)

// UserID is the stable identity a credential resolves to.
// In this system it is the account email.
type UserID string

type User struct {
	ID    UserID `json:"id"`
	Email string `json:"email"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(email string) (*User, error) {
	email = strings.TrimSpace(email)
	if len(email) == 0 {
		return nil, ErrEmailEmpty
	}
	if len(email) > MaxEmailLen {
		return nil, ErrEmailTooLong
	}
	return &User{ID: UserID(email), Email: email}, nil
}
