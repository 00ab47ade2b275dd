// Package auth resolves an opaque credential to a stable user identity.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

var (
	ErrTokenRequired = errors.New("token required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrNoIdentity    = errors.New("token carries no user identity")
)

// Claims is the token payload issued by the login service. UserIdentifier
// is the account email.
type Claims struct {
	UserIdentifier string `json:"userIdentifier"`
	jwt.RegisteredClaims
}

// Verifier checks HS256-signed session tokens. The identity it yields is
// the only one trusted for authorization and presence labeling; nothing
// client-supplied beyond the token itself is believed.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses and validates the credential and returns the user
// identity it asserts.
func (v *Verifier) Verify(tokenString string) (domain.UserID, error) {
	if tokenString == "" {
		return "", ErrTokenRequired
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserIdentifier == "" {
		return "", ErrNoIdentity
	}
	return domain.UserID(claims.UserIdentifier), nil
}
