package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the payload shape the backend puts in its session tokens.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// peekClaims decodes the token payload without verifying the signature. The
// backend owns verification; the client only reads expiry and the role hint.
func peekClaims(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// tokenExpired reports whether the token carries an exp claim in the past.
// Malformed tokens count as expired; tokens without exp do not, the server
// gets to decide about those.
func tokenExpired(token string) bool {
	claims, err := peekClaims(token)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
