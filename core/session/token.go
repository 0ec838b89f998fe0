package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry peeks at the bearer token's exp claim without verifying the
// signature (verification is the backend's job; the client only pre-empts
// requests that are certain to fail). The zero time is returned for opaque
// or claim-less tokens.
func TokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// TokenExpired reports whether the token carries an exp claim in the past.
func TokenExpired(token string) bool {
	exp := TokenExpiry(token)
	return !exp.IsZero() && exp.Before(time.Now())
}
