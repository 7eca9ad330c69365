package authx

import (
	"fmt"
	"time"

	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry decodes the exp claim from a bearer token without verifying
// its signature: the client holds no signing key; verification belongs to
// the backend. Any structural problem comes back as an error the caller
// collapses to "invalid".
func TokenExpiry(tokenString string) (time.Time, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return exp.Time, nil
}

// Expired reports whether the token's embedded expiry is at or before now.
// A token that cannot be decoded counts as expired (fail closed).
func Expired(tokenString string, now time.Time) bool {
	exp, err := TokenExpiry(tokenString)
	if err != nil {
		return true
	}
	return !exp.After(now)
}
