package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformedToken is returned when a token cannot be split and decoded.
	ErrMalformedToken = errors.New("malformed token")
	// ErrMissingExpiry is returned when a token carries no exp claim.
	ErrMissingExpiry = errors.New("token has no expiry claim")
)

// SessionClaims is the claim set carried by dashboard tokens.
type SessionClaims struct {
	Role string `json:"role,omitempty"`
	gjwt.RegisteredClaims
}

// Claims is the unverified view of a token used for client-side expiry checks.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether exp is at or before now.
func (c *Claims) Expired(now time.Time) bool {
	if c == nil {
		return true
	}
	return !c.ExpiresAt.After(now)
}

// DecodeClaims parses token without verifying its signature and returns its
// claims. It fails with [ErrMalformedToken] or [ErrMissingExpiry].
func DecodeClaims(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformedToken
	}

	var sc SessionClaims
	if _, _, err := gjwt.NewParser().ParseUnverified(token, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if sc.ExpiresAt == nil {
		return nil, ErrMissingExpiry
	}

	claims := &Claims{
		Subject:   sc.Subject,
		Role:      sc.Role,
		ExpiresAt: sc.ExpiresAt.Time,
	}
	if sc.IssuedAt != nil {
		claims.IssuedAt = sc.IssuedAt.Time
	}
	return claims, nil
}
