package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are short-lived; refresh tokens are
// exchanged for new access tokens so they live much longer.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Token type values carried in the "token_type" claim. A refresh token can
// never be used where an access token is expected and vice versa.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Role claim values. The role is computed once at issuance from the user's
// staff/superuser flags; a privilege change does not retroactively invalidate
// a still-valid access token.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims are the token claims used across the service. The subject is the
// user ID; everything else is additive so older tokens keep parsing.
type Claims struct {
	jwt.RegisteredClaims

	// TokenType distinguishes access from refresh tokens ("access"|"refresh").
	TokenType string `json:"token_type,omitempty"`

	// Role is "admin" or "user", derived at issuance.
	Role string `json:"role,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// FullName is the display name for the user.
	FullName string `json:"full_name,omitempty"`
}

// NewClaims builds minimally-correct claims for a token of the given type.
func NewClaims(
	subject, tokenType, role string,
	email, fullName string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		TokenType: tokenType,
		Role:      role,
		Email:     email,
		FullName:  fullName,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateType enforces the expected "token_type" claim.
func (c *Claims) ValidateType(expected string) error {
	if c.TokenType != expected {
		return ErrTokenType
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
