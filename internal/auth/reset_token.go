package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// ResetTokenIssuer signs and verifies short-lived password-reset tokens.
// Tokens are self-expiring, so no server-side reset state is kept; the token
// value itself is handed to the delivery channel and never persisted or
// logged.
type ResetTokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokenIssuer builds an issuer with the given HMAC secret and TTL.
func NewResetTokenIssuer(secret string, ttl time.Duration) *ResetTokenIssuer {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResetTokenIssuer{secret: []byte(secret), ttl: ttl}
}

type resetClaims struct {
	StaffID string `json:"sid"`
	jwt.RegisteredClaims
}

// Issue signs a reset token for the staff id.
func (i *ResetTokenIssuer) Issue(staffID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(i.ttl)
	claims := &resetClaims{
		StaffID: staffID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify validates a reset token and returns the staff id it was issued for.
// Expired, malformed, or foreign-signed tokens all fail.
func (i *ResetTokenIssuer) Verify(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &resetClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*resetClaims)
	if !ok || !parsed.Valid || claims.StaffID == "" {
		return "", errors.New("invalid reset token claims")
	}
	return claims.StaffID, nil
}
