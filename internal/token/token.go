// Package token issues and verifies stateless HS256-signed bearer tokens.
// Tokens carry the username as subject plus issued-at and expiry claims;
// there is no server-side session state and no revocation.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/logger"
)

// minSecretLen is the minimum signing secret length in bytes for HS256.
const minSecretLen = 32

// Servicer defines the contract for issuing and verifying bearer tokens.
type Servicer interface {
	Issue(username string) (string, error)
	Verify(token string) (string, error)
	IsValid(token, expectedUsername string) bool
}

// service signs and parses tokens with a symmetric secret.
type service struct {
	secret []byte
	ttl    time.Duration
}

// NewService creates a new token Servicer with the given signing secret and
// token time-to-live. The secret is validated on every call rather than at
// construction, so a misconfigured deployment fails loudly on first use.
func NewService(secret string, ttl time.Duration) Servicer {
	return &service{secret: []byte(secret), ttl: ttl}
}

// signingKey returns the HMAC signing key, or a config error if the secret
// is absent or too short.
func (s *service) signingKey() ([]byte, error) {
	if len(s.secret) < minSecretLen {
		logger.Get().Errorw("jwt secret is missing or too short",
			"min_length", minSecretLen,
		)
		return nil, apperrors.WithMessage(apperrors.ErrConfig, "JWT secret must be at least 32 characters long")
	}
	return s.secret, nil
}

// Issue generates a signed token for the given username.
func (s *service) Issue(username string) (string, error) {
	key, err := s.signingKey()
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Username cannot be empty")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(key)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return signed, nil
}

// Verify parses the token and returns its subject. Malformed structure, bad
// signature, and expiry all collapse into the same invalid-token error so a
// caller cannot distinguish why verification failed.
func (s *service) Verify(tokenString string) (string, error) {
	key, err := s.signingKey()
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	}, jwt.WithExpirationRequired())

	if err != nil || !tok.Valid {
		return "", apperrors.Wrap(apperrors.ErrInvalidToken, err)
	}
	return claims.Subject, nil
}

// IsValid reports whether the token verifies and its subject matches the
// expected username. It never returns an error; all failures collapse to false.
func (s *service) IsValid(tokenString, expectedUsername string) bool {
	subject, err := s.Verify(tokenString)
	if err != nil {
		return false
	}
	return subject == expectedUsername
}
