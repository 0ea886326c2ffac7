package objectstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSignature is returned when a download token is missing, expired
// or bound to a different object.
var ErrInvalidSignature = errors.New("invalid object signature")

// Audience is the aud claim of download tokens
const Audience = "talent-hub/objects"

// Signer issues and verifies short-lived download tokens bound to one object
type Signer struct {
	key []byte
	now func() time.Time
}

// NewSigner creates a Signer using an HMAC key
func NewSigner(key string) *Signer {
	return &Signer{key: []byte(key), now: time.Now}
}

// Sign returns a token granting access to bucket/path until ttl elapses
func (s *Signer) Sign(bucket, path string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   objectKey(bucket, path),
		Audience:  jwt.ClaimStrings{Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign object token: %w", err)
	}
	return token, nil
}

// Verify checks that token is valid, unexpired and issued for bucket/path
func (s *Signer) Verify(bucket, path, token string) error {
	if token == "" {
		return ErrInvalidSignature
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(Audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if claims.Subject != objectKey(bucket, path) {
		return ErrInvalidSignature
	}
	return nil
}

func objectKey(bucket, path string) string {
	return bucket + "/" + path
}
