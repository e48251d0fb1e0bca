package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhive/taskhive/internal/shared"
)

// TokenManager issues and verifies signed bearer tokens. The signing secret
// is injected at construction and immutable afterwards.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  shared.Clock
}

// NewTokenManager constructs a TokenManager. A nil clock falls back to the
// system clock.
func NewTokenManager(secret []byte, ttl time.Duration, clock shared.Clock) *TokenManager {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &TokenManager{secret: secret, ttl: ttl, clock: clock}
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token carrying subjectID with the configured TTL.
func (m *TokenManager) Issue(subjectID int64) (string, error) {
	now := m.clock.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(subjectID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})
	return token.SignedString(m.secret)
}

// Verify validates signature, structure and expiry, returning the embedded
// subject id. Expiry is a hard boundary: a token is valid strictly before
// its expiry instant and invalid from that instant on.
func (m *TokenManager) Verify(tokenString string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, shared.ErrTokenInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.clock.Now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, shared.ErrTokenExpired
		}
		return 0, shared.ErrTokenInvalid
	}
	if !token.Valid {
		return 0, shared.ErrTokenInvalid
	}
	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, shared.ErrTokenInvalid
	}
	return subjectID, nil
}
