package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/shared"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager([]byte("super-secret"), time.Hour, nil)
	require.Equal(t, time.Hour, manager.TTL())

	token, err := manager.Issue(42)
	require.NoError(t, err)

	subjectID, err := manager.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), subjectID)
}

func TestVerifyExpiryBoundary(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour

	issuer := NewTokenManager([]byte("secret"), ttl, shared.FixedClock{Instant: issuedAt})
	token, err := issuer.Issue(7)
	require.NoError(t, err)

	// One instant before expiry the token is still valid.
	beforeExpiry := NewTokenManager([]byte("secret"), ttl, shared.FixedClock{Instant: issuedAt.Add(ttl - time.Second)})
	subjectID, err := beforeExpiry.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(7), subjectID)

	// At exactly the expiry instant it is rejected.
	atExpiry := NewTokenManager([]byte("secret"), ttl, shared.FixedClock{Instant: issuedAt.Add(ttl)})
	_, err = atExpiry.Verify(token)
	require.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	issuer := NewTokenManager([]byte("right-secret"), time.Hour, nil)
	token, err := issuer.Issue(1)
	require.NoError(t, err)

	verifier := NewTokenManager([]byte("wrong-secret"), time.Hour, nil)
	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestVerifyTamperedToken(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager([]byte("secret"), time.Hour, nil)
	token, err := manager.Issue(1)
	require.NoError(t, err)

	// Flip one byte anywhere in the token.
	tampered := []byte(token)
	mid := len(tampered) / 2
	if tampered[mid] == 'a' {
		tampered[mid] = 'b'
	} else {
		tampered[mid] = 'a'
	}

	_, err = manager.Verify(string(tampered))
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestVerifyMalformedToken(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager([]byte("secret"), time.Hour, nil)
	for _, candidate := range []string{"", "not.a.jwt", "a.b", "...."} {
		_, err := manager.Verify(candidate)
		require.ErrorIs(t, err, shared.ErrTokenInvalid, "candidate %q", candidate)
	}
}

func TestVerifyNonNumericSubject(t *testing.T) {
	t.Parallel()

	// A correctly signed token whose subject is not an id is rejected, not
	// mapped to subject zero.
	now := time.Now().UTC()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "not-a-number",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	manager := NewTokenManager([]byte("secret"), time.Hour, nil)
	_, err = manager.Verify(token)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	t.Parallel()

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "5",
	})
	token, err := raw.SignedString([]byte("secret"))
	require.NoError(t, err)

	manager := NewTokenManager([]byte("secret"), time.Hour, nil)
	_, err = manager.Verify(token)
	require.ErrorIs(t, err, shared.ErrTokenInvalid)
}
