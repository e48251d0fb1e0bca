package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive/internal/shared"
)

type memoryRepo struct {
	mu     sync.Mutex
	users  map[string]*User
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*User)}
}

func (r *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[NormalizeEmail(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id int64) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, name, email, passwordHash string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	normalized := NormalizeEmail(email)
	if _, ok := r.users[normalized]; ok {
		return nil, shared.ErrDuplicateEmail
	}
	r.nextID++
	now := time.Now().UTC()
	user := &User{
		ID:           r.nextID,
		Name:         name,
		Email:        normalized,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[normalized] = user
	copied := *user
	return &copied, nil
}

var _ Repository = (*memoryRepo)(nil)

func newTestService() *Service {
	tokens := NewTokenManager([]byte("test-secret"), time.Hour, nil)
	return NewService(newMemoryRepo(), NewHasher(4), tokens)
}

func TestSignupThenLogin(t *testing.T) {
	t.Parallel()

	service := newTestService()
	ctx := context.Background()

	signupToken, created, err := service.Signup(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotEmpty(t, signupToken)
	require.Equal(t, "alice@example.com", created.Email)

	loginToken, loggedIn, err := service.Login(ctx, "alice@example.com", "password123")
	require.NoError(t, err)
	require.Equal(t, created.ID, loggedIn.ID)

	// Both tokens resolve to the same subject.
	tokens := NewTokenManager([]byte("test-secret"), time.Hour, nil)
	fromSignup, err := tokens.Verify(signupToken)
	require.NoError(t, err)
	fromLogin, err := tokens.Verify(loginToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, fromSignup)
	require.Equal(t, created.ID, fromLogin)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	service := newTestService()
	ctx := context.Background()

	_, _, err := service.Signup(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, wrongPassword := service.Login(ctx, "alice@example.com", "not-the-password")
	_, _, unknownEmail := service.Login(ctx, "nobody@example.com", "password123")

	require.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
	require.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	require.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestSignupDuplicateEmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	service := newTestService()
	ctx := context.Background()

	_, _, err := service.Signup(ctx, "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = service.Signup(ctx, "Impostor", "Alice@Example.COM", "different-pass")
	require.ErrorIs(t, err, shared.ErrDuplicateEmail)
}

func TestSignupNeverStoresPlaintext(t *testing.T) {
	t.Parallel()

	repo := newMemoryRepo()
	tokens := NewTokenManager([]byte("test-secret"), time.Hour, nil)
	service := NewService(repo, NewHasher(4), tokens)

	_, _, err := service.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	stored, err := repo.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	require.NotEqual(t, "password123", stored.PasswordHash)
	require.NotContains(t, stored.PasswordHash, "password123")
}

func TestMeUnknownSubject(t *testing.T) {
	t.Parallel()

	service := newTestService()
	_, err := service.Me(context.Background(), 999)
	require.ErrorIs(t, err, shared.ErrNotFound)
}
