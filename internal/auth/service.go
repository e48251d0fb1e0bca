package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskhive/taskhive/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	hasher Hasher
	tokens *TokenManager
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher Hasher, tokens *TokenManager) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Signup registers a new account and mints its first token.
func (s *Service) Signup(ctx context.Context, name, email, password string) (string, PublicUser, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.Create(ctx, name, email, hash)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateEmail) {
			return "", PublicUser{}, shared.ErrDuplicateEmail
		}
		return "", PublicUser{}, fmt.Errorf("create user: %w", err)
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user.Public(), nil
}

// Login validates email/password credentials and mints a token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, PublicUser, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", PublicUser{}, shared.ErrInvalidCredentials
		}
		return "", PublicUser{}, fmt.Errorf("find user: %w", err)
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", PublicUser{}, shared.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", PublicUser{}, fmt.Errorf("issue token: %w", err)
	}
	return token, user.Public(), nil
}

// Me resolves the current user from an already-bound subject id.
func (s *Service) Me(ctx context.Context, subjectID int64) (PublicUser, error) {
	user, err := s.repo.FindByID(ctx, subjectID)
	if err != nil {
		return PublicUser{}, err
	}
	return user.Public(), nil
}
