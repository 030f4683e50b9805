package service

import (
	"context"

	"user_service/internal/model"
)

// PasswordHasher is the credential hasher
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(password, hash string) bool
}

// TokenIssuer produces a session token for an authenticated user
type TokenIssuer interface {
	IssueToken(user *model.User) (string, error)
}

// Authenticator verifies a plaintext password for an already loaded user
type Authenticator interface {
	Authenticate(ctx context.Context, user *model.User, password string) error
}

type passwordAuthenticator struct {
	hasher PasswordHasher
}

// NewPasswordAuthenticator checks passwords against the stored hash with hasher
func NewPasswordAuthenticator(hasher PasswordHasher) Authenticator {
	return &passwordAuthenticator{hasher: hasher}
}

func (a *passwordAuthenticator) Authenticate(_ context.Context, user *model.User, password string) error {
	if !a.hasher.Matches(password, user.Password) {
		return ErrInvalidCredentials
	}
	if !user.IsActive {
		return ErrInactiveUser
	}
	return nil
}
