package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns the bcrypt hash of password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether password matches the bcrypt hash
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// BcryptHasher is the credential hasher used by the user service
type BcryptHasher struct{}

// NewBcryptHasher creates a new BcryptHasher
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{}
}

// Hash encodes a plaintext password
func (BcryptHasher) Hash(password string) (string, error) {
	return HashPassword(password)
}

// Matches verifies a plaintext password against an encoded one
func (BcryptHasher) Matches(password, hash string) bool {
	return CheckPasswordHash(password, hash)
}
