package utils

import (
	"testing"
	"time"

	"user_service/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testUUID = "0e0007b9-b96a-4c8e-b8af-74715e6ff3f2"

func testUser() *model.User {
	return &model.User{ID: testUUID, Email: "email@test.org"}
}

func TestJWTUtil_IssueToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1, "user-service")

	tokenString, err := jwtUtil.IssueToken(testUser())

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// Validate the token to ensure it's well-formed and contains correct claims
	claims, err := jwtUtil.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, testUUID, claims.UserID)
	assert.Equal(t, testUUID, claims.Subject)
	assert.Equal(t, "email@test.org", claims.Email)
	assert.Equal(t, "user-service", claims.Issuer)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1, "user-service")

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -1, "user-service") // Token expires in the past

	tokenString, err := jwtUtil.IssueToken(testUser())
	assert.NoError(t, err)

	_, err = jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", 1, "user-service")
	jwtUtil2 := NewJWTUtil("secret2", 1, "user-service")

	tokenString, _ := jwtUtil1.IssueToken(testUser())

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewJWTUtil("secret", 1, "someone-else")
	jwtUtil := NewJWTUtil("secret", 1, "user-service")

	tokenString, _ := other.IssueToken(testUser())

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "issuer")
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1, "user-service")
	claims := &JWTClaims{
		UserID: testUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "user-service",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	// HS384 shares the HMAC key type, only the method allow-list rejects it
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "signing method")
}
