package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateAndParseToken(t *testing.T) {
	// Arrange
	svc, err := NewJWTService("test-secret-key", 1)
	require.NoError(t, err)

	// Act
	token, err := svc.GenerateToken(42, RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ParseToken(token)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "elearning-api", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestJWTService_GenerateToken_UnknownRoleRejected(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 1)
	require.NoError(t, err)

	_, err = svc.GenerateToken(42, "superuser")

	require.Error(t, err, "Токен выдается только известным ролям")
	assert.Contains(t, err.Error(), "unknown role")
}

func TestJWTService_ParseToken_WrongSecretRejected(t *testing.T) {
	// Arrange: токен подписан одним секретом, проверяется другим
	issuer, err := NewJWTService("secret-a", 1)
	require.NoError(t, err)
	verifier, err := NewJWTService("secret-b", 1)
	require.NoError(t, err)

	token, err := issuer.GenerateToken(7, RoleStudent)
	require.NoError(t, err)

	// Act
	_, err = verifier.ParseToken(token)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature is invalid")
}

func TestJWTService_ParseToken_MalformedRejected(t *testing.T) {
	svc, err := NewJWTService("test-secret-key", 1)
	require.NoError(t, err)

	_, err = svc.ParseToken("not-a-jwt")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestNewJWTService_EmptySecretRejected(t *testing.T) {
	_, err := NewJWTService("", 24)

	require.Error(t, err, "Пустой секрет — ошибка конфигурации, а не тихий дефолт")
}
