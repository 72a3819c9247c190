package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"keyflow-api-server/internal/models"
)

var testSecret = []byte("test-secret")

func TestGenerateAndParseToken(t *testing.T) {
	user := models.User{
		ID:           "u1",
		Email:        "admin@example.com",
		Role:         models.RoleDealershipAdmin,
		DealershipID: "d1",
	}

	token, err := GenerateToken(testSecret, user, false)
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, models.RoleDealershipAdmin, claims.Role)
	assert.Equal(t, "d1", claims.DealershipID)
	assert.False(t, claims.RememberMe)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, models.User{ID: "u1"}, false)
	require.NoError(t, err)

	_, err = ParseToken([]byte("other-secret"), token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken(testSecret, "not.a.token")
	assert.Error(t, err)
}

func TestRememberMeExtendsExpiry(t *testing.T) {
	user := models.User{ID: "u1"}

	short, err := GenerateToken(testSecret, user, false)
	require.NoError(t, err)
	long, err := GenerateToken(testSecret, user, true)
	require.NoError(t, err)

	shortClaims, err := ParseToken(testSecret, short)
	require.NoError(t, err)
	longClaims, err := ParseToken(testSecret, long)
	require.NoError(t, err)

	assert.True(t, longClaims.RememberMe)
	assert.True(t, longClaims.ExpiresAt.After(shortClaims.ExpiresAt.Time))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestVerifyCredential(t *testing.T) {
	hash, err := HashPassword("1234")
	require.NoError(t, err)

	assert.NoError(t, VerifyCredential("1234", hash))
	assert.ErrorIs(t, VerifyCredential("9999", hash), ErrCredentialMismatch)
	assert.ErrorIs(t, VerifyCredential("1234", ""), ErrCredentialNotSet)
}

func TestValidatePIN(t *testing.T) {
	assert.NoError(t, ValidatePIN("1234"))
	assert.NoError(t, ValidatePIN("123456"))
	assert.Error(t, ValidatePIN("123"))
	assert.Error(t, ValidatePIN("1234567"))
	assert.Error(t, ValidatePIN("12a4"))
	assert.Error(t, ValidatePIN(""))
}
