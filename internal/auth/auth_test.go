package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/greencity/waste-pickup/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	hash, err := service.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, service.CheckPassword("password123", hash))
	assert.False(t, service.CheckPassword("wrongpassword", hash))
}

func TestGenerateAndValidateToken(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	user := &models.User{
		ID:   primitive.NewObjectID(),
		Name: "Priya Nair",
		Role: models.RoleAdmin,
	}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "Priya Nair", claims.Name)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateToken_NormalizesRole(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	// A token minted with a legacy role casing still resolves to the
	// canonical role.
	user := &models.User{
		ID:   primitive.NewObjectID(),
		Name: "Legacy Admin",
		Role: models.Role("Administrator"),
	}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateToken_Invalid(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	_, err = service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenFromHeader(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	token, err := service.ExtractTokenFromHeader("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = service.ExtractTokenFromHeader("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = service.ExtractTokenFromHeader("Basic abc123")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidators(t *testing.T) {
	service, err := NewService()
	require.NoError(t, err)

	assert.NoError(t, service.ValidatePassword("longenough"))
	assert.Error(t, service.ValidatePassword("short"))

	assert.NoError(t, service.ValidateEmail("user@example.com"))
	assert.Error(t, service.ValidateEmail("not-an-email"))

	assert.NoError(t, service.ValidateName("Jordan Reyes"))
	assert.Error(t, service.ValidateName(" a "))
}
