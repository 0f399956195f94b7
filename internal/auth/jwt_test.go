package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-key"

func TestGenerateAndValidateJWT(t *testing.T) {
	userID := primitive.NewObjectID()
	roleID := primitive.NewObjectID()

	tokenString, err := GenerateJWT(userID, roleID, testSecret, 15*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ValidateJWT(tokenString, testSecret)
	require.NoError(t, err)
	assert.Equal(t, userID.Hex(), claims.UserID)
	assert.Equal(t, roleID.Hex(), claims.RoleID)
	assert.NotEmpty(t, claims.ID, "token must carry a jti for revocation")
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	tokenString, err := GenerateJWT(primitive.NewObjectID(), primitive.NewObjectID(), testSecret, 15*time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, "another-secret")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	tokenString, err := GenerateJWT(primitive.NewObjectID(), primitive.NewObjectID(), testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(tokenString, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", testSecret)
	assert.Error(t, err)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2-but-longer")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2-but-longer", hash)

	assert.True(t, CheckPasswordHash("hunter2-but-longer", hash))
	assert.False(t, CheckPasswordHash("wrong-password", hash))
}

func TestUniqueJTIs(t *testing.T) {
	userID := primitive.NewObjectID()
	roleID := primitive.NewObjectID()

	t1, err := GenerateJWT(userID, roleID, testSecret, time.Minute)
	require.NoError(t, err)
	t2, err := GenerateJWT(userID, roleID, testSecret, time.Minute)
	require.NoError(t, err)

	c1, err := ValidateJWT(t1, testSecret)
	require.NoError(t, err)
	c2, err := ValidateJWT(t2, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
}
