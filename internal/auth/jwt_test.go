package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"collecthub/pkg/models"
)

func testTokenService() TokenService {
	return TokenService{
		Secret:   []byte("unit-test-secret"),
		Issuer:   "collecthub",
		Duration: time.Hour,
	}
}

func testUser() *models.User {
	return &models.User{
		ID:       primitive.NewObjectID(),
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestSignAndParseRoundtrip(t *testing.T) {
	ts := testTokenService()
	user := testUser()

	token, exp, err := ts.Sign(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "collecthub", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	ts := testTokenService()
	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	other := testTokenService()
	other.Secret = []byte("a different secret")

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ts := testTokenService()
	ts.Duration = -time.Minute

	token, _, err := ts.Sign(testUser())
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := testTokenService().Parse("not.a.jwt")
	assert.Error(t, err)
}
