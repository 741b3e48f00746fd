package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret-key-for-testing")

func TestParseUserID_RoundTrip(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, time.Hour)
	require.NoError(t, err)

	userID, err := ParseUserID(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestParseUserID_WrongSecret(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseUserID(token, []byte("a-different-secret"))
	assert.Error(t, err)
}

func TestParseUserID_Expired(t *testing.T) {
	token, err := GenerateToken("user-42", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseUserID(token, testSecret)
	assert.Error(t, err)
}

func TestParseUserID_Garbage(t *testing.T) {
	_, err := ParseUserID("not.a.token", testSecret)
	assert.Error(t, err)

	_, err = ParseUserID("", testSecret)
	assert.Error(t, err)
}

func TestParseUserID_MissingSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)

	_, err = ParseUserID(signed, testSecret)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestParseUserID_RejectsUnsignedToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "user-42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseUserID(signed, testSecret)
	assert.Error(t, err)
}
