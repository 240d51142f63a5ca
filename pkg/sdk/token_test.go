package sdk

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspectToken(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Nil(t, InspectToken("", now))
	assert.Nil(t, InspectToken("not-a-jwt", now))

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"iat": now.Add(-2 * time.Hour).Unix(),
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	info := InspectToken(token, now)
	require.NotNil(t, info)
	assert.Equal(t, "u1", info.Subject)
	assert.True(t, info.Expired)
	require.NotNil(t, info.IssuedAt)

	fresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	info = InspectToken(fresh, now)
	require.NotNil(t, info)
	assert.False(t, info.Expired)
	assert.Nil(t, info.IssuedAt)
}
