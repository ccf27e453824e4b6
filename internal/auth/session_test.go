// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	Init()
	userID := NewGuestID()

	token, err := CreateJWT(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestJWTRejectsGarbage(t *testing.T) {
	Init()

	_, err := AuthenticateJWT("not.a.token")
	assert.Error(t, err)

	token, err := CreateJWT(uuid.New())
	require.NoError(t, err)
	_, err = AuthenticateJWT(token + "tampered")
	assert.Error(t, err)
}

func TestJWTRejectsForeignKey(t *testing.T) {
	Init()
	token, err := CreateJWT(uuid.New())
	require.NoError(t, err)

	// a new key pair must not verify tokens signed by the old one
	Init()
	_, err = AuthenticateJWT(token)
	assert.Error(t, err)
}
