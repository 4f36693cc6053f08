package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("secret", time.Hour)

	raw, err := m.Issue("user-1")
	require.NoError(t, err)

	userID, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.Issue("user-1")
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	raw, err := NewManager("other", time.Hour).Issue("user-1")
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestVerifyGarbage(t *testing.T) {
	_, err := NewManager("secret", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalid)
}
