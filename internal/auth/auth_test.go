package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidate(t *testing.T) {
	m := NewManager(testKey, time.Hour)

	token, err := m.Issue("profile-1", "user-1", "admin", "station-1")
	require.NoError(t, err)
	require.NotEmpty(t, token.AccessToken)

	claims, err := m.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "profile-1", claims.ProfileID)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "station-1", claims.StationID)
}

func TestValidateKeepsUnknownRole(t *testing.T) {
	m := NewManager(testKey, time.Hour)
	token, err := m.Issue("profile-1", "user-1", "manager", "")
	require.NoError(t, err)

	claims, err := m.Validate(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "manager", claims.Role)
}

func TestValidateExpired(t *testing.T) {
	m := NewManager(testKey, time.Minute)
	issuedAt := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issuedAt }
	token, err := m.Issue("profile-1", "user-1", "admin", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token.AccessToken)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestValidateWrongKey(t *testing.T) {
	token, err := NewManager(testKey, time.Hour).Issue("profile-1", "user-1", "admin", "")
	require.NoError(t, err)

	_, err = NewManager("ffffffffffffffffffffffffffffffff", time.Hour).Validate(token.AccessToken)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{ProfileID: "profile-1", Role: "super_admin", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager(testKey, time.Hour).Validate(raw)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestValidateGarbage(t *testing.T) {
	_, err := NewManager(testKey, time.Hour).Validate("not.a.token")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("pump-secret")
	require.NoError(t, err)

	assert.NoError(t, CheckPassword(hash, "pump-secret"))
	assert.True(t, errors.Is(CheckPassword(hash, "wrong"), ErrInvalidCredentials))
}
