package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-32-bytes-should-be-long-enough"

func TestIssueAndVerify(t *testing.T) {
	v, err := NewTokenVerifier(testSecret, time.Hour)
	require.NoError(t, err)

	userID := primitive.NewObjectID()
	token, err := v.Issue(userID)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestNewTokenVerifierRequiresSecret(t *testing.T) {
	_, err := NewTokenVerifier("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyFailures(t *testing.T) {
	v, err := NewTokenVerifier(testSecret, time.Hour)
	require.NoError(t, err)
	other, err := NewTokenVerifier("secret-one-32-bytes-xxxxxxxxxxxxxxxx", time.Hour)
	require.NoError(t, err)

	foreign, err := other.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	expiredIssuer, err := NewTokenVerifier(testSecret, time.Hour)
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: primitive.NewObjectID().Hex()}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	badID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		ID:               "not-an-object-id",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.jwt", ErrMalformedToken},
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", expired, ErrExpiredToken},
		{"no expiry", noExp, ErrInvalidToken},
		{"non object id subject", badID, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	token, err = BearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	_, err = BearerToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = BearerToken("Token abc")
	assert.ErrorIs(t, err, ErrMalformedToken)

	_, err = BearerToken("Bearer   ")
	assert.ErrorIs(t, err, ErrMissingToken)
}
