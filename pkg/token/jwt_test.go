package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	signed, err := svc.Generate(5)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	id, err := svc.VeterinarianID(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(5), id)
}

func TestJWTService_SubjectEncodesIdentity(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	signed, err := svc.Generate(5)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "V5", claims.Subject)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	signed, err := NewJWTService("other-secret", time.Hour).Generate(5)
	require.NoError(t, err)

	_, err = NewJWTService(testSecret, time.Hour).VeterinarianID(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	signed, err := svc.Generate(5)
	require.NoError(t, err)

	_, err = svc.VeterinarianID(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsMalformedToken(t *testing.T) {
	svc := NewJWTService(testSecret, time.Hour)

	_, err := svc.VeterinarianID("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_RejectsForeignSubject(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "owner-5",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := NewJWTService(testSecret, time.Hour)
	_, err = svc.VeterinarianID(signed)
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "V5",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc := NewJWTService(testSecret, time.Hour)
	_, err = svc.VeterinarianID(signed)
	assert.Error(t, err)
}
