package service

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edulytics/grade-analytics-api/internal/models"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	return NewAuthService(validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "test-signing-secret",
		Expiration: time.Hour,
		Issuer:     "grade-analytics-api",
		Clients: []string{
			"extension:" + string(hash),
			"malformed-entry",
		},
	})
}

func TestAuthServiceToken(t *testing.T) {
	svc := newTestAuthService(t)

	res, err := svc.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "s3cret"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)
	assert.Equal(t, int64(3600), res.ExpiresIn)
}

func TestAuthServiceTokenUnknownClient(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Token(models.TokenRequest{ClientID: "nobody", ClientSecret: "s3cret"})
	assert.Error(t, err)
}

func TestAuthServiceTokenWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "wrong"})
	assert.Error(t, err)
}

func TestAuthServiceTokenMissingFields(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Token(models.TokenRequest{ClientID: "extension"})
	assert.Error(t, err)
}

func TestAuthServiceMalformedClientEntrySkipped(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Token(models.TokenRequest{ClientID: "malformed-entry", ClientSecret: "anything"})
	assert.Error(t, err)
}

func TestAuthServiceVerifyRoundtrip(t *testing.T) {
	svc := newTestAuthService(t)

	res, err := svc.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "s3cret"})
	require.NoError(t, err)

	claims, err := svc.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "extension", claims.ClientID)
	assert.Equal(t, "grade-analytics-api", claims.Issuer)
}

func TestAuthServiceVerifyRejectsTamperedToken(t *testing.T) {
	svc := newTestAuthService(t)

	res, err := svc.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "s3cret"})
	require.NoError(t, err)

	tampered := res.AccessToken[:len(res.AccessToken)-2] + "xx"
	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestAuthServiceVerifyRejectsForeignSignature(t *testing.T) {
	svc := newTestAuthService(t)

	other := NewAuthService(validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "a-different-secret",
		Expiration: time.Hour,
		Issuer:     "grade-analytics-api",
		Clients:    svc.config.Clients,
	})

	res, err := other.Token(models.TokenRequest{ClientID: "extension", ClientSecret: "s3cret"})
	require.NoError(t, err)

	_, err = svc.Verify(res.AccessToken)
	assert.Error(t, err)
}

func TestAuthServiceVerifyRejectsGarbage(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Verify("not-a-token")
	assert.Error(t, err)
}
