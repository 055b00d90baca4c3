package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain"
)

func testManager(accessTTL time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:               "test-secret-at-least-32-characters!!",
		AccessTokenTTL:       accessTTL,
		RefreshTokenTTL:      24 * time.Hour,
		RegistrationTokenTTL: 10 * time.Minute,
		Issuer:               "carelink-test",
	})
}

func TestTokenPairRoundtrip(t *testing.T) {
	m := testManager(15 * time.Minute)
	in := &domain.Claims{UserID: uuid.New(), Email: "a@b.com", Role: domain.RoleDoctor}

	pair, err := m.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.ExpiresAt.After(time.Now()))

	out, err := m.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Role, out.Role)

	refreshed, err := m.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, in.UserID, refreshed.UserID)
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager(15 * time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Email: "a@b.com", Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestExpiredToken(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Email: "a@b.com", Role: domain.RolePatient})
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager(15 * time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Email: "a@b.com", Role: domain.RolePatient})
	require.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{
		Secret:         "another-secret-also-32-characters!!!",
		AccessTokenTTL: 15 * time.Minute,
		Issuer:         "carelink-test",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRegistrationTokenRoundtrip(t *testing.T) {
	m := testManager(15 * time.Minute)

	token, err := m.GenerateRegistrationToken(&domain.PendingRegistration{
		GoogleID: "google-abc",
		Email:    "new@example.com",
		Name:     "New User",
	})
	require.NoError(t, err)

	pending, err := m.ValidateRegistrationToken(token)
	require.NoError(t, err)
	assert.Equal(t, "google-abc", pending.GoogleID)
	assert.Equal(t, "new@example.com", pending.Email)
	assert.Equal(t, "New User", pending.Name)

	// Registration tokens are not session tokens.
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}
