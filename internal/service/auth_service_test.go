package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carelink/carelink-api/internal/config"
	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/internal/repository/memory"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/oauth"
)

type fakeGoogleProvider struct {
	profile *oauth.Profile
	err     error
}

func (f *fakeGoogleProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/consent?state=" + state
}

func (f *fakeGoogleProvider) Exchange(_ context.Context, _ string) (*oauth.Profile, error) {
	return f.profile, f.err
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager(config.JWTConfig{
		Secret:               "test-secret-at-least-32-characters!!",
		AccessTokenTTL:       15 * time.Minute,
		RefreshTokenTTL:      7 * 24 * time.Hour,
		RegistrationTokenTTL: 10 * time.Minute,
		Issuer:               "carelink-test",
	})
}

func newTestAuditService(t *testing.T) *AuditService {
	t.Helper()
	svc := NewAuditService(memory.NewAuditRepository(), zap.NewNop(), nil)
	t.Cleanup(svc.Shutdown)
	return svc
}

func newTestAuthService(t *testing.T, google oauth.Provider) (*AuthService, *memory.UserRepository) {
	t.Helper()
	userRepo := memory.NewUserRepository()
	svc := NewAuthService(userRepo, testJWTManager(), google, newTestAuditService(t), nil, zap.NewNop())
	return svc, userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t, &fakeGoogleProvider{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterCommand{
		Name:     "Asha Rao",
		Email:    "Asha@Example.com",
		Password: "correct-horse",
		Role:     domain.RolePatient,
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", registered.User.Email)
	assert.NotEmpty(t, registered.Tokens.AccessToken)
	assert.NotEmpty(t, registered.Tokens.RefreshToken)

	loggedIn, err := svc.Login(ctx, "asha@example.com", "correct-horse", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, &fakeGoogleProvider{})
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  *RegisterCommand
	}{
		{"missing email", &RegisterCommand{Name: "A", Password: "longenough", Role: domain.RolePatient}},
		{"short password", &RegisterCommand{Name: "A", Email: "a@b.com", Password: "short", Role: domain.RolePatient}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.cmd, "127.0.0.1")
			var validErr *ValidationError
			assert.ErrorAs(t, err, &validErr)
		})
	}

	_, err := svc.Register(ctx, &RegisterCommand{
		Name: "A", Email: "a@b.com", Password: "longenough", Role: domain.Role("SUPERUSER"),
	}, "127.0.0.1")
	assert.ErrorIs(t, err, domain.ErrInvalidRole)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, &fakeGoogleProvider{})
	ctx := context.Background()

	cmd := &RegisterCommand{Name: "A", Email: "dup@example.com", Password: "longenough", Role: domain.RolePatient}
	_, err := svc.Register(ctx, cmd, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, cmd, "127.0.0.1")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyRegistered)
}

// Unknown email and wrong password must be indistinguishable to the caller.
func TestLoginUndifferentiatedFailure(t *testing.T) {
	svc, _ := newTestAuthService(t, &fakeGoogleProvider{})
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterCommand{
		Name: "A", Email: "known@example.com", Password: "longenough", Role: domain.RolePatient,
	}, "127.0.0.1")
	require.NoError(t, err)

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "whatever", "127.0.0.1")
	_, errWrongPw := svc.Login(ctx, "known@example.com", "wrong-password", "127.0.0.1")

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	google := &fakeGoogleProvider{profile: &oauth.Profile{
		ID: "google-123", Email: "oauth@example.com", Name: "OAuth User", VerifiedEmail: true,
	}}
	svc, _ := newTestAuthService(t, google)
	ctx := context.Background()

	cb, err := svc.HandleGoogleCallback(ctx, "any-code", "127.0.0.1")
	require.NoError(t, err)
	require.NotEmpty(t, cb.RegistrationToken)

	result, err := svc.CompleteRegistration(ctx, cb.RegistrationToken, domain.RolePatient, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "oauth@example.com", result.User.Email)

	_, err = svc.Login(ctx, "oauth@example.com", "any-password", "127.0.0.1")
	assert.ErrorIs(t, err, ErrOAuthAccount)
}

func TestGoogleCallbackKnownIdentity(t *testing.T) {
	google := &fakeGoogleProvider{profile: &oauth.Profile{
		ID: "google-456", Email: "ret@example.com", Name: "Returning", VerifiedEmail: true,
	}}
	svc, _ := newTestAuthService(t, google)
	ctx := context.Background()

	cb, err := svc.HandleGoogleCallback(ctx, "code", "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.CompleteRegistration(ctx, cb.RegistrationToken, domain.RoleDoctor, "127.0.0.1")
	require.NoError(t, err)

	// Second callback for the same identity goes straight to a session.
	cb2, err := svc.HandleGoogleCallback(ctx, "code", "127.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, cb2.RegistrationToken)
	require.NotNil(t, cb2.Result)
	assert.Equal(t, domain.RoleDoctor, cb2.Result.User.Role)
}

func TestGoogleCallbackLinksExistingEmail(t *testing.T) {
	google := &fakeGoogleProvider{profile: &oauth.Profile{
		ID: "google-789", Email: "linked@example.com", Name: "Linked", VerifiedEmail: true,
	}}
	svc, userRepo := newTestAuthService(t, google)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterCommand{
		Name: "Linked", Email: "linked@example.com", Password: "longenough", Role: domain.RolePatient,
	}, "127.0.0.1")
	require.NoError(t, err)

	cb, err := svc.HandleGoogleCallback(ctx, "code", "127.0.0.1")
	require.NoError(t, err)
	assert.Empty(t, cb.RegistrationToken)
	assert.Equal(t, registered.User.ID, cb.Result.User.ID)

	linked, err := userRepo.GetByGoogleID(ctx, "google-789")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, linked.ID)
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestAuthService(t, &fakeGoogleProvider{})
	ctx := context.Background()

	registered, err := svc.Register(ctx, &RegisterCommand{
		Name: "R", Email: "refresh@example.com", Password: "longenough", Role: domain.RolePatient,
	}, "127.0.0.1")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, registered.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, refreshed.User.ID)

	// The access token is not accepted in place of the refresh token.
	_, err = svc.RefreshToken(ctx, registered.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
