package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/carelink/carelink-api/internal/domain"
	"github.com/carelink/carelink-api/pkg/auth"
	"github.com/carelink/carelink-api/pkg/metrics"
	"github.com/carelink/carelink-api/pkg/oauth"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	RecordLogin(ctx context.Context, id uuid.UUID) error
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
}

// AuthResult is what every successful authentication path returns.
type AuthResult struct {
	User   *domain.User      `json:"user"`
	Tokens *domain.TokenPair `json:"tokens"`
}

// GoogleCallbackResult distinguishes a returning identity (Tokens set) from
// a first-time one (RegistrationToken set, role still to be chosen).
type GoogleCallbackResult struct {
	Result            *AuthResult
	RegistrationToken string
}

type AuthService struct {
	userRepo   UserRepository
	jwtManager *auth.JWTManager
	google     oauth.Provider
	auditSvc   *AuditService
	metrics    *metrics.Collector
	log        *zap.Logger
}

func NewAuthService(
	userRepo UserRepository,
	jwtManager *auth.JWTManager,
	google oauth.Provider,
	auditSvc *AuditService,
	collector *metrics.Collector,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		google:     google,
		auditSvc:   auditSvc,
		metrics:    collector,
		log:        log,
	}
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

func (s *AuthService) Register(ctx context.Context, cmd *RegisterCommand, ip string) (*AuthResult, error) {
	if err := requireFields(map[string]string{
		"name":     cmd.Name,
		"email":    cmd.Email,
		"password": cmd.Password,
	}); err != nil {
		return nil, err
	}
	if !cmd.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}
	if len(cmd.Password) < 8 {
		return nil, &ValidationError{Fields: []string{"password must be at least 8 characters"}}
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(cmd.Name),
		Phone:        strings.TrimSpace(cmd.Phone),
		Role:         cmd.Role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, err
		}
		s.log.Error("failed to create user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.UsersRegisteredTotal.Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: user.ID, UserRole: string(user.Role),
		Action: "create", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
	})
	s.log.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return s.issueTokens(user)
}

func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Use bcrypt dummy hash to prevent timing-based user enumeration.
		// An attacker measuring response time should not be able to determine
		// whether the email exists in the system.
		_, _ = bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if !user.HasPassword() {
		return nil, ErrOAuthAccount
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login attempt",
			zap.String("email", email),
			zap.String("ip", ip),
		)
		return nil, ErrInvalidCredentials
	}

	_ = s.userRepo.RecordLogin(ctx, user.ID)

	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: user.ID, UserRole: string(user.Role),
		Action: "login", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
	})
	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("ip", ip),
	)

	return s.issueTokens(user)
}

// RefreshToken issues a new token pair given a valid refresh token.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Re-validate user is still active
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// GoogleAuthURL builds the consent URL for the SPA to redirect to.
func (s *AuthService) GoogleAuthURL(state string) string {
	return s.google.AuthCodeURL(state)
}

// HandleGoogleCallback exchanges the authorization code and resolves the
// provider identity against local accounts, matching by Google ID first and
// email second. Unknown identities get a registration token instead of a
// session.
func (s *AuthService) HandleGoogleCallback(ctx context.Context, code, ip string) (*GoogleCallbackResult, error) {
	profile, err := s.google.Exchange(ctx, code)
	if err != nil {
		s.log.Warn("google code exchange failed", zap.Error(err))
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByGoogleID(ctx, profile.ID)
	if err != nil {
		user, err = s.userRepo.GetByEmail(ctx, strings.ToLower(profile.Email))
		if err == nil {
			// Existing password account; link the provider identity to it.
			if linkErr := s.userRepo.LinkGoogleID(ctx, user.ID, profile.ID); linkErr != nil {
				s.log.Error("failed to link google identity", zap.Error(linkErr))
				return nil, fmt.Errorf("linking google identity: %w", linkErr)
			}
		}
	}

	if user != nil && err == nil {
		if !user.IsActive {
			return nil, ErrAccountInactive
		}
		_ = s.userRepo.RecordLogin(ctx, user.ID)
		s.auditSvc.LogAsync(ctx, AuditEntry{
			UserID: user.ID, UserRole: string(user.Role),
			Action: "login", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
		})
		result, err := s.issueTokens(user)
		if err != nil {
			return nil, err
		}
		return &GoogleCallbackResult{Result: result}, nil
	}

	regToken, err := s.jwtManager.GenerateRegistrationToken(&domain.PendingRegistration{
		GoogleID: profile.ID,
		Email:    strings.ToLower(profile.Email),
		Name:     profile.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("generating registration token: %w", err)
	}

	return &GoogleCallbackResult{RegistrationToken: regToken}, nil
}

// CompleteRegistration materializes a user for a pending Google identity
// once a role has been chosen.
func (s *AuthService) CompleteRegistration(ctx context.Context, regToken string, role domain.Role, ip string) (*AuthResult, error) {
	pending, err := s.jwtManager.ValidateRegistrationToken(regToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	googleID := pending.GoogleID
	user := &domain.User{
		Email:    pending.Email,
		Name:     pending.Name,
		Role:     role,
		GoogleID: &googleID,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyRegistered) {
			return nil, err
		}
		s.log.Error("failed to create oauth user", zap.Error(err))
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.metrics != nil {
		s.metrics.UsersRegisteredTotal.Inc()
	}
	s.auditSvc.LogAsync(ctx, AuditEntry{
		UserID: user.ID, UserRole: string(user.Role),
		Action: "create", ResourceType: "user", ResourceID: user.ID.String(), IPAddress: ip,
	})

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *domain.User) (*AuthResult, error) {
	pair, err := s.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		s.log.Error("failed to generate token pair", zap.Error(err))
		return nil, fmt.Errorf("generating tokens: %w", err)
	}
	return &AuthResult{User: user, Tokens: pair}, nil
}
