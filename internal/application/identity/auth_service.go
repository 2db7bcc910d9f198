package identity

import (
	"context"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/identity"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles supervisor authentication
type AuthService struct {
	supervisorRepo identity.SupervisorRepository
	jwtService     *auth.JWTService
	blacklist      auth.TokenBlacklist
	logger         *zap.Logger
	now            func() time.Time
}

// NewAuthService creates a new authentication service. blacklist may be nil, which makes logout client-side only.
func NewAuthService(
	supervisorRepo identity.SupervisorRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		supervisorRepo: supervisorRepo,
		jwtService:     jwtService,
		blacklist:      blacklist,
		logger:         logger,
		now:            time.Now,
	}
}

// Login verifies the supervisor's credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email))

	supervisor, err := s.supervisorRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("Supervisor not found during login", zap.String("email", email))
		return nil, invalidCredentials()
	}

	if !supervisor.CanLogin() {
		s.logger.Warn("Login attempt for deactivated supervisor", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !supervisor.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, invalidCredentials()
	}

	token, err := s.jwtService.GenerateAccessToken(supervisor.ID, supervisor.Email)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	supervisor.RecordLogin()
	if err := s.supervisorRepo.Save(ctx, supervisor); err != nil {
		// the token is already issued
		s.logger.Error("Failed to update supervisor after successful login", zap.Error(err))
	}

	s.logger.Info("Supervisor logged in",
		zap.String("email", email),
		zap.String("user_id", supervisor.ID.String()))

	return &LoginResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		Supervisor:  ToSupervisorInfo(supervisor),
	}, nil
}

// Logout revokes the current token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Supervisor logout", zap.String("user_id", input.SupervisorID.String()))

	if s.blacklist == nil || input.TokenJTI == "" {
		return nil
	}
	ttl := input.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	return nil
}

// GetCurrentSupervisor returns the signed-in supervisor
func (s *AuthService) GetCurrentSupervisor(ctx context.Context, supervisorID uuid.UUID) (*SupervisorInfo, error) {
	supervisor, err := s.supervisorRepo.FindByID(ctx, supervisorID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "Supervisor not found")
	}
	if !supervisor.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}
	info := ToSupervisorInfo(supervisor)
	return &info, nil
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
}
