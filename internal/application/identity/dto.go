package identity

import (
	"time"

	"github.com/fieldops/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput contains the input for supervisor login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	ExpiresAt   time.Time      `json:"expires_at"`
	TokenType   string         `json:"token_type"`
	Supervisor  SupervisorInfo `json:"supervisor"`
}

// SupervisorInfo contains the supervisor fields shown by the dashboard
type SupervisorInfo struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// LogoutInput contains the input for supervisor logout
type LogoutInput struct {
	SupervisorID uuid.UUID
	TokenJTI     string
	ExpiresAt    time.Time
}

// ToSupervisorInfo converts a domain Supervisor
func ToSupervisorInfo(s *identity.Supervisor) SupervisorInfo {
	return SupervisorInfo{
		ID:          s.ID,
		Email:       s.Email,
		Name:        s.Name,
		LastLoginAt: s.LastLoginAt,
	}
}
