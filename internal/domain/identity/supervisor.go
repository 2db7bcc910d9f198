package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/fieldops/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Supervisor is a dashboard user who owns technicians and their attendance
type Supervisor struct {
	shared.BaseAggregateRoot
	Email        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	PasswordHash string `gorm:"type:varchar(200);not null"`
	Active       bool   `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (Supervisor) TableName() string {
	return "supervisors"
}

// NewSupervisor creates an active supervisor with a hashed password
func NewSupervisor(email, name, password string) (*Supervisor, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &Supervisor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		PasswordHash:      hash,
		Active:            true,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (s *Supervisor) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(password)) == nil
}

// CanLogin reports whether the supervisor may sign in
func (s *Supervisor) CanLogin() bool {
	return s.Active
}

// RecordLogin stamps a successful sign-in
func (s *Supervisor) RecordLogin() {
	now := time.Now()
	s.LastLoginAt = &now
	s.UpdatedAt = now
}

// Deactivate blocks further sign-ins
func (s *Supervisor) Deactivate() {
	s.Active = false
	s.MarkModified()
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		// bcrypt only looks at the first 72 bytes
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
