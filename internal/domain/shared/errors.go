package shared

import "fmt"

// DomainError is a business rule violation with a stable, machine-readable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NotFound is ErrNotFound with a message naming what was missing
func NotFound(format string, args ...any) *DomainError {
	return NewDomainError(ErrNotFound.Code, fmt.Sprintf(format, args...))
}

// AlreadyExists is ErrAlreadyExists with a specific message
func AlreadyExists(format string, args ...any) *DomainError {
	return NewDomainError(ErrAlreadyExists.Code, fmt.Sprintf(format, args...))
}

var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)
