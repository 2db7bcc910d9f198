package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fieldops/backend/internal/infrastructure/auth"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// TokenBlacklist is optional; revoked token ids are rejected
	TokenBlacklist auth.TokenBlacklist
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/api/v1/health",
			"/api/v1/auth/login",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config.
// CORS preflight requests are never authenticated.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || skipped(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		tokenString, reason := bearerToken(c)
		if reason != "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, reason)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.TokenBlacklist != nil && claims.ID != "" {
			blacklisted, err := cfg.TokenBlacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			switch {
			case err != nil:
				// fail open
				if cfg.Logger != nil {
					cfg.Logger.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
				}
			case blacklisted:
				handleAuthError(c, cfg, auth.ErrTokenBlacklisted, "Token has been revoked")
				return
			}
		}

		setClaims(c, claims)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func skipped(cfg JWTMiddlewareConfig, path string) bool {
	for _, p := range cfg.SkipPaths {
		if path == p {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken returns the token of the Authorization header, or a reason it is unusable
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(AuthHeaderKey)
	if header == "" {
		return "", "Missing authorization header"
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", "Invalid authorization header format"
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", "Missing token"
	}
	return token, ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTUsernameKey, claims.Username)
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		errorCode = "TOKEN_REVOKED"
		errorMessage = "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrMissingUserID):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	}

	abortWithError(c, http.StatusUnauthorized, errorCode, errorMessage)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTUsername retrieves the username from JWT claims in context
func GetJWTUsername(c *gin.Context) string {
	return c.GetString(JWTUsernameKey)
}

// GetSupervisorID returns the authenticated supervisor's id
func GetSupervisorID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(GetJWTUserID(c))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
