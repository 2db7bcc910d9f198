package handler

import (
	"github.com/fieldops/backend/internal/application/identity"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles supervisor authentication
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LogoutResponse is returned after a successful logout
type LogoutResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Login godoc
// @Summary      Supervisor login
// @Description  Authenticate a supervisor with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body identity.LoginInput true "Login credentials"
// @Success      200 {object} dto.Response{data=identity.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout godoc
// @Summary      Supervisor logout
// @Description  Revoke the current access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=LogoutResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}

	input := identity.LogoutInput{SupervisorID: supervisorID}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		if claims.ExpiresAt != nil {
			input.ExpiresAt = claims.ExpiresAt.Time
		}
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, LogoutResponse{Message: "Logged out successfully"})
}

// Me godoc
// @Summary      Current supervisor
// @Description  Return the supervisor the access token belongs to
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=identity.SupervisorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}

	info, err := h.authService.GetCurrentSupervisor(c.Request.Context(), supervisorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
