package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/fieldops/backend/internal/domain/routing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/fieldops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindingError reports a request binding failure with per-field details
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts domain, routing and context errors into the response envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	switch {
	case errors.As(err, &domainErr):
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
	case errors.Is(err, routing.ErrAPIKeyNotConfigured):
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeRoutingNotConfigured, "Routing API key is not configured")
	case errors.Is(err, routing.ErrUpstreamUnavailable):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamUnavailable, "Routing API temporarily unavailable")
	case errors.Is(err, routing.ErrUpstreamRequestFailed), errors.Is(err, routing.ErrInvalidResponse):
		h.Error(c, http.StatusBadGateway, dto.ErrCodeUpstreamFailed, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.Error(c, http.StatusGatewayTimeout, dto.ErrCodeTimeout, "Request timed out")
	default:
		logger.FromContext(c.Request.Context()).Error("Unhandled error", zap.Error(err))
		h.InternalError(c, "An unexpected error occurred")
	}
}

// supervisorID returns the authenticated supervisor or writes a 401
func (h *BaseHandler) supervisorID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetSupervisorID(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
	}
	return id, ok
}

// pathID parses the :id parameter or writes a 400
func (h *BaseHandler) pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid "+what+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt reads a positive integer query value, falling back to def
func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
