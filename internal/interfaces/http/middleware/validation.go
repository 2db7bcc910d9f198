package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var setupOnce sync.Once

// SetupValidator configures gin's validator: errors name fields by their json/form tag
// and the notblank tag rejects whitespace-only strings
func SetupValidator() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return true
			}
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// ValidationDetails converts validator errors into per-field details.
// Errors that are not validation errors (malformed JSON and the like) yield nil.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   e.Field(),
			Message: validationMessage(e),
		})
	}
	return details
}

// HandleValidationError writes a 400 validation error response for a binding error
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString(RequestIDKey)
	details := ValidationDetails(err)
	if details == nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, "Invalid request body", requestID))
		return
	}
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse("Request validation failed", requestID, details))
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "notblank":
		return "Must not be blank"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		if e.Kind() == reflect.Slice {
			return "Must contain at most " + e.Param() + " items"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "datetime":
		if e.Param() == "2006-01-02" {
			return "Must be a date in YYYY-MM-DD format"
		}
		return "Must match the format " + e.Param()
	default:
		return "Invalid value"
	}
}
