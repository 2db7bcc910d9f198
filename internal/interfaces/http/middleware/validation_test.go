package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bulkRequest struct {
	StartDate string `json:"startDate" binding:"required,datetime=2006-01-02"`
	Mode      string `json:"mode" binding:"omitempty,oneof=with-completion plain"`
	Group     string `json:"group" binding:"omitempty,notblank"`
}

func validationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/bulk", func(c *gin.Context) {
		var req bulkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/bulk", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	w := postJSON(validationRouter(), `{"startDate": "03/01/2024", "mode": "all", "group": "   "}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	messages := map[string]string{}
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Must be a date in YYYY-MM-DD format", messages["startDate"])
	assert.Equal(t, "Must be one of: with-completion plain", messages["mode"])
	assert.Equal(t, "Must not be blank", messages["group"])
}

func TestHandleValidationError_Required(t *testing.T) {
	w := postJSON(validationRouter(), `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "startDate", resp.Error.Details[0].Field)
	assert.Equal(t, "This field is required", resp.Error.Details[0].Message)
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	w := postJSON(validationRouter(), `{"startDate":`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestSetupValidator_Accepts(t *testing.T) {
	w := postJSON(validationRouter(), `{"startDate": "2024-03-01", "mode": "plain", "group": "North"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
