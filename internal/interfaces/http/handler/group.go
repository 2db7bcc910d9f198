package handler

import (
	"github.com/fieldops/backend/internal/application/workforce"
	"github.com/gin-gonic/gin"
)

// GroupHandler handles technician groups. Mutations answer with the full
// name-sorted list so the dashboard can redraw in one round trip.
type GroupHandler struct {
	BaseHandler
	service *workforce.GroupService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(service *workforce.GroupService) *GroupHandler {
	return &GroupHandler{service: service}
}

// List godoc
// @Summary      List groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=[]workforce.GroupResponse}
// @Router       /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// Add godoc
// @Summary      Add group
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body workforce.GroupRequest true "Group"
// @Success      201 {object} dto.Response{data=[]workforce.GroupResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /groups [post]
func (h *GroupHandler) Add(c *gin.Context) {
	var req workforce.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	groups, err := h.service.Add(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, groups)
}

// Update godoc
// @Summary      Rename group
// @Description  The Unassigned group cannot be renamed
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID" format(uuid)
// @Param        request body workforce.GroupRequest true "Group"
// @Success      200 {object} dto.Response{data=[]workforce.GroupResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "group")
	if !ok {
		return
	}
	var req workforce.GroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	groups, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, groups)
}

// Remove godoc
// @Summary      Delete group
// @Description  Members move to the Unassigned group in the same transaction
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Group ID" format(uuid)
// @Success      200 {object} dto.Response{data=workforce.RemoveGroupResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /groups/{id} [delete]
func (h *GroupHandler) Remove(c *gin.Context) {
	id, ok := h.pathID(c, "group")
	if !ok {
		return
	}

	result, err := h.service.Remove(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
