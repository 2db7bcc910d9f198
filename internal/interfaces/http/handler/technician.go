package handler

import (
	"github.com/fieldops/backend/internal/application/workforce"
	"github.com/gin-gonic/gin"
)

// TechnicianHandler handles the supervisor's technician roster.
// Every operation is scoped to the authenticated supervisor.
type TechnicianHandler struct {
	BaseHandler
	service *workforce.TechnicianService
}

// NewTechnicianHandler creates a new TechnicianHandler
func NewTechnicianHandler(service *workforce.TechnicianService) *TechnicianHandler {
	return &TechnicianHandler{service: service}
}

// Create godoc
// @Summary      Add technician
// @Description  A technician without group_id joins the Unassigned group
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body workforce.CreateTechnicianRequest true "Technician"
// @Success      201 {object} dto.Response{data=workforce.TechnicianResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /technicians [post]
func (h *TechnicianHandler) Create(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var req workforce.CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	tech, err := h.service.Create(c.Request.Context(), supervisorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tech)
}

// GetByID godoc
// @Summary      Get technician
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Technician ID" format(uuid)
// @Success      200 {object} dto.Response{data=workforce.TechnicianResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /technicians/{id} [get]
func (h *TechnicianHandler) GetByID(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "technician")
	if !ok {
		return
	}

	tech, err := h.service.GetByID(c.Request.Context(), supervisorID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tech)
}

// List godoc
// @Summary      List technicians
// @Tags         technicians
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Name, email or phone"
// @Param        group_id query string false "Group ID" format(uuid)
// @Param        active_only query bool false "Only active technicians"
// @Param        order_by query string false "Sort column" Enums(name, email, created_at, updated_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]workforce.TechnicianResponse,meta=dto.Meta}
// @Router       /technicians [get]
func (h *TechnicianHandler) List(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var filter workforce.TechnicianListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	techs, total, err := h.service.List(c.Request.Context(), supervisorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, techs, total, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
}

// Update godoc
// @Summary      Update technician
// @Tags         technicians
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Technician ID" format(uuid)
// @Param        request body workforce.UpdateTechnicianRequest true "Changed fields"
// @Success      200 {object} dto.Response{data=workforce.TechnicianResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /technicians/{id} [put]
func (h *TechnicianHandler) Update(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "technician")
	if !ok {
		return
	}
	var req workforce.UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	tech, err := h.service.Update(c.Request.Context(), supervisorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tech)
}

// Delete godoc
// @Summary      Remove technician
// @Tags         technicians
// @Security     BearerAuth
// @Param        id path string true "Technician ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /technicians/{id} [delete]
func (h *TechnicianHandler) Delete(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "technician")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), supervisorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
