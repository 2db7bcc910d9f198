package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/fieldops/backend/internal/application/material"
	"github.com/gin-gonic/gin"
)

// XLSXContentType is the media type of exported workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaterialHandler handles material usage items
type MaterialHandler struct {
	BaseHandler
	service *material.MaterialService
	now     func() time.Time
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(service *material.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: service, now: time.Now}
}

// Create godoc
// @Summary      Add material item
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body material.ItemRequest true "Item"
// @Success      201 {object} dto.Response{data=material.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req material.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// GetByID godoc
// @Summary      Get material item
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=material.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /materials/{id} [get]
func (h *MaterialHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "material")
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @Summary      Replace material item
// @Tags         materials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body material.ItemRequest true "Item"
// @Success      200 {object} dto.Response{data=material.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "material")
	if !ok {
		return
	}
	var req material.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @Summary      Delete material item
// @Tags         materials
// @Security     BearerAuth
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Router       /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "material")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// List godoc
// @Summary      List material items
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "Raw type"
// @Param        work_order_id query string false "Work order ID" format(uuid)
// @Param        search query string false "Type search"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]material.ItemResponse,meta=dto.Meta}
// @Router       /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	var filter material.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	items, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
}

// Summary godoc
// @Summary      Quantity per label
// @Tags         materials
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "Raw type"
// @Param        work_order_id query string false "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]material.SummaryResponse}
// @Router       /materials/summary [get]
func (h *MaterialHandler) Summary(c *gin.Context) {
	var filter material.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Export godoc
// @Summary      Export materials to XLSX
// @Tags         materials
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        type query string false "Raw type"
// @Param        work_order_id query string false "Work order ID" format(uuid)
// @Success      200 {file} file
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /materials/export [get]
func (h *MaterialHandler) Export(c *gin.Context) {
	var filter material.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), filter, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("materials-%s.xlsx", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, XLSXContentType, buf.Bytes())
}
