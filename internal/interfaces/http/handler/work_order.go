package handler

import (
	"fmt"
	"net/http"

	"github.com/fieldops/backend/internal/application/workorder"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WorkOrderHandler handles work order review endpoints
type WorkOrderHandler struct {
	BaseHandler
	service *workorder.WorkOrderService
}

// NewWorkOrderHandler creates a new WorkOrderHandler
func NewWorkOrderHandler(service *workorder.WorkOrderService) *WorkOrderHandler {
	return &WorkOrderHandler{service: service}
}

// Create godoc
// @Summary      Create work order
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body workorder.CreateWorkOrderRequest true "Work order"
// @Success      201 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders [post]
func (h *WorkOrderHandler) Create(c *gin.Context) {
	var req workorder.CreateWorkOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	wo, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wo)
}

// GetByID godoc
// @Summary      Get work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	wo, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// List godoc
// @Summary      List work orders
// @Description  Filtered, table-sorted and paginated work orders. Without sort_field the list is newest service date first.
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Order number or external id"
// @Param        status query string false "Status" Enums(approved, pending_review, flagged)
// @Param        technician_id query string false "Technician ID" format(uuid)
// @Param        date_from query string false "Service date from (YYYY-MM-DD)"
// @Param        date_to query string false "Service date to (YYYY-MM-DD)"
// @Param        sort_field query string false "Sort column" Enums(order_no, service_date, driver, location, status)
// @Param        sort_direction query string false "Sort direction" Enums(asc, desc)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]workorder.WorkOrderResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders [get]
func (h *WorkOrderHandler) List(c *gin.Context) {
	var filter workorder.ListWorkOrdersFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	orders, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, orders, total, queryInt(c, "page", 1), queryInt(c, "page_size", 20))
}

// Delete godoc
// @Summary      Delete work order
// @Tags         work-orders
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id} [delete]
func (h *WorkOrderHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateStatus godoc
// @Summary      Change work order status
// @Description  Setting the status the order already has is rejected with INVALID_STATE
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body workorder.UpdateStatusRequest true "New status"
// @Success      200 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/status [put]
func (h *WorkOrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}
	var req workorder.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	wo, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// Approve godoc
// @Summary      Approve work order
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/approve [post]
func (h *WorkOrderHandler) Approve(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	wo, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// Flag godoc
// @Summary      Flag work order for follow-up
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/flag [post]
func (h *WorkOrderHandler) Flag(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	wo, err := h.service.Flag(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// UpdateResolutionNotes godoc
// @Summary      Save resolution notes
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body workorder.UpdateResolutionNotesRequest true "Notes"
// @Success      200 {object} dto.Response{data=workorder.WorkOrderResponse}
// @Router       /work-orders/{id}/resolution-notes [put]
func (h *WorkOrderHandler) UpdateResolutionNotes(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}
	var req workorder.UpdateResolutionNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	wo, err := h.service.UpdateResolutionNotes(c.Request.Context(), id, req.ResolutionNotes)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, wo)
}

// StatusCounts godoc
// @Summary      Work order counts per status
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.Response{data=workorder.StatusCountsResponse}
// @Router       /work-orders/status-counts [get]
func (h *WorkOrderHandler) StatusCounts(c *gin.Context) {
	counts, err := h.service.StatusCounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Navigate godoc
// @Summary      Previous and next work order
// @Description  Neighbours of current_id within the list the supervisor is reviewing
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body workorder.NavigateRequest true "Reviewed list"
// @Success      200 {object} dto.Response{data=workorder.NavigateResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/navigate [post]
func (h *WorkOrderHandler) Navigate(c *gin.Context) {
	var req workorder.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	pos, err := h.service.Navigate(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pos)
}

// SortState godoc
// @Summary      Next table sort state
// @Description  Cycles a column through ascending, descending and unsorted
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body workorder.SortStateRequest true "Header click"
// @Success      200 {object} dto.Response{data=workorder.SortStateResponse}
// @Router       /work-orders/sort-state [post]
func (h *WorkOrderHandler) SortState(c *gin.Context) {
	var req workorder.SortStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	state, err := h.service.NextSortState(req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, state)
}

// ListImages godoc
// @Summary      Work order photos
// @Tags         work-orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]workorder.ImageResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/images [get]
func (h *WorkOrderHandler) ListImages(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	images, err := h.service.ListImages(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// CreateUploadURL godoc
// @Summary      Presigned photo upload URL
// @Tags         work-orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Param        request body workorder.UploadURLRequest true "File"
// @Success      201 {object} dto.Response{data=workorder.UploadURLResponse}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/images/upload-url [post]
func (h *WorkOrderHandler) CreateUploadURL(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}
	var req workorder.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	upload, err := h.service.CreateUploadURL(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, upload)
}

// DownloadImages godoc
// @Summary      Download all photos as zip
// @Tags         work-orders
// @Produce      application/zip
// @Security     BearerAuth
// @Param        id path string true "Work order ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /work-orders/{id}/images/archive [get]
func (h *WorkOrderHandler) DownloadImages(c *gin.Context) {
	id, ok := h.pathID(c, "work order")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	archive, err := h.service.PrepareImageArchive(ctx, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, archive.FileName))
	c.Status(http.StatusOK)

	// headers are sent, so failures from here on can only be logged
	summary, err := archive.WriteTo(ctx, c.Writer)
	log := logger.FromContext(ctx).With(
		zap.String("work_order_id", id.String()),
		zap.Int("written", summary.Written),
		zap.Strings("skipped", summary.Skipped),
	)
	if err != nil {
		log.Error("Image archive aborted", zap.Error(err))
		return
	}
	log.Info("Image archive sent", zap.Int("requested", archive.Len()))
}
