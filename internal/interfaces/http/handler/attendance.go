package handler

import (
	"github.com/fieldops/backend/internal/application/attendance"
	"github.com/gin-gonic/gin"
)

// AttendanceHandler handles daily attendance for the supervisor's technicians
type AttendanceHandler struct {
	BaseHandler
	service *attendance.AttendanceService
}

// NewAttendanceHandler creates a new AttendanceHandler
func NewAttendanceHandler(service *attendance.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

// Record godoc
// @Summary      Mark attendance
// @Description  Creates or replaces the technician's record for the date
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.RecordAttendanceRequest true "Attendance"
// @Success      200 {object} dto.Response{data=attendance.RecordResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var req attendance.RecordAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	record, err := h.service.Record(c.Request.Context(), supervisorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// SubmitDay godoc
// @Summary      Submit a day
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body attendance.SubmitDayRequest true "Whole day"
// @Success      200 {object} dto.Response{data=attendance.SubmitDayResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attendance/day [post]
func (h *AttendanceHandler) SubmitDay(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var req attendance.SubmitDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	result, err := h.service.SubmitDay(c.Request.Context(), supervisorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// History godoc
// @Summary      Attendance history
// @Description  Newest first; unknown technicians are named "Unknown Technician"
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        technician_id query string false "Technician ID" format(uuid)
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        limit query int false "Maximum records"
// @Success      200 {object} dto.Response{data=[]attendance.RecordResponse}
// @Router       /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var filter attendance.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	records, err := h.service.History(c.Request.Context(), supervisorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, records)
}

// Weeks godoc
// @Summary      Attendance by week
// @Description  History grouped into Monday to Sunday weeks, newest week first
// @Tags         attendance
// @Produce      json
// @Security     BearerAuth
// @Param        technician_id query string false "Technician ID" format(uuid)
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]attendance.WeekResponse}
// @Router       /attendance/weeks [get]
func (h *AttendanceHandler) Weeks(c *gin.Context) {
	supervisorID, ok := h.supervisorID(c)
	if !ok {
		return
	}
	var filter attendance.HistoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	weeks, err := h.service.Weeks(c.Request.Context(), supervisorID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, weeks)
}
