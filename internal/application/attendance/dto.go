package attendance

import (
	"time"

	"github.com/fieldops/backend/internal/domain/attendance"
	"github.com/google/uuid"
)

// RecordAttendanceRequest marks one technician for one day
type RecordAttendanceRequest struct {
	TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
	Date         string    `json:"date" binding:"required,datetime=2006-01-02"`
	Status       string    `json:"status" binding:"required,oneof=present absent excused"`
	Note         string    `json:"note" binding:"max=2000"`
}

// DayEntry is one technician's status in a day submission
type DayEntry struct {
	TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
	Status       string    `json:"status" binding:"required,oneof=present absent excused"`
	Note         string    `json:"note" binding:"max=2000"`
}

// SubmitDayRequest records a whole day's attendance at once
type SubmitDayRequest struct {
	Date    string     `json:"date" binding:"required,datetime=2006-01-02"`
	Entries []DayEntry `json:"entries" binding:"required,min=1,max=500,dive"`
}

// HistoryFilter represents history query parameters
type HistoryFilter struct {
	TechnicianID string `form:"technician_id" binding:"omitempty,uuid"`
	From         string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To           string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Limit        int    `form:"limit" binding:"omitempty,min=1,max=5000"`
}

// RecordResponse represents an attendance record in API responses
type RecordResponse struct {
	ID             uuid.UUID `json:"id"`
	TechnicianID   uuid.UUID `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
	Date           string    `json:"date"`
	Status         string    `json:"status"`
	Note           string    `json:"note"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SubmitDayResponse reports a day submission
type SubmitDayResponse struct {
	Date     string `json:"date"`
	Recorded int    `json:"recorded"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`
	Excused  int    `json:"excused"`
}

// DayResponse summarizes one day inside a week
type DayResponse struct {
	Date    string           `json:"date"`
	Present int              `json:"present"`
	Absent  int              `json:"absent"`
	Excused int              `json:"excused"`
	Records []RecordResponse `json:"records"`
}

// WeekResponse is a Monday to Sunday bucket of history
type WeekResponse struct {
	Year       int           `json:"year"`
	WeekNumber int           `json:"week_number"`
	StartDate  string        `json:"start_date"`
	EndDate    string        `json:"end_date"`
	Days       []DayResponse `json:"days"`
}

// ToRecordResponse converts a domain Record to a response DTO
func ToRecordResponse(r *attendance.Record) RecordResponse {
	return RecordResponse{
		ID:             r.ID,
		TechnicianID:   r.TechnicianID,
		TechnicianName: r.TechnicianName,
		Date:           r.DateString(),
		Status:         string(r.Status),
		Note:           r.Note,
		UpdatedAt:      r.UpdatedAt,
	}
}

// ToRecordResponses converts a slice of records
func ToRecordResponses(records []attendance.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return out
}

// ToWeekResponses converts grouped weeks
func ToWeekResponses(weeks []attendance.Week) []WeekResponse {
	out := make([]WeekResponse, 0, len(weeks))
	for _, w := range weeks {
		wr := WeekResponse{
			Year:       w.Year,
			WeekNumber: w.Number,
			StartDate:  w.StartDate,
			EndDate:    w.EndDate,
			Days:       make([]DayResponse, 0, len(w.Days)),
		}
		for _, d := range w.Days {
			wr.Days = append(wr.Days, DayResponse{
				Date:    d.Date,
				Present: d.Present,
				Absent:  d.Absent,
				Excused: d.Excused,
				Records: ToRecordResponses(d.Records),
			})
		}
		out = append(out, wr)
	}
	return out
}
