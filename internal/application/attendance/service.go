package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/fieldops/backend/internal/domain/attendance"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/fieldops/backend/internal/domain/workforce"
	"github.com/fieldops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultHistoryLimit caps history reads when the caller sets no limit
const defaultHistoryLimit = 1000

// MarkRecorder counts attendance marks per status
type MarkRecorder interface {
	RecordAttendance(ctx context.Context, status string, count int)
}

// AttendanceService records and reports technician attendance
type AttendanceService struct {
	repo     attendance.Repository
	techRepo workforce.TechnicianRepository
	recorder MarkRecorder
}

// NewAttendanceService creates a new AttendanceService; recorder may be nil
func NewAttendanceService(repo attendance.Repository, techRepo workforce.TechnicianRepository, recorder MarkRecorder) *AttendanceService {
	return &AttendanceService{
		repo:     repo,
		techRepo: techRepo,
		recorder: recorder,
	}
}

// Record sets one technician's status for a day, replacing any earlier mark
func (s *AttendanceService) Record(ctx context.Context, supervisorID uuid.UUID, req RecordAttendanceRequest) (*RecordResponse, error) {
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	tech, err := s.techRepo.FindByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_TECHNICIAN", "Technician not found")
		}
		return nil, err
	}
	if !tech.IsOwnedBy(supervisorID) {
		return nil, shared.NewDomainError("INVALID_TECHNICIAN", "Technician not found")
	}

	record, err := s.repo.FindByTechnicianAndDate(ctx, tech.ID, date)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		record, err = attendance.NewRecord(supervisorID, tech.ID, date, attendance.Status(req.Status))
		if err != nil {
			return nil, err
		}
		record.Note = req.Note
	case err != nil:
		return nil, err
	default:
		if err := record.ChangeStatus(attendance.Status(req.Status), req.Note); err != nil {
			return nil, err
		}
		record.SupervisorID = supervisorID
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	s.count(ctx, []*attendance.Record{record})

	record.TechnicianName = tech.Name
	response := ToRecordResponse(record)
	return &response, nil
}

// SubmitDay records every entry of a day in one write
func (s *AttendanceService) SubmitDay(ctx context.Context, supervisorID uuid.UUID, req SubmitDayRequest) (*SubmitDayResponse, error) {
	date, err := attendance.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.Entries))
	seen := make(map[uuid.UUID]bool, len(req.Entries))
	for _, e := range req.Entries {
		if seen[e.TechnicianID] {
			return nil, shared.NewDomainError("DUPLICATE_TECHNICIAN", "Each technician may appear only once per day")
		}
		seen[e.TechnicianID] = true
		ids = append(ids, e.TechnicianID)
	}

	techs, err := s.techRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	owned := make(map[uuid.UUID]bool, len(techs))
	for _, t := range techs {
		if t.IsOwnedBy(supervisorID) {
			owned[t.ID] = true
		}
	}

	records := make([]*attendance.Record, 0, len(req.Entries))
	resp := &SubmitDayResponse{Date: date.Format(attendance.DateLayout)}
	for _, e := range req.Entries {
		if !owned[e.TechnicianID] {
			return nil, shared.NewDomainError("INVALID_TECHNICIAN", "Technician not found: "+e.TechnicianID.String())
		}
		record, err := attendance.NewRecord(supervisorID, e.TechnicianID, date, attendance.Status(e.Status))
		if err != nil {
			return nil, err
		}
		record.Note = e.Note
		records = append(records, record)

		switch record.Status {
		case attendance.StatusPresent:
			resp.Present++
		case attendance.StatusAbsent:
			resp.Absent++
		case attendance.StatusExcused:
			resp.Excused++
		}
	}

	if err := s.repo.Upsert(ctx, records...); err != nil {
		return nil, err
	}
	s.count(ctx, records)

	resp.Recorded = len(records)
	logger.L(ctx).Info("Attendance day submitted",
		zap.String("date", resp.Date),
		zap.Int("recorded", resp.Recorded),
	)
	return resp, nil
}

// History returns the supervisor's records, newest first, with technician names resolved
func (s *AttendanceService) History(ctx context.Context, supervisorID uuid.UUID, filter HistoryFilter) ([]RecordResponse, error) {
	records, err := s.history(ctx, supervisorID, filter)
	if err != nil {
		return nil, err
	}
	return ToRecordResponses(records), nil
}

// Weeks returns the supervisor's history grouped into Monday to Sunday weeks, newest first
func (s *AttendanceService) Weeks(ctx context.Context, supervisorID uuid.UUID, filter HistoryFilter) ([]WeekResponse, error) {
	records, err := s.history(ctx, supervisorID, filter)
	if err != nil {
		return nil, err
	}
	return ToWeekResponses(attendance.GroupByWeek(records)), nil
}

func (s *AttendanceService) history(ctx context.Context, supervisorID uuid.UUID, filter HistoryFilter) ([]attendance.Record, error) {
	hf := attendance.HistoryFilter{
		SupervisorID: supervisorID,
		Limit:        filter.Limit,
	}
	if hf.Limit <= 0 {
		hf.Limit = defaultHistoryLimit
	}
	if filter.TechnicianID != "" {
		id, err := uuid.Parse(filter.TechnicianID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_TECHNICIAN_ID", "Technician id must be a UUID")
		}
		hf.TechnicianID = &id
	}
	var err error
	if hf.From, err = optionalDate(filter.From); err != nil {
		return nil, err
	}
	if hf.To, err = optionalDate(filter.To); err != nil {
		return nil, err
	}
	if hf.From != nil && hf.To != nil && hf.To.Before(*hf.From) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End date must not be before start date")
	}

	records, err := s.repo.FindHistory(ctx, hf)
	if err != nil {
		return nil, err
	}
	if err := s.resolveNames(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// resolveNames fills TechnicianName, using UnknownTechnicianName for missing technicians
func (s *AttendanceService) resolveNames(ctx context.Context, records []attendance.Record) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, r := range records {
		if !seen[r.TechnicianID] {
			seen[r.TechnicianID] = true
			ids = append(ids, r.TechnicianID)
		}
	}

	techs, err := s.techRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	names := make(map[uuid.UUID]string, len(techs))
	for _, t := range techs {
		names[t.ID] = t.Name
	}

	for i := range records {
		name, ok := names[records[i].TechnicianID]
		if !ok {
			name = workforce.UnknownTechnicianName
		}
		records[i].TechnicianName = name
	}
	return nil
}

func (s *AttendanceService) count(ctx context.Context, records []*attendance.Record) {
	if s.recorder == nil {
		return
	}
	byStatus := make(map[attendance.Status]int)
	for _, r := range records {
		byStatus[r.Status]++
	}
	for status, n := range byStatus {
		s.recorder.RecordAttendance(ctx, string(status), n)
	}
}

func optionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := attendance.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
