package scheduler

import "time"

// JobStatus represents the status of a scheduled run
type JobStatus string

const (
	JobStatusIdle    JobStatus = "IDLE"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
	JobStatusSkipped JobStatus = "SKIPPED" // another instance holds the day's lock
)

// RunInfo describes the most recent scheduled run
type RunInfo struct {
	Status      JobStatus  `json:"status"`
	Date        string     `json:"date,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	NextRunAt   *time.Time `json:"next_run_at,omitempty"`
}

func (r *RunInfo) start(date string, now time.Time) {
	r.Status = JobStatusRunning
	r.Date = date
	r.StartedAt = &now
	r.CompletedAt = nil
	r.Error = ""
}

func (r *RunInfo) finish(err error, now time.Time) {
	r.CompletedAt = &now
	if err != nil {
		r.Status = JobStatusFailed
		r.Error = err.Error()
		return
	}
	r.Status = JobStatusSuccess
}
