package scheduler

import "errors"

var (
	// ErrInvalidConfig is returned when the schedule cannot be parsed
	ErrInvalidConfig = errors.New("invalid scheduler configuration")

	// ErrImportAlreadyRunning is returned when a run is requested while another is in progress
	ErrImportAlreadyRunning = errors.New("order import already in progress")
)
