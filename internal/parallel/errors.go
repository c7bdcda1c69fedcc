package parallel

import "errors"

var (
	// ErrInvalidThreads is returned for a team size outside 1..MaxThreads.
	ErrInvalidThreads = errors.New("invalid thread count")

	// ErrInvalidSchedule is returned for an unknown schedule kind or a
	// negative chunk size.
	ErrInvalidSchedule = errors.New("invalid schedule")
)
