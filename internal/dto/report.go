package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// WorkerStats is what one worker publishes when it shuts down.
type WorkerStats struct {
	ID      int `json:"id"`
	Frames  int `json:"frames"`  // frames handed to this worker
	Motion  int `json:"motion"`  // frames with motion
	Skipped int `json:"skipped"` // pool only: times passed over while busy
	Core    int `json:"core"`    // pinned core, -1 when not pinned
}

// Report is the outcome of one strategy run.
type Report struct {
	RunID       uuid.UUID     `json:"run_id"`
	Strategy    string        `json:"strategy"`
	Parallelism int           `json:"parallelism"`
	Threshold   int           `json:"k"`
	Total       int           `json:"total"`
	Frames      int           `json:"frames"`
	Workers     []WorkerStats `json:"workers"`
	Elapsed     time.Duration `json:"-"`
}

// MarshalJSON adds elapsed time in microseconds.
func (r Report) MarshalJSON() ([]byte, error) {
	type Alias Report
	return json.Marshal(&struct {
		ElapsedUsec int64 `json:"elapsed_usec"`
		Alias
	}{
		ElapsedUsec: r.Elapsed.Microseconds(),
		Alias:       (Alias)(r),
	})
}
