package dispatch

import "motionbench/internal/dto"

// Aggregate sums the joined per-worker results. Addition is associative and
// commutative, so completion order does not matter.
func Aggregate(stats []dto.WorkerStats) (total, frames int) {
	for _, s := range stats {
		total += s.Motion
		frames += s.Frames
	}
	return total, frames
}
