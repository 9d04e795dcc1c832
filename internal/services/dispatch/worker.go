package dispatch

import (
	"context"

	"motionbench/internal/dto"
	"motionbench/internal/model"
)

// worker applies the detector to the frames it is handed and keeps a
// private count. Only its own goroutine touches it.
type worker struct {
	stats dto.WorkerStats
	det   Detector
	stop  context.CancelCauseFunc
	err   error
}

func newWorker(id int, det Detector, stop context.CancelCauseFunc) *worker {
	return &worker{
		stats: dto.WorkerStats{ID: id, Core: -1},
		det:   det,
		stop:  stop,
	}
}

// handle takes ownership of frame. After the first failure the worker stops
// the run and only drains what it is still handed.
func (w *worker) handle(frame *model.Frame) {
	w.stats.Frames++
	if w.err != nil {
		return
	}

	motion, err := w.det.DetectMotion(frame)
	if err != nil {
		w.err = err
		w.stop(err)
		return
	}
	if motion {
		w.stats.Motion++
	}
}
