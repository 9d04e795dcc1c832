package dispatch

import (
	"context"
	"sync"

	"motionbench/internal/config"
	"motionbench/internal/dto"
	"motionbench/internal/logger"
	"motionbench/internal/model"
)

// Farm hands each frame to whichever worker asks for work next.
//
// The hand-off channel is unbuffered: a send completes only when a worker
// is parked in receive, so frames go to idle workers on demand and idle
// workers sleep instead of polling. Closing the channel is the end-of-stream
// broadcast.
type Farm struct {
	workers int
	logger  *logger.Logger
}

func NewFarm(workers int, logger *logger.Logger) *Farm {
	return &Farm{workers: workers, logger: logger}
}

func (f *Farm) Name() string { return config.StrategyFarm }

// Run emits frames from the calling goroutine to f.workers workers.
func (f *Farm) Run(ctx context.Context, src model.Source, det Detector) (dto.Report, error) {
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	frames := make(chan *model.Frame)
	stats := make([]dto.WorkerStats, f.workers)

	var wg sync.WaitGroup
	for i := 0; i < f.workers; i++ {
		wg.Add(1)
		go f.work(i, frames, det, stop, &stats[i], &wg)
	}
	f.logger.Info("🔧 Farm started with %d workers", f.workers)

	in := newStream(src, stop)
	emitted := 0
	for {
		frame, ok := in.next(ctx)
		if !ok {
			break
		}
		frames <- frame
		emitted++
	}
	close(frames)

	wg.Wait()
	f.logger.Info("🛑 Farm emitted %d frames, all workers stopped", emitted)

	return finish(ctx, in, f.Name(), f.workers+1, stats)
}

// work drains frames until the channel is closed, then publishes its count.
func (f *Farm) work(id int, frames <-chan *model.Frame, det Detector, stop context.CancelCauseFunc, out *dto.WorkerStats, wg *sync.WaitGroup) {
	defer wg.Done()

	w := newWorker(id, det, stop)
	for frame := range frames {
		w.handle(frame)
	}
	*out = w.stats
}
