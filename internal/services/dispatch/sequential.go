package dispatch

import (
	"context"

	"motionbench/internal/config"
	"motionbench/internal/dto"
	"motionbench/internal/model"
)

// Sequential is the single-goroutine baseline.
type Sequential struct{}

func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Name() string { return config.StrategySequential }

// Run pulls and checks every frame on the calling goroutine.
func (s *Sequential) Run(ctx context.Context, src model.Source, det Detector) (dto.Report, error) {
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	in := newStream(src, stop)
	w := newWorker(0, det, stop)
	for {
		frame, ok := in.next(ctx)
		if !ok {
			break
		}
		w.handle(frame)
	}

	return finish(ctx, in, s.Name(), 1, []dto.WorkerStats{w.stats})
}
