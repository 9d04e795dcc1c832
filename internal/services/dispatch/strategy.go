// Package dispatch moves frames from a source to detection workers and
// reduces the per-worker counts into a total.
//
// Three strategies share one lifecycle: the caller builds the detector
// (and with it the background reference) before Run, Run spawns its
// workers, feeds them until the source is exhausted, delivers an
// end-of-stream marker to every worker exactly once, joins them all and only
// then sums their results.
package dispatch

import (
	"context"
	"io"

	"motionbench/internal/config"
	"motionbench/internal/dto"
	"motionbench/internal/failure"
	"motionbench/internal/logger"
	"motionbench/internal/model"
	"motionbench/internal/services/affinity"
	"motionbench/internal/services/queue"
)

// Detector decides whether a frame shows motion. Implementations must be
// safe for concurrent calls on distinct frames.
type Detector interface {
	DetectMotion(frame *model.Frame) (bool, error)
}

// Strategy runs a whole stream through a detector.
//
// On error the returned report is partial and must not be published; every
// worker has still been joined.
type Strategy interface {
	Name() string
	Run(ctx context.Context, src model.Source, det Detector) (dto.Report, error)
}

// Options configures the concurrent strategies.
type Options struct {
	Workers  int             // worker goroutines, excluding the dispatcher
	WaitMode queue.Mode      // pool only
	Pinner   affinity.Pinner // pool only; nil disables pinning
	Logger   *logger.Logger
}

// New builds the strategy called name.
func New(name string, opts Options) (Strategy, error) {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	switch name {
	case config.StrategySequential:
		return NewSequential(), nil
	case config.StrategyFarm, config.StrategyPool:
		if opts.Workers < 1 {
			return nil, failure.Configurationf("build strategy", "%s needs at least one worker, got %d", name, opts.Workers)
		}
		if name == config.StrategyFarm {
			return NewFarm(opts.Workers, opts.Logger), nil
		}
		return NewPool(opts.Workers, opts.WaitMode, opts.Pinner, opts.Logger), nil
	default:
		return nil, failure.Configurationf("build strategy", "unknown strategy %q", name)
	}
}

// stream pulls the frames of one run and remembers whether the source was
// exhausted.
type stream struct {
	src     model.Source
	stop    context.CancelCauseFunc
	drained bool
}

func newStream(src model.Source, stop context.CancelCauseFunc) *stream {
	return &stream{src: src, stop: stop}
}

// next pulls the next frame unless the run has been stopped. It returns
// false at end of stream, after a read error (which stops the run) or once
// ctx is done. An empty frame also ends the stream.
func (s *stream) next(ctx context.Context) (*model.Frame, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	frame, err := s.src.Next()
	if err == io.EOF {
		s.drained = true
		return nil, false
	}
	if err != nil {
		s.stop(failure.RuntimeProcessing("read frame", err))
		return nil, false
	}
	if frame.Empty() {
		s.drained = true
		return nil, false
	}
	return frame, true
}

// runErr reports why ctx was stopped, if that cost the run any frames.
// Failures raised by the run itself always count. An outside cancellation
// only counts when it cut the stream short.
func runErr(ctx context.Context, drained bool) error {
	if ctx.Err() == nil {
		return nil
	}
	cause := context.Cause(ctx)
	if failure.KindOf(cause) != failure.KindUnknown {
		return cause
	}
	if drained {
		return nil
	}
	return failure.RuntimeProcessing("run", cause)
}

// finish aggregates joined worker results into a report.
func finish(ctx context.Context, in *stream, name string, parallelism int, stats []dto.WorkerStats) (dto.Report, error) {
	total, frames := Aggregate(stats)
	report := dto.Report{
		Strategy:    name,
		Parallelism: parallelism,
		Total:       total,
		Frames:      frames,
		Workers:     stats,
	}
	return report, runErr(ctx, in.drained)
}
