package app

import (
	"context"
	"strings"
	"time"

	"motionbench/internal/config"
	"motionbench/internal/dto"
	"motionbench/internal/failure"
	"motionbench/internal/logger"
	"motionbench/internal/model"
	"motionbench/internal/services/affinity"
	"motionbench/internal/services/dispatch"
	"motionbench/internal/services/motion"
	"motionbench/internal/services/queue"
	"motionbench/internal/services/video"

	"github.com/google/uuid"
)

// SourceFactory opens the frame source for a video path.
type SourceFactory func(path string) (model.Source, error)

// App wires configuration, frame source, detector and strategy for one run.
type App struct {
	config     *config.Config
	logger     *logger.Logger
	openSource SourceFactory
	pinner     affinity.Pinner
}

// NewApp creates an App reading video files through OpenCV.
func NewApp(cfg *config.Config, logger *logger.Logger) *App {
	return &App{
		config: cfg,
		logger: logger,
		openSource: func(path string) (model.Source, error) {
			return video.Open(path)
		},
		pinner: affinity.New(),
	}
}

// WithSource replaces how the frame source is opened.
func (a *App) WithSource(open SourceFactory) *App {
	a.openSource = open
	return a
}

// WithPinner replaces the core-pinning capability used by the pool.
func (a *App) WithPinner(p affinity.Pinner) *App {
	a.pinner = p
	return a
}

// Run validates the configuration, builds the background reference, runs the
// configured strategy to completion and returns its report.
func (a *App) Run(ctx context.Context) (dto.Report, error) {
	cfg := a.config
	if err := cfg.Validate(); err != nil {
		return dto.Report{}, err
	}

	mode, err := queue.ParseMode(cfg.WaitMode)
	if err != nil {
		return dto.Report{}, failure.Configuration("wait mode", err)
	}

	var pinner affinity.Pinner
	if cfg.Pin {
		pinner = a.pinner
	}

	strategy, err := dispatch.New(cfg.Strategy, dispatch.Options{
		Workers:  cfg.Workers(),
		WaitMode: mode,
		Pinner:   pinner,
		Logger:   a.logger,
	})
	if err != nil {
		return dto.Report{}, err
	}

	runID := uuid.New()
	a.logger.Info("🎬 Run %s: %s on %s (k=%d, pardegree=%d)", runID, strategy.Name(), cfg.VideoPath, cfg.Threshold, cfg.Parallelism)

	start := time.Now()

	src, err := a.openSource(cfg.VideoPath)
	if err != nil {
		if failure.KindOf(err) == failure.KindUnknown {
			err = failure.Initialization("open video", err)
		}
		a.logger.Error("Run %s: %v", runID, err)
		return dto.Report{}, err
	}

	det, err := motion.New(src, cfg.Threshold)
	if err != nil {
		a.logger.Error("Run %s: %v", runID, err)
		return dto.Report{}, err
	}
	defer det.Close()

	a.logger.Info("🖼️  Background reference ready: %dx%d, %d pixels", det.Width(), det.Height(), det.Pixels())

	report, err := strategy.Run(ctx, src, det)
	elapsed := time.Since(start)

	report.RunID = runID
	report.Threshold = cfg.Threshold
	report.Elapsed = elapsed

	a.logger.Info("%s motion detection computed in %d usec", title(strategy.Name()), elapsed.Microseconds())

	if err != nil {
		a.logger.Error("Run %s failed after %d frames: %v", runID, report.Frames, err)
		return report, err
	}

	a.logger.Info("✅ Run %s: %d of %d frames with motion", runID, report.Total, report.Frames)
	for _, w := range report.Workers {
		a.logger.Info("   worker %d: %d frames, %d with motion, skipped %d, core %d", w.ID, w.Frames, w.Motion, w.Skipped, w.Core)
	}
	return report, nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
