package dispatch

import (
	"context"
	"sync"

	"motionbench/internal/config"
	"motionbench/internal/dto"
	"motionbench/internal/logger"
	"motionbench/internal/model"
	"motionbench/internal/services/affinity"
	"motionbench/internal/services/queue"
)

// dispatcherCore is the core the pool dispatcher is pinned to. Worker i
// goes to dispatcherCore+1+i.
const dispatcherCore = 0

// task is a queue entry: a frame, or the end-of-stream marker.
type task struct {
	frame *model.Frame
	eos   bool
}

// Pool statically assigns frames to per-worker FIFOs.
//
// The dispatcher walks the workers round-robin but passes over any worker
// whose queue is not empty, landing on the first one it sees idle. This
// smooths load on a best-effort basis only: a worker that is briefly busy
// each time the dispatcher looks can be passed over indefinitely. Each
// worker passed over while placing a frame adds one to its
// WorkerStats.Skipped, so the imbalance is visible.
//
// Queues are unbounded. A source faster than the workers grows them
// without limit.
type Pool struct {
	workers int
	mode    queue.Mode
	pinner  affinity.Pinner
	logger  *logger.Logger
}

func NewPool(workers int, mode queue.Mode, pinner affinity.Pinner, logger *logger.Logger) *Pool {
	return &Pool{
		workers: workers,
		mode:    mode,
		pinner:  pinner,
		logger:  logger,
	}
}

func (p *Pool) Name() string { return config.StrategyPool }

// Run starts the dispatcher and workers and waits for all of them.
func (p *Pool) Run(ctx context.Context, src model.Source, det Detector) (dto.Report, error) {
	ctx, stop := context.WithCancelCause(ctx)
	defer stop(nil)

	queues := make([]*queue.Queue[task], p.workers)
	for i := range queues {
		queues[i] = queue.New[task](p.mode)
	}
	stats := make([]dto.WorkerStats, p.workers)
	skipped := make([]int, p.workers)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go p.work(i, queues[i], det, stop, &stats[i], &wg)
	}
	p.logger.Info("🔧 Pool started with %d workers (%s wait)", p.workers, queues[0].Mode())

	// The dispatcher gets its own goroutine so pinning never locks the
	// caller's thread.
	in := newStream(src, stop)
	dispatched := make(chan int, 1)
	go func() {
		dispatched <- p.dispatch(ctx, in, queues, skipped)
	}()
	emitted := <-dispatched

	wg.Wait()
	for i := range stats {
		stats[i].Skipped = skipped[i]
	}
	p.logger.Info("🛑 Pool dispatched %d frames, all workers stopped", emitted)

	return finish(ctx, in, p.Name(), p.workers+1, stats)
}

// dispatch feeds the queues until the source is exhausted or the run is
// stopped, then pushes one end-of-stream marker onto every queue.
func (p *Pool) dispatch(ctx context.Context, in *stream, queues []*queue.Queue[task], skipped []int) int {
	p.pin(dispatcherCore, "dispatcher")

	n := len(queues)
	index := 0
	emitted := 0
	for {
		frame, ok := in.next(ctx)
		if !ok {
			break
		}

		// Each worker is counted at most once per frame, however many laps
		// the search takes.
		for lap := 0; !queues[index].Empty(); lap++ {
			if lap < n {
				skipped[index]++
			}
			index = (index + 1) % n
		}

		queues[index].Push(task{frame: frame})
		emitted++
		index = (index + 1) % n
	}

	for _, q := range queues {
		q.Push(task{eos: true})
	}
	return emitted
}

// work pops from its own queue until the end-of-stream marker.
func (p *Pool) work(id int, q *queue.Queue[task], det Detector, stop context.CancelCauseFunc, out *dto.WorkerStats, wg *sync.WaitGroup) {
	defer wg.Done()

	w := newWorker(id, det, stop)
	w.stats.Core = p.pin(dispatcherCore+1+id, "worker")

	for {
		t := q.Pop()
		if t.eos {
			break
		}
		w.handle(t.frame)
	}
	*out = w.stats
}

// pin binds the calling goroutine to core. A failure is only a warning.
func (p *Pool) pin(core int, who string) int {
	if p.pinner == nil {
		return -1
	}
	if err := p.pinner.Pin(core); err != nil {
		p.logger.Warning("📌 Could not pin %s to core %d, running unpinned: %v", who, core, err)
		return -1
	}
	return core
}
