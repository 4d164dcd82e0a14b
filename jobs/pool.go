// Package jobs implements the cooperative CPU task primitive the voxel
// core schedules generation, lighting, and meshing work onto (spec §5,
// §6's TaskScheduler collaborator). It generalizes the teacher's
// task/result-channel-plus-WaitGroup worker pool
// (terrain.NoiseGenerator.Generate) from "columns of one chunk" to
// "jobs of the world".
package jobs

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Func is the work a scheduled job performs. It must return promptly
// when ctx is cancelled (spec §5 cancellation contract) and must not
// suspend inside any inner loop that isn't a designated suspension
// point (spec §5).
type Func func(ctx context.Context) (any, error)

// Pool runs each job on its own goroutine, gated by a semaphore sized at
// construction so at most that many jobs execute at once. Use a small Pool (sized max(1,
// runtime.NumCPU()/2)) for CPU-bound generation per spec §5, and a
// larger/unbounded one for lighter lighting/meshing work.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup
}

// NewPool returns a pool that runs at most maxConcurrent jobs at once.
func NewPool(maxConcurrent int) *Pool {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Pool{sem: make(chan struct{}, maxConcurrent)}
}

// Schedule starts fn on a goroutine once a pool slot is free, returning
// a Handle immediately (non-blocking, matching spec §6's
// schedule(name, fn, priority) -> JobHandle contract; priority is
// accepted for interface parity but this pool is FIFO-on-availability —
// see DESIGN.md).
func (p *Pool) Schedule(ctx context.Context, name string, priority int, fn Func) *Handle {
	jobCtx, cancel := context.WithCancel(ctx)
	h := &Handle{
		id:     uuid.New(),
		name:   name,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
		case <-jobCtx.Done():
			h.finish(nil, jobCtx.Err())
			return
		}

		if err := jobCtx.Err(); err != nil {
			h.finish(nil, err)
			return
		}

		result, err := fn(jobCtx)
		h.finish(result, err)
	}()

	return h
}

// Wait blocks until every job ever scheduled on this pool has finished.
// Intended for tests and graceful shutdown, not the steady-state loop.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Handle is an opaque reference to a scheduled job (spec §6 JobHandle).
type Handle struct {
	id     uuid.UUID
	name   string
	cancel context.CancelFunc

	mu        sync.Mutex
	done      chan struct{}
	completed bool
	result    any
	err       error
}

func (h *Handle) finish(result any, err error) {
	h.mu.Lock()
	if h.completed {
		h.mu.Unlock()
		return
	}
	h.completed = true
	h.result = result
	h.err = err
	h.mu.Unlock()
	close(h.done)
}

// ID returns the job's correlation id for logging.
func (h *Handle) ID() uuid.UUID { return h.id }

// Name returns the human-readable job name passed to Schedule.
func (h *Handle) Name() string { return h.name }

// Done returns a channel closed when the job completes (success,
// failure, or cancellation).
func (h *Handle) Done() <-chan struct{} { return h.done }

// IsCompleted reports whether the job has finished.
func (h *Handle) IsCompleted() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Result blocks until completion and returns the job's outcome.
func (h *Handle) Result() (any, error) {
	<-h.done
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.result, h.err
}

// Cancel requests cooperative cancellation. The controller treats a
// resulting context.Canceled error as a successful abort, not a
// failure (spec §7 Cancelled kind).
func (h *Handle) Cancel() {
	h.cancel()
}
