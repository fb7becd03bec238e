package pipeline

import (
	"errors"
	"fmt"
	"log"
	"runtime"
	"sync"

	"endless-terrain/internal/profiling"
)

var (
	// ErrGenerationFailed wraps every error or panic raised by a task.
	ErrGenerationFailed = errors.New("pipeline: generation failed")
	// ErrClosed is delivered to callbacks submitted after Close.
	ErrClosed = errors.New("pipeline: pool closed")
)

// task runs on a worker and returns the callback invocation to defer until
// the owning thread drains completions.
type task struct {
	name string
	run  func() func()
}

// Stats is a point-in-time view of the pool's queues.
type Stats struct {
	Queued    int // submitted, not yet picked up by a worker
	Running   int // executing on a worker
	Completed int // finished, waiting for Drain
}

// Pool runs generation work on a fixed set of goroutines. Work is queued
// without bound, so Submit never blocks and never drops a request. Results
// are held in a completion queue until the owning thread calls Drain, which
// is the only place callbacks run.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []task
	running int
	closed  bool

	doneMu sync.Mutex
	done   []func()

	inflight sync.WaitGroup
	wg       sync.WaitGroup
	workers  int
}

// New starts a pool with the given number of workers; workers <= 0 uses one
// per CPU.
func New(workers int) *Pool {
	if workers <= 0 {
		workers = max(runtime.NumCPU(), 1)
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)

	for range workers {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit queues work and returns immediately. done receives the result, or
// an error wrapping ErrGenerationFailed when work fails or panics; it is
// called from Drain on the owning thread, never from a worker.
func Submit[T any](p *Pool, name string, work func() (T, error), done func(T, error)) {
	p.inflight.Add(1)
	t := task{
		name: name,
		run: func() func() {
			res, err := runSafely(name, work)
			return func() { done(res, err) }
		},
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		var zero T
		err := fmt.Errorf("%w: %s", ErrClosed, name)
		p.complete(func() { done(zero, err) })
		return
	}
	p.queue = append(p.queue, t)
	p.mu.Unlock()
	p.cond.Signal()
}

func runSafely[T any](name string, work func() (T, error)) (res T, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pipeline: task %s panicked: %v", name, r)
			var zero T
			res, err = zero, fmt.Errorf("%w: %s: panic: %v", ErrGenerationFailed, name, r)
		}
	}()
	res, err = work()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrGenerationFailed, name, err)
	}
	return res, nil
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = task{}
		p.queue = p.queue[1:]
		p.running++
		p.mu.Unlock()

		deliver := t.run()

		p.mu.Lock()
		p.running--
		p.mu.Unlock()

		p.complete(deliver)
	}
}

// complete appends a finished callback to the completion queue.
func (p *Pool) complete(deliver func()) {
	p.doneMu.Lock()
	p.done = append(p.done, deliver)
	p.doneMu.Unlock()
	p.inflight.Done()
}

// Drain runs every callback completed so far, in completion order, and
// returns how many ran. It never blocks on outstanding work. Callbacks may
// Submit more work; anything completing during Drain waits for the next call.
// Must only be called from the owning thread.
func (p *Pool) Drain() int {
	defer profiling.Track("pipeline.Drain")()

	p.doneMu.Lock()
	batch := p.done
	p.done = nil
	p.doneMu.Unlock()

	for _, deliver := range batch {
		deliver()
	}
	return len(batch)
}

// Wait blocks until every submitted task has reached the completion queue.
// Only the owning thread may call Wait, and not concurrently with Submit.
func (p *Pool) Wait() {
	p.inflight.Wait()
}

// Stats returns the current queue sizes.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	s := Stats{Queued: len(p.queue), Running: p.running}
	p.mu.Unlock()

	p.doneMu.Lock()
	s.Completed = len(p.done)
	p.doneMu.Unlock()
	return s
}

// Close lets the workers finish the queued work and stops them. Completed
// callbacks stay queued for a final Drain. Close is idempotent.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()

	p.cond.Broadcast()
	p.wg.Wait()
}
