package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrWorkerPoolClosed = errors.New("worker pool is closed")

// Job is one unit of work. Its error is collected by the pool.
type Job func(ctx context.Context) error

// WorkerPool runs jobs on a fixed number of goroutines and collects their errors.
type WorkerPool struct {
	ctx    context.Context
	jobs   chan Job
	closed bool
	mu     sync.RWMutex
	once   sync.Once
	wg     sync.WaitGroup

	errMu sync.Mutex
	errs  []error
}

// NewWorkerPool starts workers goroutines that run jobs with ctx.
func NewWorkerPool(ctx context.Context, workers, queueSize int) *WorkerPool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	p := &WorkerPool{
		ctx:  ctx,
		jobs: make(chan Job, queueSize),
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.run(job)
			}
		}()
	}

	return p
}

func (p *WorkerPool) run(job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.record(fmt.Errorf("job panicked: %v", r))
		}
	}()
	if err := p.ctx.Err(); err != nil {
		p.record(err)
		return
	}
	p.record(job(p.ctx))
}

func (p *WorkerPool) record(err error) {
	if err == nil {
		return
	}
	p.errMu.Lock()
	p.errs = append(p.errs, err)
	p.errMu.Unlock()
}

// Submit queues job, blocking while the queue is full.
func (p *WorkerPool) Submit(ctx context.Context, job Job) error {
	if job == nil {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrWorkerPoolClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case p.jobs <- job:
		return nil
	}
}

// Close stops accepting jobs. Queued jobs still run.
func (p *WorkerPool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.jobs)
		p.mu.Unlock()
	})
}

// Wait blocks until every queued job finished and returns their joined errors.
func (p *WorkerPool) Wait() error {
	p.wg.Wait()
	p.errMu.Lock()
	defer p.errMu.Unlock()
	return errors.Join(p.errs...)
}
