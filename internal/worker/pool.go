// Package worker provides a bounded worker pool used to run per-page OCR
// jobs and multi-bundle batch scans concurrently.
package worker

import (
	"context"
	"sync"
)

// Job is a unit of work producing a result of type R
type Job[R any] func(ctx context.Context) R

// Pool runs jobs on a fixed number of workers. Results are collected in
// completion order; callers that need input order must re-sort.
type Pool[R any] struct {
	workers int
	jobs    chan Job[R]
	results chan R
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

// NewPool creates a pool with the given number of workers
func NewPool[R any](ctx context.Context, workers int) *Pool[R] {
	if workers <= 0 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Pool[R]{
		workers: workers,
		jobs:    make(chan Job[R], workers*2),
		results: make(chan R, workers*2),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (p *Pool[R]) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run()
	}
}

func (p *Pool[R]) run() {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			result := job(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. Submissions after the context is cancelled are
// dropped.
func (p *Pool[R]) Submit(job Job[R]) {
	select {
	case <-p.ctx.Done():
	case p.jobs <- job:
	}
}

// Wait closes the queue, waits for all submitted jobs to finish, and
// returns their results in completion order.
func (p *Pool[R]) Wait() []R {
	close(p.jobs)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []R
	for r := range p.results {
		results = append(results, r)
	}
	return results
}

// Shutdown cancels outstanding work immediately
func (p *Pool[R]) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool[R]) closeResults() {
	p.once.Do(func() { close(p.results) })
}
