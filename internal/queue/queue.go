// Package queue runs jobs on a fixed number of workers
package queue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Errors
var (
	// ErrShutdown is returned for jobs submitted after the queue has been shut down
	ErrShutdown = errors.New("queue has been shutdown")
	// ErrPanic is returned for jobs whose handler panicked
	ErrPanic = errors.New("job panicked")
)

// Queue is a worker queue with a fixed amount of workers
type Queue[T, R any] struct {
	ctx     context.Context
	workers int
	queue   chan job[T, R]
	handler func(context.Context, T) (R, error)
	pending int64
}

type job[T, R any] struct {
	ctx    context.Context
	data   T
	result chan jobResult[R]
}

type jobResult[R any] struct {
	result R
	err    error
}

// New creates a new Queue with the specified amount of workers.
// The queue shuts down when ctx is cancelled.
func New[T, R any](ctx context.Context, workers int, handler func(context.Context, T) (R, error)) *Queue[T, R] {
	return &Queue[T, R]{
		ctx:     ctx,
		workers: workers,
		queue:   make(chan job[T, R]),
		handler: handler,
	}
}

// Run starts the workers and blocks until the queue is shut down
func (q *Queue[T, R]) Run() {
	var wg sync.WaitGroup
	for i := 0; i < q.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.worker()
		}()
	}

	wg.Wait()
}

func (q *Queue[T, R]) worker() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case j := <-q.queue:
			// The caller gave up while the job was waiting
			if err := j.ctx.Err(); err != nil {
				j.result <- jobResult[R]{err: err}
				continue
			}

			result, err := q.handle(j)
			j.result <- jobResult[R]{
				result: result,
				err:    err,
			}
		}
	}
}

// handle runs the handler for a job, recovering a panic into ErrPanic
func (q *Queue[T, R]) handle(j job[T, R]) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()

	return q.handler(j.ctx, j.data)
}

// Process adds a job to the queue, waits for it to process, and returns the result
func (q *Queue[T, R]) Process(ctx context.Context, data T) (result R, err error) {
	if err = ctx.Err(); err != nil {
		return
	}

	select {
	case <-q.ctx.Done():
		err = ErrShutdown
		return
	default:
	}

	atomic.AddInt64(&q.pending, 1)
	defer atomic.AddInt64(&q.pending, -1)

	// Buffered so that workers never block on callers that have left
	resultChan := make(chan jobResult[R], 1)

	select {
	case q.queue <- job[T, R]{ctx: ctx, data: data, result: resultChan}:
	case <-ctx.Done():
		err = ctx.Err()
		return
	case <-q.ctx.Done():
		err = ErrShutdown
		return
	}

	select {
	case r := <-resultChan:
		return r.result, r.err
	case <-ctx.Done():
		err = ctx.Err()
		return
	}
}

// Pending returns the number of jobs that are waiting or running
func (q *Queue[T, R]) Pending() int64 {
	return atomic.LoadInt64(&q.pending)
}
