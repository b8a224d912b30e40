// Package taskqueue serializes units of work through a single FIFO lane.
//
// A Queue admits any number of submissions but executes at most one of them
// at a time, in submission order. It is meant to be created once per process
// and shared by reference; it owns no resources beyond its pending list.
package taskqueue

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"cv-matcher/internal/shared/metrics"
	"cv-matcher/internal/shared/telemetry"
)

// Work is a unit of work executed by the queue.
type Work func(ctx context.Context) (any, error)

type item struct {
	id         string
	ctx        context.Context
	work       Work
	handle     *Handle
	enqueuedAt time.Time
}

// Queue runs submitted work one item at a time, first in first out.
type Queue struct {
	mu         sync.Mutex
	items      []*item
	processing bool
}

// New constructs an empty Queue.
func New() *Queue {
	return &Queue{}
}

// Submit enqueues work and returns the handle that settles with its outcome.
// The work receives a context carrying ctx's values but not its cancellation:
// once started, a task always runs to completion.
func (q *Queue) Submit(ctx context.Context, work Work) *Handle {
	if ctx == nil {
		ctx = context.Background()
	}
	it := &item{
		id:         uuid.NewString(),
		ctx:        context.WithoutCancel(ctx),
		work:       work,
		handle:     newHandle(),
		enqueuedAt: time.Now(),
	}

	q.mu.Lock()
	q.items = append(q.items, it)
	pending := len(q.items)
	q.mu.Unlock()

	metrics.SetQueuePending(pending)
	telemetry.Debug("queue.task.enqueued", map[string]any{
		"task_id": it.id,
		"pending": pending,
	})

	q.advance()
	return it.handle
}

// Pending reports how many submitted items have not started yet.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Running reports whether an item is currently executing.
func (q *Queue) Running() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}

// advance starts the head item if nothing is running.
func (q *Queue) advance() {
	q.mu.Lock()
	if q.processing || len(q.items) == 0 {
		q.mu.Unlock()
		return
	}
	q.processing = true
	it := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	pending := len(q.items)
	q.mu.Unlock()

	metrics.SetQueuePending(pending)
	go q.run(it)
}

func (q *Queue) run(it *item) {
	startedAt := time.Now()
	telemetry.Debug("queue.task.started", map[string]any{
		"task_id":    it.id,
		"request_id": telemetry.RequestIDFrom(it.ctx),
		"wait_ms":    float64(startedAt.Sub(it.enqueuedAt).Microseconds()) / 1000.0,
	})

	value, err := execute(it.ctx, it.work)
	it.handle.settle(value, err)

	fields := map[string]any{
		"task_id":     it.id,
		"request_id":  telemetry.RequestIDFrom(it.ctx),
		"duration_ms": float64(time.Since(startedAt).Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["err"] = err.Error()
		telemetry.Warn("queue.task.failed", fields)
	} else {
		telemetry.Debug("queue.task.completed", fields)
	}
	metrics.ObserveQueueTaskDurationMs(float64(time.Since(startedAt).Microseconds()) / 1000.0)

	q.mu.Lock()
	q.processing = false
	q.mu.Unlock()
	q.advance()
}

// execute calls work, turning a panic into an error so the lane keeps moving.
func execute(ctx context.Context, work Work) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Error("queue.task.panic", map[string]any{
				"error": fmt.Sprint(rec),
				"stack": string(debug.Stack()),
			})
			value = nil
			err = fmt.Errorf("task panic: %v", rec)
		}
	}()
	if work == nil {
		return nil, fmt.Errorf("task has no work")
	}
	return work(ctx)
}
