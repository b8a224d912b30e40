package taskqueue

import (
	"context"
	"fmt"
	"sync"
)

// Handle is the completion handle of one submitted item. It settles exactly
// once, with either the work's value or its error.
type Handle struct {
	once  sync.Once
	done  chan struct{}
	value any
	err   error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

func (h *Handle) settle(value any, err error) {
	h.once.Do(func() {
		h.value = value
		h.err = err
		close(h.done)
	})
}

// Done is closed when the handle settles.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Result blocks until the handle settles and returns the outcome.
func (h *Handle) Result() (any, error) {
	<-h.done
	return h.value, h.err
}

// Wait blocks until the handle settles or ctx ends. Abandoning the wait does
// not stop the work.
func (h *Handle) Wait(ctx context.Context) (any, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Do submits fn to q and blocks until it settles, returning a typed result.
func Do[T any](ctx context.Context, q *Queue, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	h := q.Submit(ctx, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	value, err := h.Result()
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok && value != nil {
		return zero, fmt.Errorf("task result has type %T", value)
	}
	return typed, nil
}
