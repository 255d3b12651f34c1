// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueClosed is returned by Put and Get after Close.
var ErrQueueClosed = errors.New("queue closed")

// =============================================================================
// QUEUE
// =============================================================================

// Queue is an unbounded FIFO hand-off between producer and consumer
// goroutines. Put never blocks; Get blocks until an item arrives, the
// context is cancelled, or the queue is closed. All methods are safe for
// concurrent use.
type Queue[T any] struct {
	// mu protects all fields below
	mu sync.Mutex

	// items holds buffered values not yet claimed by a consumer
	items []T

	// waiters are consumers blocked in Get, oldest first; each channel
	// is buffered so a producer can hand off without blocking
	waiters []chan T

	// closed marks the queue as shut down
	closed bool
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Put appends an item, handing it directly to the oldest blocked consumer
// when one is waiting. Returns ErrQueueClosed after Close.
func (q *Queue[T]) Put(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		w <- item
		return nil
	}
	q.items = append(q.items, item)
	return nil
}

// Get removes and returns the oldest item, blocking until one is
// available. Items buffered before Close are still drained; once the
// queue is both closed and empty, Get returns ErrQueueClosed.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T

	q.mu.Lock()
	if len(q.items) > 0 {
		item := q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		return item, nil
	}
	if q.closed {
		q.mu.Unlock()
		return zero, ErrQueueClosed
	}
	w := make(chan T, 1)
	q.waiters = append(q.waiters, w)
	q.mu.Unlock()

	select {
	case item, ok := <-w:
		if !ok {
			return zero, ErrQueueClosed
		}
		return item, nil
	case <-ctx.Done():
		q.mu.Lock()
		for i, waiter := range q.waiters {
			if waiter == w {
				q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
				q.mu.Unlock()
				return zero, ctx.Err()
			}
		}
		q.mu.Unlock()
		// A producer or Close raced the cancellation and already took
		// this waiter; honor the hand-off.
		item, ok := <-w
		if !ok {
			return zero, ErrQueueClosed
		}
		return item, nil
	}
}

// TryGet removes and returns the oldest item without blocking. The bool
// reports whether an item was available.
func (q *Queue[T]) TryGet() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len returns the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue holds no buffered items.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Close shuts the queue down. Blocked consumers are released with
// ErrQueueClosed; already-buffered items remain available to Get and
// TryGet. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	for _, w := range q.waiters {
		close(w)
	}
	q.waiters = nil
}
