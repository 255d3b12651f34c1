// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package async

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultPollInterval is the pause between condition checks in Poll.
	DefaultPollInterval = 1 * time.Second

	// DefaultParallelLimit is the worker bound used by ParallelLimit when
	// the caller passes a limit of zero.
	DefaultParallelLimit = 5

	// DefaultMaxRetries is the number of re-attempts made by Retry after
	// the first failure.
	DefaultMaxRetries = 3

	// DefaultInitialDelay is the pause before the first retry.
	DefaultInitialDelay = 1 * time.Second

	// DefaultBackoffFactor is the multiplier applied to the retry delay
	// after each failed attempt.
	DefaultBackoffFactor = 2.0
)

// =============================================================================
// TIMEOUT
// =============================================================================

// RunWithTimeout runs op with a deadline. The operation receives a context
// that is cancelled when the timeout expires; if it has not returned by
// then, the zero value and context.DeadlineExceeded are returned.
//
// RELIABILITY: the operation goroutine writes its result into a buffered
// channel, so an operation that ignores cancellation finishes in the
// background without leaking a blocked goroutine.
func RunWithTimeout[T any](ctx context.Context, timeout time.Duration, op func(context.Context) (T, error)) (T, error) {
	opCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value T
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		value, err := op(opCtx)
		done <- outcome{value: value, err: err}
	}()

	select {
	case result := <-done:
		return result.value, result.err
	case <-opCtx.Done():
		var zero T
		return zero, opCtx.Err()
	}
}

// =============================================================================
// POLLING
// =============================================================================

// PollOptions configures Poll.
type PollOptions struct {
	// Interval is the pause between checks (default DefaultPollInterval).
	Interval time.Duration

	// Timeout bounds the whole poll (0 = poll until the context ends).
	Timeout time.Duration

	// OnCheck, when set, is called with the 1-based attempt number
	// before each check. Useful for progress reporting.
	OnCheck func(attempt int)
}

// Poll invokes check at a fixed interval until it reports true.
//
// The first check runs immediately; later checks are paced by a rate
// limiter so slow checks do not stack up additional delay. Poll returns
// (true, nil) once the condition holds, (false, nil) when the timeout
// elapses first, and (false, err) when the check fails or the caller's
// context is cancelled.
func Poll(ctx context.Context, check func(context.Context) (bool, error), opts PollOptions) (bool, error) {
	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	pollCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	attempt := 0
	for {
		if err := limiter.Wait(pollCtx); err != nil {
			// Distinguish the poll window closing from the caller
			// cancelling: only the latter is an error.
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			return false, nil
		}

		attempt++
		if opts.OnCheck != nil {
			opts.OnCheck(attempt)
		}

		ok, err := check(pollCtx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
}

// =============================================================================
// PARALLEL EXECUTION
// =============================================================================

// Parallel runs all operations concurrently and returns their results in
// call order. The first failure cancels the context passed to the
// remaining operations and is returned after all of them have finished.
func Parallel[T any](ctx context.Context, ops ...func(context.Context) (T, error)) ([]T, error) {
	return ParallelLimit(ctx, ops, len(ops), nil)
}

// ParallelLimit runs the operations with at most limit of them in flight
// at once (limit <= 0 uses DefaultParallelLimit). Results are returned in
// call order regardless of completion order.
//
// onComplete, when non-nil, is called as each operation succeeds with the
// operation's index and result. Calls are serialized, so the callback may
// touch shared state without its own locking.
//
// The first failure cancels the context handed to the other operations;
// ParallelLimit waits for all of them before returning that error. On
// error the slice keeps its full length, with zero values in the slots
// whose operations did not complete.
func ParallelLimit[T any](ctx context.Context, ops []func(context.Context) (T, error), limit int, onComplete func(index int, result T)) ([]T, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultParallelLimit
	}
	if limit > len(ops) {
		limit = len(ops)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		sem      = make(chan struct{}, limit)
		results  = make([]T, len(ops))
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for i, op := range ops {
		wg.Add(1)
		go func(index int, op func(context.Context) (T, error)) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-runCtx.Done():
				fail(runCtx.Err())
				return
			}
			defer func() { <-sem }()

			value, err := op(runCtx)
			if err != nil {
				fail(err)
				return
			}

			mu.Lock()
			results[index] = value
			if onComplete != nil {
				onComplete(index, value)
			}
			mu.Unlock()
		}(i, op)
	}

	wg.Wait()
	return results, firstErr
}

// =============================================================================
// RETRY
// =============================================================================

// RetryOptions configures Retry. The zero value selects the package
// defaults.
type RetryOptions struct {
	// MaxRetries is the number of re-attempts after the first failure
	// (<= 0 uses DefaultMaxRetries).
	MaxRetries int

	// InitialDelay is the pause before the first retry
	// (<= 0 uses DefaultInitialDelay).
	InitialDelay time.Duration

	// BackoffFactor multiplies the delay after each failed attempt
	// (<= 0 uses DefaultBackoffFactor).
	BackoffFactor float64

	// OnRetry, when set, is called with the 1-based attempt number and
	// the error that triggered the retry, before the backoff sleep.
	OnRetry func(attempt int, err error)
}

// Retry runs op, re-attempting with exponential backoff on failure.
// When all attempts fail, the last error is returned unchanged so the
// caller can inspect it with errors.Is.
//
// Cancelling the context aborts the backoff sleep and returns ctx.Err().
func Retry[T any](ctx context.Context, op func(context.Context) (T, error), opts RetryOptions) (T, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	delay := opts.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}
	factor := opts.BackoffFactor
	if factor <= 0 {
		factor = DefaultBackoffFactor
	}

	var zero T
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		lastErr = err
		if attempt == maxRetries {
			break
		}

		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, err)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		delay = time.Duration(float64(delay) * factor)
	}
	return zero, lastErr
}
