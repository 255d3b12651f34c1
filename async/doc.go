// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package async provides helpers for running operations with timeouts,
// polling until a condition holds, bounded parallel execution, and
// retry with exponential backoff.
//
// All blocking helpers take a context.Context and return promptly when
// it is cancelled. Operations are plain functions returning a value and
// an error; the helpers add the scheduling around them.
//
// # Key Functions
//
//   - RunWithTimeout: run one operation with a deadline
//   - Poll: invoke a check at a fixed interval until it reports true
//   - Parallel / ParallelLimit: run many operations concurrently,
//     optionally bounded by a worker limit
//   - Retry: re-run a failing operation with exponential backoff
//
// # Usage
//
//	result, err := async.Retry(ctx, fetch, async.RetryOptions{
//		MaxRetries:   3,
//		InitialDelay: time.Second,
//	})
//
//	ok, err := async.Poll(ctx, check, async.PollOptions{
//		Interval: 2 * time.Second,
//		Timeout:  time.Minute,
//	})
//
// Queue is a small FIFO handoff between producer and consumer
// goroutines with blocking and non-blocking access.
package async
