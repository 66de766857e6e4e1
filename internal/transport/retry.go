// go-mfrc522
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-mfrc522.
//
// go-mfrc522 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-mfrc522 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-mfrc522; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package transport provides internal retry helpers shared by the commands
package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	mfrc522 "github.com/ZaparooProject/go-mfrc522"
)

// ErrRetriesExhausted is returned when every attempt asked to be retried
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: the failure; retried when shouldRetry is set, returned otherwise
type RetryOperation[T any] func() (T, bool, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	OnRetry     func(attempt int, err error)
	Description string
	MaxRetries  int
	RetryDelay  time.Duration
}

// Classify maps an error from a device operation onto the RetryOperation
// contract: retryable errors ask for another attempt, others are final.
func Classify(err error) (shouldRetry bool, final error) {
	if err == nil {
		return false, nil
	}
	if mfrc522.IsRetryable(err) {
		return true, err
	}
	return false, err
}

// WithRetry executes an operation up to MaxRetries+1 times
func WithRetry[T any](ctx context.Context, config RetryConfig, operation RetryOperation[T]) (T, error) {
	var (
		zero    T
		lastErr error
	)

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("%s: %w", config.Description, err)
		}

		result, shouldRetry, err := operation()
		if !shouldRetry {
			return result, err
		}
		lastErr = err

		// If we should retry but we're at max attempts, break
		if attempt >= config.MaxRetries {
			break
		}

		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err)
		}

		if err := sleep(ctx, config.RetryDelay); err != nil {
			return zero, fmt.Errorf("%s: %w", config.Description, err)
		}
	}

	if lastErr == nil {
		return zero, fmt.Errorf("%s: %w", config.Description, ErrRetriesExhausted)
	}
	return zero, fmt.Errorf("%s: %w: %w", config.Description, ErrRetriesExhausted, lastErr)
}

// TimeoutRetry keeps retrying an operation until it succeeds, fails for good
// or the timeout elapses. Used to wait for a tag to enter the field.
func TimeoutRetry[T any](ctx context.Context, timeout, interval time.Duration, operation RetryOperation[T]) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		result, shouldRetry, err := operation()
		if !shouldRetry {
			return result, err
		}

		if sleepErr := sleep(ctx, interval); sleepErr != nil {
			if errors.Is(sleepErr, context.DeadlineExceeded) {
				return zero, mfrc522.NewTimeoutError("timeoutRetry", "")
			}
			return zero, sleepErr
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
