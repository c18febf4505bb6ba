// Package settle synchronizes test code with a page region that updates on its own
// schedule. Every wait here is bounded: when the budget runs out the caller gets an
// apperr timeout error and decides whether that is a failure or an acceptable
// "nothing changed" outcome.
package settle

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"
	"wiki-ui-suite/pkg/apperr"

	"golang.org/x/time/rate"
)

const (
	DefaultBudget   = 2 * time.Second
	DefaultInterval = 50 * time.Millisecond
)

type Options struct {
	Budget   time.Duration
	Interval time.Duration
}

func (o Options) normalize() Options {
	if o.Budget <= 0 {
		o.Budget = DefaultBudget
	}

	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}

	if o.Interval > o.Budget {
		o.Interval = o.Budget
	}

	return o
}

// Condition reports whether the awaited state holds. A retryable error counts as
// "not yet"; any other error ends the wait immediately.
type Condition func(ctx context.Context) (bool, error)

// Poll evaluates cond until it holds or the budget elapses. Polls are paced by
// Interval; when the next paced poll would fall after the budget, one last poll runs
// at the deadline instead.
func Poll(ctx context.Context, opts Options, cond Condition) error {
	const op = "settle.Poll"

	opts = opts.normalize()
	started := time.Now()
	deadline := started.Add(opts.Budget)

	// cond may still be running at the deadline; give it one interval of slack.
	pollCtx, cancel := context.WithDeadline(ctx, deadline.Add(opts.Interval))
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)

	var lastErr error
	attempts := 0

	for {
		reservation := limiter.Reserve()
		delay := reservation.Delay()
		last := false

		if left := time.Until(deadline); delay >= left {
			reservation.Cancel()
			delay = max(left, 0)
			last = true
		}

		if err := sleep(ctx, delay); err != nil {
			return contextDone(op, err)
		}

		attempts++

		ok, err := cond(pollCtx)
		switch {
		case err != nil && !Retryable(err):
			if ctx.Err() != nil {
				return contextDone(op, ctx.Err())
			}

			return err
		case err != nil:
			lastErr = err
		case ok:
			return nil
		}

		if last {
			return timeout(op, opts, attempts, time.Since(started), lastErr)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if d <= 0 {
		return nil
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

// contextDone reports a wait cut short by the caller. A deadline from above (a case
// timeout) is still a timeout; a cancellation is not.
func contextDone(op string, err error) error {
	code := apperr.CodeInternal
	if errors.Is(err, context.DeadlineExceeded) {
		code = apperr.CodeTimeout
	}

	return apperr.Wrap(op, code, err, map[string]any{
		apperr.MetaReason: "context_done",
		apperr.MetaStage:  apperr.StageSettle,
	})
}

func timeout(op string, opts Options, attempts int, elapsed time.Duration, lastErr error) error {
	var cause error
	if lastErr != nil {
		cause = fmt.Errorf("condition not met within %s after %d polls: %w", opts.Budget, attempts, lastErr)
	} else {
		cause = fmt.Errorf("condition not met within %s after %d polls", opts.Budget, attempts)
	}

	return apperr.TimeoutError(op, cause, map[string]any{
		apperr.MetaStage:  apperr.StageSettle,
		apperr.MetaBudget: opts.Budget.String(),
		"elapsed":         elapsed.String(),
	})
}

// Settle captures a snapshot, performs action, then re-captures until the snapshot
// differs from the one taken before the action. On timeout it returns the latest
// snapshot together with the timeout error.
func Settle[T any](
	ctx context.Context,
	opts Options,
	snapshot func(ctx context.Context) (T, error),
	action func(ctx context.Context) error,
	changed func(before, after T) bool,
) (T, error) {
	var zero T

	before, err := Retry(ctx, opts, snapshot)
	if err != nil {
		return zero, err
	}

	if err := action(ctx); err != nil {
		return zero, err
	}

	latest := before

	err = Poll(ctx, opts, func(ctx context.Context) (bool, error) {
		after, err := snapshot(ctx)
		if err != nil {
			return false, err
		}

		latest = after

		return changed(before, after), nil
	})

	return latest, err
}

// Retry runs read until it succeeds or fails with a non-retryable error. When the
// budget runs out the timeout error wraps the last read error.
func Retry[T any](ctx context.Context, opts Options, read func(ctx context.Context) (T, error)) (T, error) {
	var result T

	err := Poll(ctx, opts, func(ctx context.Context) (bool, error) {
		v, err := read(ctx)
		if err != nil {
			return false, err
		}

		result = v

		return true, nil
	})

	return result, err
}

// Retryable reports whether err comes from reading a DOM that was replaced mid-read.
func Retryable(err error) bool {
	return apperr.HasCode(err, apperr.CodeStaleElement) || apperr.HasCode(err, apperr.CodeNotFound)
}

// BestEffort drops a timeout error, for callers that accept an unchanged snapshot.
func BestEffort(err error) error {
	if errors.Is(err, apperr.ErrTimeout) {
		return nil
	}

	return err
}

func SliceChanged[T comparable](before, after []T) bool {
	return !slices.Equal(before, after)
}

// Location is the URL and title pair watched around a navigation.
type Location struct {
	URL   string
	Title string
}

// MovedFrom requires both parts to change, so a same-title redirect or a
// history-only URL update does not count as having reached the next page.
func (l Location) MovedFrom(prev Location) bool {
	return l.URL != prev.URL && l.Title != prev.Title
}
