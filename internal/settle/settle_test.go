package settle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
	"wiki-ui-suite/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fast = Options{Budget: 300 * time.Millisecond, Interval: 5 * time.Millisecond}

func TestPollReturnsWhenConditionHolds(t *testing.T) {
	var calls atomic.Int32

	err := Poll(context.Background(), fast, func(context.Context) (bool, error) {
		return calls.Add(1) >= 3, nil
	})

	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestPollTimesOutWithTypedError(t *testing.T) {
	started := time.Now()

	err := Poll(context.Background(), fast, func(context.Context) (bool, error) {
		return false, nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.Less(t, time.Since(started), 2*time.Second)
}

func TestPollRetriesStaleErrorsUntilBudget(t *testing.T) {
	stale := apperr.StaleError("Text", errors.New("element is not attached to the DOM"))

	err := Poll(context.Background(), fast, func(context.Context) (bool, error) {
		return false, stale
	})

	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.ErrorIs(t, err, apperr.ErrStaleElement, "timeout should surface the last read error")
}

func TestPollStopsOnHardError(t *testing.T) {
	hard := errors.New("browser crashed")
	var calls atomic.Int32

	err := Poll(context.Background(), fast, func(context.Context) (bool, error) {
		calls.Add(1)
		return false, hard
	})

	assert.ErrorIs(t, err, hard)
	assert.EqualValues(t, 1, calls.Load())
}

func TestPollHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Poll(ctx, fast, func(context.Context) (bool, error) {
		return false, nil
	})

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperr.ErrTimeout)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSettleObservesChange(t *testing.T) {
	var state atomic.Value
	state.Store([]string{"a"})

	snapshot := func(context.Context) ([]string, error) {
		return state.Load().([]string), nil
	}
	action := func(context.Context) error {
		time.AfterFunc(20*time.Millisecond, func() {
			state.Store([]string{"a", "b"})
		})
		return nil
	}

	got, err := Settle(context.Background(), fast, snapshot, action, SliceChanged[string])
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestSettleTimeoutKeepsLatestSnapshot(t *testing.T) {
	snapshot := func(context.Context) ([]string, error) {
		return []string{"same"}, nil
	}
	action := func(context.Context) error { return nil }

	got, err := Settle(context.Background(), fast, snapshot, action, SliceChanged[string])
	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.Equal(t, []string{"same"}, got)
	assert.NoError(t, BestEffort(err))
}

func TestSettleActionErrorPropagates(t *testing.T) {
	boom := errors.New("click intercepted")

	_, err := Settle(context.Background(), fast,
		func(context.Context) (int, error) { return 0, nil },
		func(context.Context) error { return boom },
		func(a, b int) bool { return a != b },
	)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, boom, BestEffort(err))
}

func TestRetryRecoversFromStaleRead(t *testing.T) {
	var calls atomic.Int32

	got, err := Retry(context.Background(), fast, func(context.Context) (string, error) {
		if calls.Add(1) < 3 {
			return "", apperr.StaleError("Text", errors.New("detached"))
		}
		return "settled", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "settled", got)
}

func TestLocationMovedFromRequiresBothParts(t *testing.T) {
	prev := Location{URL: "https://wikipedia.org/", Title: "Wikipedia"}

	assert.False(t, Location{URL: "https://wikipedia.org/#x", Title: "Wikipedia"}.MovedFrom(prev))
	assert.False(t, Location{URL: "https://wikipedia.org/", Title: "Other"}.MovedFrom(prev))
	assert.True(t, Location{URL: "https://en.wikipedia.org/", Title: "Other"}.MovedFrom(prev))
}

func TestOptionsNormalize(t *testing.T) {
	o := Options{}.normalize()
	assert.Equal(t, DefaultBudget, o.Budget)
	assert.Equal(t, DefaultInterval, o.Interval)

	o = Options{Budget: time.Millisecond, Interval: time.Second}.normalize()
	assert.Equal(t, time.Millisecond, o.Interval)
}

func TestPollRunsFinalCheckAtDeadline(t *testing.T) {
	opts := Options{Budget: 300 * time.Millisecond, Interval: 200 * time.Millisecond}
	started := time.Now()

	err := Poll(context.Background(), opts, func(context.Context) (bool, error) {
		return time.Since(started) >= 250*time.Millisecond, nil
	})

	require.NoError(t, err, "state reached between the last paced poll and the deadline")
}

func TestPollUsesWholeBudget(t *testing.T) {
	tests := []struct {
		name  string
		opts  Options
		polls int32
	}{
		{"interval longer than remaining budget", Options{Budget: 150 * time.Millisecond, Interval: 100 * time.Millisecond}, 3},
		{"interval equal to budget", Options{Budget: 100 * time.Millisecond, Interval: 100 * time.Millisecond}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			started := time.Now()

			err := Poll(context.Background(), tt.opts, func(context.Context) (bool, error) {
				calls.Add(1)
				return false, nil
			})

			assert.ErrorIs(t, err, apperr.ErrTimeout)
			assert.GreaterOrEqual(t, time.Since(started), tt.opts.Budget)
			assert.Equal(t, tt.polls, calls.Load())
		})
	}
}

func TestPollParentDeadlineIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := Poll(ctx, Options{Budget: time.Second, Interval: 5 * time.Millisecond}, func(context.Context) (bool, error) {
		return false, nil
	})

	assert.ErrorIs(t, err, apperr.ErrTimeout)
	assert.Equal(t, apperr.CodeTimeout, apperr.CodeOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
