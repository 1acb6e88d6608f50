package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var out []T
	err := ForEach(ctx, p, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

func TestFromSlice(t *testing.T) {
	t.Run("in order", func(t *testing.T) {
		got, err := drain(context.Background(), FromSlice([]string{"a", "b", "c"}))
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})
	t.Run("empty", func(t *testing.T) {
		got, err := drain(context.Background(), FromSlice[int](nil))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := drain(ctx, FromSlice([]int{1}))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMap_StopsPullingOnError(t *testing.T) {
	boom := errors.New("boom")
	var seen []int
	p := Map(FromSlice([]int{1, 2, 3, 4}), func(_ context.Context, n int) (int, error) {
		seen = append(seen, n)
		if n == 2 {
			return 0, boom
		}
		return n * 10, nil
	})

	var got []int
	err := ForEach(context.Background(), p, func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{10}, got)
	assert.Equal(t, []int{1, 2}, seen)
}

func TestTakeWhile(t *testing.T) {
	tests := []struct {
		name      string
		in        []float64
		want      []float64
		stoppedAt float64
		stopped   bool
	}{
		{"stops at first rejected", []float64{1, 2, 9, 3}, []float64{1, 2}, 9, true},
		{"all kept", []float64{1, 2, 3}, []float64{1, 2, 3}, 0, false},
		{"first rejected", []float64{9, 1}, nil, 9, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stoppedAt float64
			stopped := false
			p := TakeWhile(FromSlice(tt.in), func(v float64) bool { return v < 5 }, func(v float64) {
				stopped = true
				stoppedAt = v
			})
			got, err := drain(context.Background(), p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.stopped, stopped)
			assert.Equal(t, tt.stoppedAt, stoppedAt)
		})
	}
}

func TestTakeWhile_DoesNotRunLaterStages(t *testing.T) {
	mapped := 0
	p := Map(
		TakeWhile(FromSlice([]int{1, 2, 3}), func(n int) bool { return n < 2 }, nil),
		func(_ context.Context, n int) (int, error) {
			mapped++
			return n, nil
		},
	)
	got, err := drain(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, got)
	assert.Equal(t, 1, mapped)
}

func TestForEach_SinkError(t *testing.T) {
	stop := errors.New("sink full")
	calls := 0
	err := ForEach(context.Background(), FromSlice([]int{1, 2, 3}), func(context.Context, int) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
