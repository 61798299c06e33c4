package site

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunOrdered_KeepsOrderAndBoundsConcurrency(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var inFlight, peak atomic.Int32

	results := runOrdered(context.Background(), items, 3, func(_ context.Context, _ int, v int) (int, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		if v == 4 {
			return 0, errors.New("four")
		}
		return v * 10, nil
	})

	require.Len(t, results, len(items))
	require.LessOrEqual(t, peak.Load(), int32(3))
	for i, r := range results {
		if items[i] == 4 {
			require.EqualError(t, r.Err, "four")
			continue
		}
		require.NoError(t, r.Err)
		require.Equal(t, items[i]*10, r.Value)
	}
}

func TestRunOrdered_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := runOrdered(ctx, []string{"a", "b"}, 0, func(context.Context, int, string) (string, error) {
		calls.Add(1)
		return "", nil
	})
	require.Zero(t, calls.Load())
	for _, r := range results {
		require.ErrorIs(t, r.Err, context.Canceled)
	}
	require.Nil(t, runOrdered(ctx, []string(nil), 2, func(context.Context, int, string) (string, error) { return "", nil }))
}
