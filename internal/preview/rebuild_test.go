package preview

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRebuilder_SerializesAndCollapses(t *testing.T) {
	var (
		inFlight atomic.Int32
		overlap  atomic.Bool
		builds   atomic.Int32
	)
	release := make(chan struct{})
	r := NewRebuilder(func(context.Context) error {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}
		defer inFlight.Add(-1)
		if builds.Add(1) == 1 {
			<-release
		}
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Request()
	require.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)

	// Requests during a running build collapse into one follow-up.
	for range 5 {
		r.Request()
	}
	close(release)

	require.Eventually(t, func() bool { return builds.Load() == 2 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(2), builds.Load())
	require.False(t, overlap.Load())
}

func TestRebuilder_BuildNowWaitsForRunningBuild(t *testing.T) {
	var (
		inFlight atomic.Int32
		overlap  atomic.Bool
		builds   atomic.Int32
	)
	release := make(chan struct{})
	r := NewRebuilder(func(context.Context) error {
		if inFlight.Add(1) > 1 {
			overlap.Store(true)
		}
		defer inFlight.Add(-1)
		if builds.Add(1) == 1 {
			<-release
		}
		return nil
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	r.Request()
	require.Eventually(t, func() bool { return builds.Load() == 1 }, time.Second, 5*time.Millisecond)

	done := make(chan error, 1)
	go func() { done <- r.BuildNow(ctx) }()

	select {
	case <-done:
		t.Fatal("BuildNow returned while another build was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
	require.Equal(t, int32(2), builds.Load())
	require.False(t, overlap.Load())
}

func TestRebuilder_Health(t *testing.T) {
	fail := true
	r := NewRebuilder(func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}, nil)

	good, err := r.Healthy()
	require.False(t, good)
	require.NoError(t, err)

	require.Error(t, r.BuildNow(context.Background()))
	good, err = r.Healthy()
	require.False(t, good)
	require.EqualError(t, err, "boom")

	fail = false
	require.NoError(t, r.BuildNow(context.Background()))
	good, err = r.Healthy()
	require.True(t, good)
	require.NoError(t, err)

	fail = true
	_ = r.BuildNow(context.Background())
	good, err = r.Healthy()
	require.True(t, good, "a previous good build keeps the site usable")
	require.Error(t, err)
}
