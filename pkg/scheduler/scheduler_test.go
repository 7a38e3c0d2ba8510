package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndRepeats(t *testing.T) {
	var calls atomic.Int32
	s := New(20*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	after := calls.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no runs after stop")
}

func TestScheduler_JobErrorDoesNotStop(t *testing.T) {
	var calls atomic.Int32
	s := New(10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return errors.New("feed down")
	})
	s.Start(context.Background())
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_StopCancelsRunningJob(t *testing.T) {
	started := make(chan struct{})
	s := New(time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	s.Start(context.Background())
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop blocked")
	}
}

func TestNew_DefaultInterval(t *testing.T) {
	s := New(0, func(context.Context) error { return nil })
	assert.Equal(t, 24*time.Hour, s.interval)
}
