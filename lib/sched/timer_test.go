package sched

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedule(t *testing.T) {
	tm := New(context.Background())

	var fired int32
	start := time.Now()
	for i := 0; i < 10; i++ {
		tm.Schedule(5*time.Millisecond, func() {
			atomic.AddInt32(&fired, 1)
		})
	}
	tm.Wait()

	if n := atomic.LoadInt32(&fired); n != 10 {
		t.Errorf("%d of 10 actions fired", n)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("actions fired after only %v", elapsed)
	}
}

func TestCancelDropsPending(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tm := New(ctx)

	var fired int32
	tm.Schedule(time.Hour, func() { atomic.AddInt32(&fired, 1) })
	cancel()
	tm.Wait()

	// Scheduling after cancellation is a no-op.
	tm.Schedule(0, func() { atomic.AddInt32(&fired, 1) })
	tm.Wait()

	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("%d actions fired after cancellation", n)
	}
}
