// Package sched runs delayed actions for consensus processes.
//
// Scheduled actions are fire-and-forget: once scheduled,
// an action runs after its delay unless the Timer's context is cancelled first.
// Nothing else cancels it, so an action must re-check
// whatever conditions it depends on at the time it fires.
//
package sched

import (
	"context"
	"sync"
	"time"
)

// Timer schedules actions on behalf of a group of processes,
// and lets the owner of the group wait for all of them at teardown.
type Timer struct {
	ctx context.Context
	wg  sync.WaitGroup
}

// New creates a Timer whose pending actions are dropped
// once ctx is cancelled.
func New(ctx context.Context) *Timer {
	return &Timer{ctx: ctx}
}

// Schedule calls action once, on its own goroutine, after delay.
// If the Timer's context is cancelled first, action is never called.
func (t *Timer) Schedule(delay time.Duration, action func()) {

	// Don't bother starting anything if we're already shut down.
	if t.ctx.Err() != nil {
		return
	}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		// Wait for either the timer or a cancel signal.
		tm := time.NewTimer(delay)
		select {
		case <-tm.C:
			action()

		case <-t.ctx.Done():
			tm.Stop()
		}
	}()
}

// Wait blocks until every scheduled action has either run or been dropped.
func (t *Timer) Wait() {
	t.wg.Wait()
}
