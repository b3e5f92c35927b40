// Package backoff polls a condition with randomized exponential backoff
// until it holds, the caller gives up, or a time limit runs out.
// The simulation driver uses it to wait for a group of processes
// to converge, without spinning and without a fixed sleep.
//
package backoff

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("backoff")

// ErrLimit is returned by Retry when Config.Limit runs out
// before an attempt succeeds.
var ErrLimit = errors.New("backoff limit reached")

// Retry calls try() repeatedly until it returns without an error,
// with the default configuration: no time limit and unbounded waits.
//
// The caller may pass a cancelable context in the ctx parameter,
// in which case Retry gives up calling try when the context is cancelled.
// If the context was already cancelled on the call to Retry,
// then Retry returns ctx.Err() immediately without calling try.
//
func Retry(ctx context.Context, try func() error) error {
	return Config{}.Retry(ctx, try)
}

// Config holds the parameters of a backoff loop.
// The zero Config is usable.
//
// Report, if non-nil, is called with each failed attempt's error.
// It may return a non-nil error to end the loop early,
// when it sees that the failure is permanent and waiting will not help.
// If nil, failures are logged at debug level.
//
type Config struct {
	Report  func(error) error // Function to report errors
	MinWait time.Duration     // First wait period, if positive
	MaxWait time.Duration     // Bound on each wait period, if positive
	Limit   time.Duration     // Total time to keep trying, if positive

	mayGrow struct{} // Ensure Config remains extensible
}

func defaultReport(err error) error {
	log.Debugf("attempt failed: %v", err)
	return nil
}

// Retry calls try() repeatedly until it returns without an error,
// waiting between attempts as configured by c.
// When c.Limit runs out, Retry returns an error wrapping ErrLimit
// that also describes the last failure.
func (c Config) Retry(ctx context.Context, try func() error) error {
	if c.Report == nil {
		c.Report = defaultReport
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var expired <-chan time.Time
	if c.Limit > 0 {
		lt := time.NewTimer(c.Limit)
		defer lt.Stop()
		expired = lt.C
	}

	wait := time.Duration(1)
	if c.MinWait > wait {
		wait = c.MinWait
	}
	for attempt := 1; ; attempt++ {
		start := time.Now()
		err := try()
		if err == nil {
			return nil
		}
		if rerr := c.Report(err); rerr != nil {
			return rerr
		}
		wait = c.grow(wait, time.Since(start))

		t := time.NewTimer(wait)
		select {
		case <-t.C:

		case <-expired:
			t.Stop()
			return fmt.Errorf("%w after %d attempts: %v",
				ErrLimit, attempt, err)

		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}
	}
}

// Grow the wait period by a random amount,
// never below the time the last attempt itself took.
func (c Config) grow(wait, took time.Duration) time.Duration {
	if wait < took {
		wait = took
	}
	wait += time.Duration(rand.Int63n(int64(wait)))
	if c.MaxWait > 0 && wait > c.MaxWait {
		wait = c.MaxWait
	}
	return wait
}
