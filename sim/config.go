package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/ablicq/SLR210-blockchain/model/synod"
)

// ErrConfig is returned by Run and Config.Validate
// for a configuration no run can be made with.
var ErrConfig = errors.New("invalid configuration")

const DefaultSettle = 100 * time.Millisecond // Time before electing a leader
const DefaultLinger = time.Second            // Time the leader gets alone

// Config describes one simulation run.
// Zero-valued optional fields take the defaults noted below.
type Config struct {
	N int // Number of processes
	F int // Number of processes made error-prone

	// Settle is how long all processes compete
	// before all but one of them are put on hold.
	// Defaults to DefaultSettle.
	Settle time.Duration

	// Linger is how long the leader runs alone before the group is stopped.
	// Defaults to DefaultLinger.
	Linger time.Duration

	// Await, if set, stops the group as soon as every process
	// that has not crashed has learned the decision,
	// instead of always waiting out the whole Linger period.
	Await bool

	// CrashProb is the chance an error-prone process falls silent
	// on each message it receives.
	// Defaults to synod.DefaultCrashProb.
	CrashProb float64

	// RetryDelay is the pause before a refused proposer tries again.
	// Defaults to synod.DefaultRetryDelay.
	RetryDelay time.Duration

	// MaxDelay, if positive, delays every delivery
	// by a random time up to MaxDelay.
	MaxDelay time.Duration

	// Seed drives every random choice of the run:
	// the faulty set, the leader, and each process's private source.
	// Zero picks a seed from the clock.
	Seed int64

	// Observer, if non-nil, is told about every event of every process.
	// It is called concurrently from all the processes.
	Observer synod.Observer
}

// Validate reports why c cannot be run, if it cannot.
// A majority of faulty processes is allowed,
// though the group may then never decide.
func (c *Config) Validate() error {
	switch {
	case c.N <= 0:
		return fmt.Errorf("%w: need at least one process, got %d",
			ErrConfig, c.N)
	case c.F < 0 || c.F > c.N:
		return fmt.Errorf("%w: %d faulty out of %d processes",
			ErrConfig, c.F, c.N)
	case c.Settle < 0 || c.Linger < 0 || c.RetryDelay < 0 || c.MaxDelay < 0:
		return fmt.Errorf("%w: negative duration", ErrConfig)
	case c.CrashProb < 0 || c.CrashProb > 1:
		return fmt.Errorf("%w: crash probability %v", ErrConfig, c.CrashProb)
	}
	return nil
}

// Return a copy of c with the defaults filled in.
func (c Config) withDefaults() Config {
	if c.Settle == 0 {
		c.Settle = DefaultSettle
	}
	if c.Linger == 0 {
		c.Linger = DefaultLinger
	}
	if c.CrashProb == 0 {
		c.CrashProb = synod.DefaultCrashProb
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = synod.DefaultRetryDelay
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}
