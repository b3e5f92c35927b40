package trace

import (
	"errors"
	"fmt"

	"github.com/ablicq/SLR210-blockchain/model/synod"
)

// Check runs every property check over the events of a group of n processes
// and returns all the violations found, or nil.
func Check(evs []synod.Event, n int) error {
	return errors.Join(
		CheckAgreement(evs),
		CheckValidity(evs),
		CheckMonotonic(evs),
		CheckBallots(evs, n),
		CheckAbsorbing(evs),
	)
}

// CheckAgreement verifies that every decision reached or learned
// by any process is for the same value.
func CheckAgreement(evs []synod.Event) error {
	var first *synod.Event
	for i := range evs {
		ev := &evs[i]
		if ev.Kind != synod.Decided && ev.Kind != synod.Learned {
			continue
		}
		if first == nil {
			first = ev
		} else if ev.Value != first.Value {
			return fmt.Errorf("agreement: P%d %v %d but P%d %v %d",
				first.Node, first.Kind, first.Value,
				ev.Node, ev.Kind, ev.Value)
		}
	}
	return nil
}

// CheckValidity verifies that every decided value
// is the personal value some process launched with.
func CheckValidity(evs []synod.Event) error {
	launched := make(map[synod.Value]bool)
	for _, ev := range evs {
		if ev.Kind == synod.Launched {
			launched[ev.Value] = true
		}
	}
	for _, ev := range evs {
		if (ev.Kind == synod.Decided || ev.Kind == synod.Learned) &&
			!launched[ev.Value] {
			return fmt.Errorf("validity: P%d %v %d, never proposed",
				ev.Node, ev.Kind, ev.Value)
		}
	}
	return nil
}

// CheckMonotonic verifies that no process's promise or impose ballot
// ever decreases, and that each changes only when the process
// promises or accepts a ballot respectively.
func CheckMonotonic(evs []synod.Event) error {
	type ballots struct{ promise, impose synod.Ballot }
	last := make(map[synod.Node]ballots)
	for _, ev := range evs {
		l := last[ev.Node]
		switch {
		case ev.PromiseBallot < l.promise || ev.ImposeBallot < l.impose:
			return fmt.Errorf("monotonicity: %v after promise %d impose %d",
				ev, l.promise, l.impose)
		case ev.PromiseBallot != l.promise && ev.Kind != synod.Promised:
			return fmt.Errorf("monotonicity: promise ballot moved by %v", ev)
		case ev.ImposeBallot != l.impose && ev.Kind != synod.Accepted:
			return fmt.Errorf("monotonicity: impose ballot moved by %v", ev)
		}
		last[ev.Node] = ballots{ev.PromiseBallot, ev.ImposeBallot}
	}
	return nil
}

// CheckBallots verifies that each process proposes only
// with ballots from its own sequence, never reusing one.
func CheckBallots(evs []synod.Event, n int) error {
	used := make(map[synod.Ballot]synod.Node)
	for _, ev := range evs {
		if ev.Kind != synod.Proposed {
			continue
		}
		if o := synod.BallotOwner(ev.Ballot, n); o != ev.Node {
			return fmt.Errorf("ballots: P%d proposed %d owned by P%d",
				ev.Node, ev.Ballot, o)
		}
		if o, dup := used[ev.Ballot]; dup {
			return fmt.Errorf("ballots: %d proposed by P%d and P%d",
				ev.Ballot, o, ev.Node)
		}
		used[ev.Ballot] = ev.Node
	}
	return nil
}

// CheckAbsorbing verifies that a process that fell silent
// does nothing at all afterwards.
func CheckAbsorbing(evs []synod.Event) error {
	silent := make(map[synod.Node]bool)
	for _, ev := range evs {
		if silent[ev.Node] {
			return fmt.Errorf("absorption: silent process did %v", ev)
		}
		if ev.Kind == synod.Silenced {
			silent[ev.Node] = true
		}
	}
	return nil
}
