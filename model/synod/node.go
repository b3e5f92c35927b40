package synod

import "fmt"

type Node int     // Node is a process index from 0 through n-1
type Ballot int64 // Ballot totally orders competing proposals
type Value int    // Value is the binary value being agreed upon

const None Value = -1 // None marks an estimate or decision not yet set

// State is a process's operating state under the crash-stop fault model.
type State int

const (
	Correct    State = iota // Never crashes
	ErrorProne              // May fall silent on any received message
	Silent                  // Crashed: drops everything from now on
)

func (s State) String() string {
	switch s {
	case Correct:
		return "CORRECT"
	case ErrorProne:
		return "ERROR_PRONE"
	case Silent:
		return "SILENT"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Phase is the proposer's progress through its current round.
type Phase int

const (
	PhasePrepare Phase = iota // Collecting promises
	PhaseImpose               // Collecting acknowledgments
	PhaseDecide               // Decided, or learned a decision
)

func (p Phase) String() string {
	switch p {
	case PhasePrepare:
		return "PREPARE"
	case PhaseImpose:
		return "IMPOSE"
	case PhaseDecide:
		return "DECIDE"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// PromiseState is what an acceptor reports in a Promise:
// the highest ballot it accepted a value for, and that value.
type PromiseState struct {
	ImposeBallot Ballot // Highest ballot whose value was accepted
	Estimate     Value  // Value accepted at ImposeBallot
}

// Less orders promise states solely by ImposeBallot.
// States with equal ImposeBallot are unordered.
func (s PromiseState) Less(o PromiseState) bool {
	return s.ImposeBallot < o.ImposeBallot
}
