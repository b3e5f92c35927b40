package synod

import "fmt"

// Kind identifies what happened in an Event.
type Kind int

const (
	Faulted   Kind = iota // Became error-prone
	Silenced              // Fell silent (crashed)
	Installed             // Peer directory installed, ballot rebased
	Launched              // Personal value chosen
	Held                  // Stopped initiating rounds
	Proposed              // Started a round at Ballot
	Promised              // As acceptor, promised Ballot
	Accepted              // As acceptor, accepted Value at Ballot
	Refused               // As acceptor, aborted Ballot
	Imposing              // Promise quorum reached, imposing Value
	Decided               // Ack quorum reached, deciding Value
	Learned               // Decide received, decision set to Value
	Scheduled             // Retry scheduled after abort of Ballot
	Sent                  // Message sent to Peer
)

var kindNames = [...]string{
	Faulted:   "faulted",
	Silenced:  "silenced",
	Installed: "installed",
	Launched:  "launched",
	Held:      "held",
	Proposed:  "proposed",
	Promised:  "promised",
	Accepted:  "accepted",
	Refused:   "refused",
	Imposing:  "imposing",
	Decided:   "decided",
	Learned:   "learned",
	Scheduled: "scheduled",
	Sent:      "sent",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Event records one state change or emission of a process,
// together with a snapshot of its acceptor state just afterwards.
type Event struct {
	Node   Node   // Process the event happened at
	Kind   Kind   // What happened
	Peer   Node   // Destination, for Sent
	Type   Type   // Message type, for Sent
	Ballot Ballot // Ballot involved, if any
	Value  Value  // Value involved, if any

	State         State  // Operating state afterwards
	Phase         Phase  // Proposer phase afterwards
	PromiseBallot Ballot // Acceptor promise ballot afterwards
	ImposeBallot  Ballot // Acceptor impose ballot afterwards
}

func (e Event) String() string {
	s := fmt.Sprintf("P%d %v", e.Node, e.Kind)
	if e.Kind == Sent {
		s += fmt.Sprintf(" %v to P%d", e.Type, e.Peer)
	}
	return s + fmt.Sprintf(" ballot=%d value=%d state=%v phase=%v "+
		"promise=%d impose=%d", e.Ballot, e.Value,
		e.State, e.Phase, e.PromiseBallot, e.ImposeBallot)
}

// Observer receives the events of one or more processes.
// Observe is called synchronously from the process's dispatch goroutine,
// so implementations shared across processes must do their own locking.
type Observer interface {
	Observe(ev Event)
}

type nopObserver struct{}

func (nopObserver) Observe(Event) {}
