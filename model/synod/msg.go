package synod

import "fmt"

type Type int // Type of message
const (
	// Driver commands
	SetPeers    Type = iota // Install the peer directory
	InjectCrash             // Make the process error-prone
	Launch                  // Pick a personal value and start proposing
	Hold                    // Stop initiating new rounds
	Stop                    // Terminate the process instance

	// Protocol messages
	Prepare // Proposer asks acceptors to promise Ballot
	Abort   // Acceptor refuses Ballot
	Promise // Acceptor promises Ballot, reporting State
	Impose  // Proposer asks acceptors to accept Value at Ballot
	Ack     // Acceptor accepted the value imposed at Ballot
	Decide  // Value has been decided

	Retry // Internal: re-propose after an abort
)

var typeNames = [...]string{
	SetPeers:    "SetPeers",
	InjectCrash: "InjectCrash",
	Launch:      "Launch",
	Hold:        "Hold",
	Stop:        "Stop",
	Prepare:     "Prepare",
	Abort:       "Abort",
	Promise:     "Promise",
	Impose:      "Impose",
	Ack:         "Ack",
	Decide:      "Decide",
	Retry:       "Retry",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Message is the single envelope for every command and protocol message.
// Only the fields relevant to Type are meaningful.
type Message struct {
	From   Node         // Which process sent this message
	Type   Type         // Message type
	Ballot Ballot       // Prepare, Abort, Promise, Impose, Ack
	Value  Value        // Impose, Decide
	State  PromiseState // Promise
	Peers  []Peer       // SetPeers: directory indexed by Node
}

func (m *Message) String() string {
	switch m.Type {
	case Prepare, Abort, Ack:
		return fmt.Sprintf("%v(%d)", m.Type, m.Ballot)
	case Promise:
		return fmt.Sprintf("Promise(%d, %d/%d)", m.Ballot,
			m.State.ImposeBallot, m.State.Estimate)
	case Impose:
		return fmt.Sprintf("Impose(%d, %d)", m.Ballot, m.Value)
	case Decide:
		return fmt.Sprintf("Decide(%d)", m.Value)
	case SetPeers:
		return fmt.Sprintf("SetPeers(%d)", len(m.Peers))
	}
	return m.Type.String()
}

// Peer is the interface to a process in the directory, ourself included.
// Send must not block on the receiver handling the message,
// and must preserve send order between any fixed pair of processes.
type Peer interface {
	Send(msg *Message) // Deliver a Message to this peer
}
