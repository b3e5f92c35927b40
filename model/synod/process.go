package synod

import (
	"math/rand"
	"time"

	logging "github.com/op/go-logging"
)

var log = logging.MustGetLogger("synod")

const DefaultCrashProb = 0.01                   // Chance per message to crash
const DefaultRetryDelay = 5 * time.Millisecond // Pause before re-proposing

// Scheduler runs an action once after a delay, on some other goroutine.
// Scheduled actions are never cancelled by the process.
type Scheduler interface {
	Schedule(delay time.Duration, action func())
}

type afterFunc struct{}

func (afterFunc) Schedule(delay time.Duration, action func()) {
	time.AfterFunc(delay, action)
}

// Process is one participant, acting as both proposer and acceptor.
type Process struct {
	self Node   // This process's index
	peer []Peer // Directory of all processes including ourself

	state  State // Operating state under the fault model
	phase  Phase // Proposer phase of the current round
	active bool  // Whether we keep initiating rounds

	ballot        Ballot // Our current proposal ballot
	promiseBallot Ballot // Highest ballot promised as acceptor
	imposeBallot  Ballot // Highest ballot accepted as acceptor
	estimate      Value  // Value accepted at imposeBallot

	personal Value // Value picked at launch
	proposed Value // Value being imposed in the current round
	decided  Value // Decided value, or None

	acks     int                   // Acks received for the current ballot
	promises map[Node]PromiseState // Promises received for the current ballot
	retried  Ballot                // Last ballot a retry was scheduled for

	// Optional configuration parameters with defaults set by NewProcess.
	// They must not be changed once the process handles messages.

	// CrashProb is the chance that an error-prone process
	// falls silent on each message it receives.
	CrashProb float64

	// RetryDelay is how long to wait after an abort before re-proposing.
	RetryDelay time.Duration

	// Rand is the process's private random source, used for the
	// personal value and for crash draws. Seed it for reproducible runs.
	Rand *rand.Rand

	// Scheduler delays retries. It defaults to time.AfterFunc.
	Scheduler Scheduler

	// Observer is told about every state change and message sent.
	Observer Observer

	// Log is where the process reports its transitions.
	Log *logging.Logger
}

// NewProcess creates a process with index self.
// Its ballot counter starts at self and is rebased when peers are installed.
func NewProcess(self Node) *Process {
	return &Process{
		self:     self,
		active:   true,
		ballot:   Ballot(self),
		estimate: None,
		personal: None,
		proposed: None,
		decided:  None,
		promises: make(map[Node]PromiseState),
		retried:  -1,

		CrashProb:  DefaultCrashProb,
		RetryDelay: DefaultRetryDelay,
		Rand: rand.New(rand.NewSource(
			time.Now().UnixNano() + int64(self))),
		Scheduler: afterFunc{},
		Observer:  nopObserver{},
		Log:       log,
	}
}

// Receive handles one message. The messaging layer must call Receive
// for a given process from one goroutine at a time, in delivery order.
func (p *Process) Receive(msg *Message) {

	// The fault model acts before anything else.
	switch p.state {
	case Silent:
		return
	case ErrorProne:
		if p.Rand.Float64() < p.CrashProb {
			p.crash()
			return
		}
	}

	switch msg.Type {
	case SetPeers:
		p.install(msg.Peers)

	case InjectCrash:
		p.state = ErrorProne
		p.Log.Infof("P%d: state changed to %v", p.self, p.state)
		p.emit(Event{Kind: Faulted})

	case Launch:
		p.launch()

	case Hold:
		p.active = false
		p.Log.Infof("P%d: held", p.self)
		p.emit(Event{Kind: Held})

	case Retry:
		if p.active {
			p.propose()
		}

	// Acceptor role
	case Prepare:
		p.prepare(msg)
	case Impose:
		p.impose(msg)

	// Proposer role
	case Promise:
		p.promise(msg)
	case Ack:
		p.ack(msg)
	case Abort:
		p.abort(msg)
	case Decide:
		p.learn(msg)
	}
}

// Emulate a crash.
func (p *Process) crash() {
	p.state = Silent
	p.Log.Infof("P%d: state changed to %v", p.self, p.state)
	p.emit(Event{Kind: Silenced})
}

// Install the peer directory and rebase the ballot counter,
// so that the first call to propose yields ballot self.
func (p *Process) install(peers []Peer) {
	p.peer = peers
	p.ballot -= Ballot(len(peers))
	p.Log.Debugf("P%d: received directory of %d processes",
		p.self, len(peers))
	p.emit(Event{Kind: Installed, Ballot: p.ballot})
}

// Send a message to one peer.
func (p *Process) send(to Node, msg *Message) {
	msg.From = p.self
	p.emit(Event{Kind: Sent, Peer: to, Type: msg.Type,
		Ballot: msg.Ballot, Value: msg.Value})
	p.peer[to].Send(msg)
}

// Send a copy of msg to every peer including ourself.
func (p *Process) broadcast(msg *Message) {
	for i := range p.peer {
		m := *msg
		p.send(Node(i), &m)
	}
}

// Report an event to the observer, filling in the current state snapshot.
func (p *Process) emit(ev Event) {
	ev.Node = p.self
	ev.State = p.state
	ev.Phase = p.phase
	ev.PromiseBallot = p.promiseBallot
	ev.ImposeBallot = p.imposeBallot
	p.Observer.Observe(ev)
}

// Self returns the process's index.
func (p *Process) Self() Node { return p.self }

// State returns the process's operating state.
func (p *Process) State() State { return p.state }

// Phase returns the proposer phase of the current round.
func (p *Process) Phase() Phase { return p.phase }

// Active reports whether the process still initiates rounds.
func (p *Process) Active() bool { return p.active }

// Ballot returns the process's current proposal ballot.
func (p *Process) Ballot() Ballot { return p.ballot }

// PromiseBallot returns the highest ballot promised as acceptor.
func (p *Process) PromiseBallot() Ballot { return p.promiseBallot }

// ImposeBallot returns the highest ballot accepted as acceptor.
func (p *Process) ImposeBallot() Ballot { return p.imposeBallot }

// Estimate returns the value accepted at ImposeBallot, or None.
func (p *Process) Estimate() Value { return p.estimate }

// PersonalValue returns the value picked at launch, or None.
func (p *Process) PersonalValue() Value { return p.personal }

// ProposedValue returns the value imposed in the latest round, or None.
func (p *Process) ProposedValue() Value { return p.proposed }

// Decided returns the decided value, if any.
func (p *Process) Decided() (Value, bool) {
	return p.decided, p.decided != None
}
