package synod

// Pick our personal value and start the first round.
func (p *Process) launch() {
	p.personal = Value(p.Rand.Intn(2))
	p.Log.Infof("P%d: launched with value %d", p.self, p.personal)
	p.emit(Event{Kind: Launched, Value: p.personal})
	p.propose()
}

// Start a new round with our next ballot.
func (p *Process) propose() {

	// Forget the responses to any earlier round
	p.promises = make(map[Node]PromiseState)
	p.acks = 0
	p.phase = PhasePrepare

	p.ballot = NextBallot(p.ballot, len(p.peer))
	p.Log.Infof("P%d: start proposal with ballot %d", p.self, p.ballot)
	p.emit(Event{Kind: Proposed, Ballot: p.ballot, Value: p.personal})

	p.broadcast(&Message{Type: Prepare, Ballot: p.ballot})
}

// Collect promises until a majority lets us impose a value.
func (p *Process) promise(msg *Message) {
	if msg.Ballot != p.ballot {
		return // promise for one of our earlier rounds
	}
	p.promises[msg.From] = msg.State

	if p.phase != PhasePrepare || !PromiseQuorum(len(p.promises), len(p.peer)) {
		return
	}

	// Adopt the value accepted at the highest ballot any acceptor reports,
	// or our own if none of them accepted anything yet.
	from, best := HighestPromise(p.promises)
	if best.ImposeBallot != 0 {
		p.proposed = best.Estimate
		p.Log.Debugf("P%d: adopting estimate %d of ballot %d from P%d",
			p.self, best.Estimate, best.ImposeBallot, from)
	} else {
		p.proposed = p.personal
	}

	p.phase = PhaseImpose
	p.Log.Infof("P%d: proceed to impose with value %d", p.self, p.proposed)
	p.emit(Event{Kind: Imposing, Ballot: p.ballot, Value: p.proposed})

	p.broadcast(&Message{Type: Impose, Ballot: p.ballot, Value: p.proposed})
}

// Collect acknowledgments until enough acceptors hold our value.
func (p *Process) ack(msg *Message) {
	if msg.Ballot != p.ballot {
		return // ack for one of our earlier rounds
	}
	p.acks++

	if p.phase != PhaseImpose || !AckQuorum(p.acks, len(p.peer)) {
		return
	}

	p.phase = PhaseDecide
	p.Log.Infof("P%d: value %d decided", p.self, p.proposed)
	p.emit(Event{Kind: Decided, Ballot: p.ballot, Value: p.proposed})

	p.broadcast(&Message{Type: Decide, Value: p.proposed})
}

// Schedule one retry for each of our ballots that an acceptor refuses.
// The retry re-checks whether we are still active only when it fires.
func (p *Process) abort(msg *Message) {
	if msg.Ballot != p.ballot || p.retried == p.ballot {
		return
	}
	p.retried = p.ballot
	p.Log.Debugf("P%d: proposal refused with ballot %d", p.self, p.ballot)
	p.emit(Event{Kind: Scheduled, Ballot: p.ballot})

	self, me := p.peer[p.self], p.self
	p.Scheduler.Schedule(p.RetryDelay, func() {
		self.Send(&Message{From: me, Type: Retry})
	})
}

// Record a decision, whoever reached it.
func (p *Process) learn(msg *Message) {
	if p.decided != None && p.decided != msg.Value {
		p.Log.Warningf("P%d: decision %d overwritten by %d from P%d",
			p.self, p.decided, msg.Value, msg.From)
	}
	p.decided = msg.Value
	p.active = false
	p.phase = PhaseDecide
	p.Log.Infof("P%d: got the decision of %d", p.self, p.decided)
	p.emit(Event{Kind: Learned, Value: p.decided})
}
