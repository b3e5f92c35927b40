package synod

// Promise a ballot higher than anything seen so far.
// Ballot 0 is never promised, so an ImposeBallot of 0 means nothing accepted.
func (p *Process) prepare(msg *Message) {
	if msg.Ballot <= p.promiseBallot || msg.Ballot <= p.imposeBallot ||
		p.phase == PhaseDecide {
		p.refuse(msg)
		return
	}

	p.promiseBallot = msg.Ballot
	p.Log.Debugf("P%d: promising to ballot %d", p.self, msg.Ballot)
	p.emit(Event{Kind: Promised, Ballot: msg.Ballot})

	p.send(msg.From, &Message{Type: Promise, Ballot: msg.Ballot,
		State: PromiseState{p.imposeBallot, p.estimate}})
}

// Accept a value unless we promised or accepted a higher ballot.
// The ballot we promised itself is of course acceptable.
func (p *Process) impose(msg *Message) {
	if msg.Ballot < p.promiseBallot || msg.Ballot < p.imposeBallot ||
		p.phase == PhaseDecide {
		p.refuse(msg)
		return
	}

	p.imposeBallot = msg.Ballot
	p.estimate = msg.Value
	p.Log.Debugf("P%d: commit to value %d for ballot %d",
		p.self, msg.Value, msg.Ballot)
	p.emit(Event{Kind: Accepted, Ballot: msg.Ballot, Value: msg.Value})

	p.send(msg.From, &Message{Type: Ack, Ballot: msg.Ballot})
}

// Tell the proposer that its ballot was refused.
func (p *Process) refuse(msg *Message) {
	p.Log.Debugf("P%d: abort %v for ballot %d", p.self, msg.Type, msg.Ballot)
	p.emit(Event{Kind: Refused, Ballot: msg.Ballot})
	p.send(msg.From, &Message{Type: Abort, Ballot: msg.Ballot})
}
