package synod

// PromiseQuorum reports whether count promises form a strict majority
// of a group of n processes.
func PromiseQuorum(count, n int) bool {
	return 2*count > n
}

// AckQuorum reports whether count acknowledgments reach at least half
// of a group of n processes.
// Half is taken over the reals, so with odd n this is also a majority,
// and any promise quorum intersects any ack quorum.
func AckQuorum(count, n int) bool {
	return 2*count >= n
}

// NextBallot returns the ballot following b for its owner in a group of n.
// Process i uses ballots i, i+n, i+2n, ... so no two processes share one.
func NextBallot(b Ballot, n int) Ballot {
	return b + Ballot(n)
}

// BallotOwner returns the process whose ballot sequence contains b.
func BallotOwner(b Ballot, n int) Node {
	m := b % Ballot(n)
	if m < 0 {
		m += Ballot(n)
	}
	return Node(m)
}

// HighestPromise returns some promise state with the highest ImposeBallot,
// together with the process that reported it.
// Among states tied for highest, the one from the lowest-numbered process wins,
// so the choice does not depend on map iteration order.
// Returns node -1 and the zero state if states is empty.
func HighestPromise(states map[Node]PromiseState) (bn Node, bs PromiseState) {
	bn = -1
	for n, s := range states {
		if bn < 0 || bs.Less(s) || (!s.Less(bs) && n < bn) {
			bn, bs = n, s
		}
	}
	return bn, bs
}
