package synod

import "testing"

func TestQuorumThresholds(t *testing.T) {
	tests := []struct {
		n, promise, ack int // group size and minimum quorum sizes
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 3, 2},
		{5, 3, 3},
		{6, 4, 3},
		{7, 4, 4},
	}
	for _, tt := range tests {
		if PromiseQuorum(tt.promise-1, tt.n) || !PromiseQuorum(tt.promise, tt.n) {
			t.Errorf("N=%d: promise quorum should be %d", tt.n, tt.promise)
		}
		if AckQuorum(tt.ack-1, tt.n) || !AckQuorum(tt.ack, tt.n) {
			t.Errorf("N=%d: ack quorum should be %d", tt.n, tt.ack)
		}
	}
}

// Every promise quorum must share a process with every ack quorum,
// or two proposers could decide different values.
func TestQuorumsIntersect(t *testing.T) {
	for n := 1; n <= 50; n++ {
		p, a := 0, 0
		for !PromiseQuorum(p, n) {
			p++
		}
		for !AckQuorum(a, n) {
			a++
		}
		if p+a <= n {
			t.Errorf("N=%d: promise quorum %d and ack quorum %d may not meet",
				n, p, a)
		}
	}
}

func TestBallotOwner(t *testing.T) {
	for n := 1; n <= 7; n++ {
		for i := 0; i < n; i++ {
			b := Ballot(i - n) // rebased counter before the first round
			for k := 0; k < 20; k++ {
				b = NextBallot(b, n)
				if BallotOwner(b, n) != Node(i) {
					t.Fatalf("N=%d: ballot %d owned by %d, want %d",
						n, b, BallotOwner(b, n), i)
				}
			}
		}
	}
	if BallotOwner(-1, 3) != 2 {
		t.Errorf("owner of rebased ballot -1 is %d", BallotOwner(-1, 3))
	}
}

func TestHighestPromise(t *testing.T) {
	if n, s := HighestPromise(nil); n != -1 || s != (PromiseState{}) {
		t.Errorf("empty: got %d %+v", n, s)
	}

	states := map[Node]PromiseState{
		4: {7, 0},
		1: {3, 1},
		3: {7, 1},
		0: {0, None},
		6: {7, 0},
	}
	// Run repeatedly, since map iteration order varies.
	for i := 0; i < 100; i++ {
		n, s := HighestPromise(states)
		if n != 3 || s != (PromiseState{7, 1}) {
			t.Fatalf("got P%d %+v, want P3 {7 1}", n, s)
		}
	}
}
