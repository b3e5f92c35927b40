package trace

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	. "github.com/ablicq/SLR210-blockchain/model/synod"
)

// A short, valid run of process 1 in a group of 3.
func goodRun() []Event {
	return []Event{
		{Node: 1, Kind: Installed, Ballot: -2},
		{Node: 1, Kind: Launched, Value: 1},
		{Node: 1, Kind: Proposed, Ballot: 1, Value: 1},
		{Node: 1, Kind: Promised, Ballot: 1, PromiseBallot: 1},
		{Node: 1, Kind: Sent, Type: Promise, Peer: 1, Ballot: 1,
			PromiseBallot: 1},
		{Node: 1, Kind: Imposing, Ballot: 1, Value: 1, PromiseBallot: 1},
		{Node: 1, Kind: Accepted, Ballot: 1, Value: 1, PromiseBallot: 1,
			ImposeBallot: 1},
		{Node: 1, Kind: Decided, Ballot: 1, Value: 1, PromiseBallot: 1,
			ImposeBallot: 1},
		{Node: 1, Kind: Learned, Value: 1, PromiseBallot: 1,
			ImposeBallot: 1},
		{Node: 2, Kind: Learned, Value: 1},
		{Node: 0, Kind: Silenced, State: Silent},
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	next := NewRecorder()
	r.Next = next

	// Several processes report concurrently.
	wg := &sync.WaitGroup{}
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func(n Node) {
			defer wg.Done()
			for k := 0; k < 100; k++ {
				r.Observe(Event{Node: n, Kind: Sent})
			}
		}(Node(i))
	}
	wg.Wait()

	r.Observe(Event{Node: 2, Kind: Learned, Value: 0})
	r.Observe(Event{Node: 1, Kind: Silenced})

	if len(r.Events()) != 302 || len(next.Events()) != 302 {
		t.Errorf("recorded %d, forwarded %d", len(r.Events()),
			len(next.Events()))
	}
	if v, ok := r.Decided(2); !ok || v != 0 {
		t.Errorf("P2 decided %d %v", v, ok)
	}
	if _, ok := r.Decided(0); ok {
		t.Errorf("P0 decided")
	}
	if !r.Silent(1) || r.Silent(2) {
		t.Errorf("silent P1 %v P2 %v", r.Silent(1), r.Silent(2))
	}
}

func TestEncodeDecode(t *testing.T) {
	r := NewRecorder()
	for _, ev := range goodRun() {
		r.Observe(ev)
	}
	b, err := r.Encode(3)
	if err != nil {
		t.Fatal(err)
	}

	n, evs, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	want := goodRun()
	if n != 3 || len(evs) != len(want) {
		t.Fatalf("decoded N=%d with %d events", n, len(evs))
	}
	for i := range want {
		if evs[i] != want[i] {
			t.Errorf("event %d: got %v, want %v", i, evs[i], want[i])
		}
	}

	if _, _, err := Decode(b[:len(b)/2]); !errors.Is(err, ErrCorrupt) {
		t.Errorf("truncated trace: got %v", err)
	}
	if _, _, err := Decode([]byte("garbage")); !errors.Is(err, ErrCorrupt) {
		t.Errorf("garbage trace: got %v", err)
	}
}

func TestCheckGoodRun(t *testing.T) {
	if err := Check(goodRun(), 3); err != nil {
		t.Error(err)
	}
}

func TestCheckViolations(t *testing.T) {
	tests := []struct {
		desc  string
		check func([]Event) error
		evs   []Event
	}{
		{"disagreement", CheckAgreement, []Event{
			{Node: 0, Kind: Decided, Value: 0},
			{Node: 1, Kind: Learned, Value: 1},
		}},
		{"invalid value", CheckValidity, []Event{
			{Node: 0, Kind: Launched, Value: 0},
			{Node: 1, Kind: Learned, Value: 1},
		}},
		{"promise decreases", CheckMonotonic, []Event{
			{Node: 0, Kind: Promised, PromiseBallot: 4},
			{Node: 0, Kind: Promised, PromiseBallot: 3},
		}},
		{"impose moved without accept", CheckMonotonic, []Event{
			{Node: 0, Kind: Learned, ImposeBallot: 4},
		}},
		{"foreign ballot", func(evs []Event) error {
			return CheckBallots(evs, 3)
		}, []Event{
			{Node: 0, Kind: Proposed, Ballot: 4},
		}},
		{"reused ballot", func(evs []Event) error {
			return CheckBallots(evs, 3)
		}, []Event{
			{Node: 1, Kind: Proposed, Ballot: 4},
			{Node: 1, Kind: Proposed, Ballot: 4},
		}},
		{"silent process acts", CheckAbsorbing, []Event{
			{Node: 2, Kind: Silenced},
			{Node: 2, Kind: Sent, Type: Abort},
		}},
	}
	for _, tt := range tests {
		if err := tt.check(tt.evs); err == nil {
			t.Errorf("%s: not detected", tt.desc)
		}
		if err := Check(tt.evs, 3); err == nil {
			t.Errorf("%s: not detected by Check", tt.desc)
		}
	}
}

func TestSaveLoad(t *testing.T) {
	r := NewRecorder()
	for _, ev := range goodRun() {
		r.Observe(ev)
	}
	buf := &bytes.Buffer{}
	if err := r.Save(buf, 3); err != nil {
		t.Fatal(err)
	}
	n, evs, err := Load(buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 || len(evs) != len(goodRun()) {
		t.Errorf("loaded N=%d with %d events", n, len(evs))
	}
	if err := Check(evs, n); err != nil {
		t.Error(err)
	}
}
