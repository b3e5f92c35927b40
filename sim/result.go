package sim

import (
	"fmt"

	"github.com/ablicq/SLR210-blockchain/lib/trace"
	"github.com/ablicq/SLR210-blockchain/model/synod"
)

// Result is what a run left behind.
type Result struct {
	N       int             // Group size
	Seed    int64           // Seed the run actually used
	Leader  synod.Node      // Process left proposing, or -1 if none
	Faulty  []synod.Node    // Processes made error-prone
	Reports []Report        // Final state of each process, by index
	Trace   *trace.Recorder // Every event of the run
}

// Report is the final state of one process.
type Report struct {
	Node          synod.Node
	Faulty        bool // Whether the process was made error-prone
	State         synod.State
	Phase         synod.Phase
	Active        bool
	Ballot        synod.Ballot
	PromiseBallot synod.Ballot
	ImposeBallot  synod.Ballot
	Estimate      synod.Value
	Personal      synod.Value
	Decided       synod.Value // None if the process never learned a decision
}

func report(p *synod.Process, faulty bool) Report {
	dec, _ := p.Decided()
	return Report{
		Node:          p.Self(),
		Faulty:        faulty,
		State:         p.State(),
		Phase:         p.Phase(),
		Active:        p.Active(),
		Ballot:        p.Ballot(),
		PromiseBallot: p.PromiseBallot(),
		ImposeBallot:  p.ImposeBallot(),
		Estimate:      p.Estimate(),
		Personal:      p.PersonalValue(),
		Decided:       dec,
	}
}

func (r Report) String() string {
	dec := "undecided"
	if r.Decided != synod.None {
		dec = fmt.Sprintf("decided %d", r.Decided)
	}
	return fmt.Sprintf("P%d %v %v ballot %d promise %d impose %d "+
		"estimate %d personal %d %s",
		r.Node, r.State, r.Phase, r.Ballot, r.PromiseBallot,
		r.ImposeBallot, r.Estimate, r.Personal, dec)
}

// Agreed returns the value the processes decided, or None if none did.
// It fails if two processes decided differently.
func (r *Result) Agreed() (synod.Value, error) {
	v := synod.None
	var from synod.Node
	for _, rep := range r.Reports {
		switch {
		case rep.Decided == synod.None:
		case v == synod.None:
			v, from = rep.Decided, rep.Node
		case rep.Decided != v:
			return synod.None, fmt.Errorf("P%d decided %d but P%d decided %d",
				from, v, rep.Node, rep.Decided)
		}
	}
	return v, nil
}

// Undecided lists the processes that neither crashed nor learned a decision.
func (r *Result) Undecided() []synod.Node {
	var und []synod.Node
	for _, rep := range r.Reports {
		if rep.State != synod.Silent && rep.Decided == synod.None {
			und = append(und, rep.Node)
		}
	}
	return und
}

// Check verifies the recorded trace of the run.
func (r *Result) Check() error {
	return trace.Check(r.Trace.Events(), r.N)
}
