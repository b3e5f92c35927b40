// Package sim runs a group of Synod processes in memory,
// each on its own goroutine behind a private FIFO mailbox,
// and drives them through one experiment:
// install the group, make some processes error-prone, launch everyone,
// let them compete for a while, then hold all but one leader
// and give it time to get a value decided.
//
package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	logging "github.com/op/go-logging"
	"golang.org/x/sync/errgroup"

	"github.com/ablicq/SLR210-blockchain/lib/backoff"
	"github.com/ablicq/SLR210-blockchain/lib/sched"
	"github.com/ablicq/SLR210-blockchain/lib/trace"
	"github.com/ablicq/SLR210-blockchain/model/synod"
)

var log = logging.MustGetLogger("sim")

// Run performs one experiment as described by cfg,
// returning once every process has stopped.
// It fails only on an invalid configuration or when ctx is cancelled;
// a run in which nothing gets decided is not an error.
func Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()
	if 2*cfg.F >= cfg.N && cfg.F > 0 {
		log.Warningf("%d faulty of %d processes is not a minority, "+
			"the group may never decide", cfg.F, cfg.N)
	}
	log.Infof("running %d processes with %d faulty, seed %d",
		cfg.N, cfg.F, cfg.Seed)

	rec := trace.NewRecorder()
	rec.Next = cfg.Observer

	// Pending retries are dropped once the run is torn down.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := sched.New(runCtx)

	// Create the processes and their mailboxes.
	rnd := rand.New(rand.NewSource(cfg.Seed))
	procs := make([]*synod.Process, cfg.N)
	boxes := make([]*mailbox, cfg.N)
	peers := make([]synod.Peer, cfg.N)
	for i := range procs {
		p := synod.NewProcess(synod.Node(i))
		p.CrashProb = cfg.CrashProb
		p.RetryDelay = cfg.RetryDelay
		p.Rand = rand.New(rand.NewSource(rnd.Int63()))
		p.Scheduler = timer
		p.Observer = rec
		procs[i] = p
		boxes[i] = newMailbox()
		peers[i] = boxes[i]
	}

	// Run each process's dispatch loop on its own goroutine.
	g, gctx := errgroup.WithContext(runCtx)
	for i := range procs {
		p, mb := procs[i], boxes[i]
		delays := rand.New(rand.NewSource(rnd.Int63()))
		g.Go(func() error {
			return serve(gctx, p, mb, cfg.MaxDelay, delays)
		})
	}

	d := &driver{cfg: cfg, rnd: rnd, boxes: boxes, rec: rec}
	res := &Result{N: cfg.N, Leader: -1, Seed: cfg.Seed, Trace: rec}
	err := d.drive(gctx, peers, res)

	// Stop everyone, whether or not the experiment completed.
	for _, mb := range boxes {
		mb.Send(&synod.Message{From: -1, Type: synod.Stop})
	}
	if werr := g.Wait(); err == nil {
		err = werr
	}
	cancel()
	timer.Wait()
	if err != nil {
		return nil, fmt.Errorf("sim: run aborted: %w", err)
	}

	faulty := make(map[synod.Node]bool)
	for _, n := range res.Faulty {
		faulty[n] = true
	}
	for _, p := range procs {
		r := report(p, faulty[p.Self()])
		log.Debugf("%v", r)
		res.Reports = append(res.Reports, r)
	}
	return res, nil
}

// driver issues the experiment's commands to the group.
type driver struct {
	cfg   Config
	rnd   *rand.Rand
	boxes []*mailbox
	rec   *trace.Recorder
}

func (d *driver) tell(n synod.Node, typ synod.Type, peers []synod.Peer) {
	d.boxes[n].Send(&synod.Message{From: -1, Type: typ, Peers: peers})
}

func (d *driver) drive(ctx context.Context, peers []synod.Peer,
	res *Result) error {

	for i := range d.boxes {
		d.tell(synod.Node(i), synod.SetPeers, peers)
	}

	// Pick the faulty processes at random.
	order := d.rnd.Perm(d.cfg.N)
	for _, i := range order[:d.cfg.F] {
		res.Faulty = append(res.Faulty, synod.Node(i))
		d.tell(synod.Node(i), synod.InjectCrash, nil)
	}
	log.Debugf("faulty processes: %v", res.Faulty)

	for _, i := range order {
		d.tell(synod.Node(i), synod.Launch, nil)
	}

	if err := sleep(ctx, d.cfg.Settle); err != nil {
		return err
	}

	// Keep one process that was never made faulty proposing.
	if d.cfg.F < d.cfg.N {
		res.Leader = synod.Node(order[d.cfg.F+d.rnd.Intn(d.cfg.N-d.cfg.F)])
		log.Infof("P%d elected leader", res.Leader)
	} else {
		log.Warningf("no process left to lead")
	}
	for i := range d.boxes {
		if synod.Node(i) != res.Leader {
			d.tell(synod.Node(i), synod.Hold, nil)
		}
	}

	if !d.cfg.Await {
		return sleep(ctx, d.cfg.Linger)
	}

	// Poll until the group converges, giving up after Linger.
	bc := backoff.Config{
		MinWait: time.Millisecond,
		MaxWait: 20 * time.Millisecond,
		Limit:   d.cfg.Linger,
	}
	err := bc.Retry(ctx, d.converged)
	if errors.Is(err, backoff.ErrLimit) {
		log.Warningf("group did not converge: %v", err)
		return nil
	}
	return err
}

// Check whether every process still alive has learned the decision.
func (d *driver) converged() error {
	for i := range d.boxes {
		n := synod.Node(i)
		if _, ok := d.rec.Decided(n); !ok && !d.rec.Silent(n) {
			return fmt.Errorf("P%d undecided", n)
		}
	}
	return nil
}

// Wait for the given time or until ctx is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
