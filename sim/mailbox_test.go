package sim

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/ablicq/SLR210-blockchain/model/synod"
)

func TestMailboxOrder(t *testing.T) {
	mb := newMailbox()
	ctx := context.Background()

	// Two senders interleave freely, but each one's order is kept.
	wg := &sync.WaitGroup{}
	for s := 0; s < 2; s++ {
		wg.Add(1)
		go func(from synod.Node) {
			defer wg.Done()
			for b := 0; b < 500; b++ {
				mb.Send(&synod.Message{From: from, Type: synod.Prepare,
					Ballot: synod.Ballot(b)})
			}
		}(synod.Node(s))
	}
	wg.Wait()

	next := []synod.Ballot{0, 0}
	for i := 0; i < 1000; i++ {
		msg, err := mb.next(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if msg.Ballot != next[msg.From] {
			t.Fatalf("from P%d got ballot %d, want %d",
				msg.From, msg.Ballot, next[msg.From])
		}
		next[msg.From]++
	}
}

func TestMailboxClose(t *testing.T) {
	mb := newMailbox()
	mb.Send(&synod.Message{Type: synod.Launch})
	mb.close()
	mb.Send(&synod.Message{Type: synod.Launch})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if msg, err := mb.next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("closed mailbox delivered %v", msg)
	}
}

func TestServeStops(t *testing.T) {
	mb := newMailbox()
	p := synod.NewProcess(0)
	done := make(chan error)
	go func() {
		done <- serve(context.Background(), p, mb, time.Millisecond,
			rand.New(rand.NewSource(1)))
	}()

	mb.Send(&synod.Message{Type: synod.Hold})
	mb.Send(&synod.Message{Type: synod.Stop})
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if p.Active() {
		t.Errorf("Hold not delivered before Stop")
	}

	// Anything sent afterwards goes nowhere.
	mb.Send(&synod.Message{Type: synod.Launch})
	if len(mb.queue) != 0 {
		t.Errorf("stopped mailbox queued a message")
	}
}
