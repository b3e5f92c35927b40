package sim

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ablicq/SLR210-blockchain/model/synod"
)

// mailbox is a process's private inbound queue.
// It is unbounded and strictly FIFO, so senders never block
// and the order between any sender and the process is preserved.
type mailbox struct {
	mut    sync.Mutex
	queue  []*synod.Message
	ready  chan struct{} // Signalled when the queue becomes non-empty
	closed bool          // Set once the process has stopped
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// Send queues msg for the process, or drops it if the process has stopped.
func (m *mailbox) Send(msg *synod.Message) {
	m.mut.Lock()
	if m.closed {
		m.mut.Unlock()
		return
	}
	m.queue = append(m.queue, msg)
	m.mut.Unlock()

	select {
	case m.ready <- struct{}{}:
	default: // a wakeup is already pending
	}
}

// next blocks until a message is queued or ctx is cancelled.
func (m *mailbox) next(ctx context.Context) (*synod.Message, error) {
	for {
		m.mut.Lock()
		if len(m.queue) > 0 {
			msg := m.queue[0]
			m.queue[0] = nil
			m.queue = m.queue[1:]
			m.mut.Unlock()
			return msg, nil
		}
		m.mut.Unlock()

		select {
		case <-m.ready:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// close drops everything queued and everything sent from now on.
func (m *mailbox) close() {
	m.mut.Lock()
	m.closed = true
	m.queue = nil
	m.mut.Unlock()
}

// serve is a process's dispatch loop: it hands queued messages
// to the process one at a time until it receives Stop.
// If maxDelay is positive, it pauses for a random time up to maxDelay
// before each dispatch, to vary the interleaving between processes.
func serve(ctx context.Context, p *synod.Process, mb *mailbox,
	maxDelay time.Duration, rnd *rand.Rand) error {

	defer mb.close()
	for {
		msg, err := mb.next(ctx)
		if err != nil {
			return err
		}
		if msg.Type == synod.Stop {
			log.Debugf("P%d: stopped", p.Self())
			return nil
		}

		if maxDelay > 0 {
			t := time.NewTimer(time.Duration(rnd.Int63n(int64(maxDelay))))
			select {
			case <-t.C:
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			}
		}
		p.Receive(msg)
	}
}
