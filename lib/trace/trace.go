// Package trace records what the processes of a consensus group do,
// serializes the record, and checks it for the properties
// a correct run must have.
package trace

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"sync"

	logging "github.com/op/go-logging"

	"github.com/ablicq/SLR210-blockchain/model/synod"
)

var log = logging.MustGetLogger("trace")

// ErrCorrupt is returned when a serialized trace cannot be decoded.
var ErrCorrupt = errors.New("corrupt trace")

// Recorder is a synod.Observer that keeps every event of a group,
// in the order the processes reported them.
// It is safe for concurrent use by all the processes of the group.
type Recorder struct {
	mut     sync.Mutex
	evs     []synod.Event
	decided map[synod.Node]synod.Value // latest decision learned per process
	silent  map[synod.Node]bool        // processes known to have crashed

	// Next, if non-nil, is passed every event after it is recorded.
	Next synod.Observer
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		decided: make(map[synod.Node]synod.Value),
		silent:  make(map[synod.Node]bool),
	}
}

// Observe records ev.
func (r *Recorder) Observe(ev synod.Event) {
	r.mut.Lock()
	r.evs = append(r.evs, ev)
	switch ev.Kind {
	case synod.Learned:
		r.decided[ev.Node] = ev.Value
	case synod.Silenced:
		r.silent[ev.Node] = true
	}
	next := r.Next
	r.mut.Unlock()

	if next != nil {
		next.Observe(ev)
	}
}

// Events returns a copy of the events recorded so far.
func (r *Recorder) Events() []synod.Event {
	r.mut.Lock()
	defer r.mut.Unlock()
	return append([]synod.Event(nil), r.evs...)
}

// Decided returns the latest decision process n learned, if any.
func (r *Recorder) Decided(n synod.Node) (synod.Value, bool) {
	r.mut.Lock()
	defer r.mut.Unlock()
	v, ok := r.decided[n]
	return v, ok
}

// Silent reports whether process n has crashed.
func (r *Recorder) Silent(n synod.Node) bool {
	r.mut.Lock()
	defer r.mut.Unlock()
	return r.silent[n]
}

// header precedes the events in a serialized trace.
type header struct {
	N      int // Group size
	Events int // Number of events that follow
}

// Save writes the events recorded so far for a group of n processes to w.
// It currently just uses GOB encoding for simplicity.
func (r *Recorder) Save(w io.Writer, n int) error {
	evs := r.Events()
	enc := gob.NewEncoder(w)
	if err := enc.Encode(header{N: n, Events: len(evs)}); err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	for i := range evs {
		if err := enc.Encode(&evs[i]); err != nil {
			return fmt.Errorf("trace: event %d: %w", i, err)
		}
	}
	log.Debugf("saved %d events of %d processes", len(evs), n)
	return nil
}

// Encode is like Save but returns the serialized trace.
func (r *Recorder) Encode(n int) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := r.Save(buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads a trace written by Save,
// returning the group size and the events.
func Load(rd io.Reader) (n int, evs []synod.Event, err error) {
	dec := gob.NewDecoder(rd)
	var h header
	if err := dec.Decode(&h); err != nil {
		return 0, nil, fmt.Errorf("%w: header: %v", ErrCorrupt, err)
	}
	if h.N <= 0 || h.Events < 0 {
		return 0, nil, fmt.Errorf("%w: bad header %+v", ErrCorrupt, h)
	}
	for i := 0; i < h.Events; i++ {
		var ev synod.Event
		if err := dec.Decode(&ev); err != nil {
			return 0, nil, fmt.Errorf("%w: event %d: %v",
				ErrCorrupt, i, err)
		}
		evs = append(evs, ev)
	}
	return h.N, evs, nil
}

// Decode parses a serialized trace.
func Decode(b []byte) (n int, evs []synod.Event, err error) {
	return Load(bytes.NewReader(b))
}
