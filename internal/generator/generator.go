// Package generator implements the cooperative streaming contract shared by
// every task command: a pull-based producer that yields text chunks in
// order, terminates exactly once (done, error, or abandoned), and never
// retracts output already delivered.
package generator

import (
	"errors"
	"sync"
)

// ErrCancelled is returned from Emit once the consumer has abandoned the
// generator. The producer should stop and unwind; no further chunks will be
// delivered.
var ErrCancelled = errors.New("generator cancelled")

// State tracks a generator through its lifecycle. Completed, Failed, and
// Cancelled are terminal and irreversible.
type State int

const (
	StateIdle State = iota
	StateProducing
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProducing:
		return "producing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Chunk is one unit of streamed output: a text fragment, a terminal error,
// or a terminal done marker. Exactly one of the three is set.
type Chunk struct {
	Text string
	Err  error
	Done bool
}

// Emit delivers one text chunk to the consumer, blocking until the consumer
// pulls it. It returns ErrCancelled if the consumer abandoned the stream.
type Emit func(text string) error

// ProducerFunc is the body of a task invocation. It calls emit for each
// output fragment and returns nil on success or the failure that ended
// production. Returning ErrCancelled (typically propagated from emit) marks
// the generator cancelled rather than failed.
type ProducerFunc func(emit Emit) error

// Generator is a single-use, pull-based chunk stream. The producer runs in
// its own goroutine but only makes progress when the consumer pulls, since
// delivery is unbuffered; stopping pulling chunks and calling Close is all
// the cancellation the contract requires.
type Generator struct {
	fn   ProducerFunc
	out  chan Chunk
	stop chan struct{}

	mu      sync.Mutex
	state   State
	started bool

	closeOnce sync.Once
}

// New creates a Generator for the given producer. The producer does not run
// until the first Next call.
func New(fn ProducerFunc) *Generator {
	return &Generator{
		fn:   fn,
		out:  make(chan Chunk),
		stop: make(chan struct{}),
	}
}

// Next pulls the next chunk. The first call starts the producer. The second
// return is false once the terminal chunk has already been delivered (or the
// generator was closed before producing anything).
func (g *Generator) Next() (Chunk, bool) {
	g.mu.Lock()
	if !g.started {
		if g.state == StateCancelled {
			g.mu.Unlock()
			return Chunk{}, false
		}
		g.started = true
		g.state = StateProducing
		go g.run()
	}
	g.mu.Unlock()

	chunk, ok := <-g.out
	return chunk, ok
}

// Close abandons the generator. The producer's next emit returns
// ErrCancelled; any operation it already has in flight runs to its natural
// end. Close is idempotent and safe to call after completion.
func (g *Generator) Close() {
	g.closeOnce.Do(func() {
		g.setState(StateCancelled)
		close(g.stop)
	})
}

// State reports the generator's current lifecycle state.
func (g *Generator) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// setState transitions to a terminal state unless one was already reached.
func (g *Generator) setState(s State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateIdle || g.state == StateProducing {
		g.state = s
	}
}

// run drives the producer and delivers exactly one terminal chunk. Chunks
// are handed over on an unbuffered channel, so ordering is the producer's
// emission order and nothing is batched or dropped.
func (g *Generator) run() {
	defer close(g.out)

	err := g.fn(g.emit)
	switch {
	case err == nil:
		if g.deliver(Chunk{Done: true}) {
			g.setState(StateCompleted)
		}
	case errors.Is(err, ErrCancelled):
		g.setState(StateCancelled)
	default:
		// Prior chunks were already delivered; the error is the final
		// signal, not a replacement of partial output.
		if g.deliver(Chunk{Err: err}) {
			g.setState(StateFailed)
		}
	}
}

func (g *Generator) emit(text string) error {
	select {
	case g.out <- Chunk{Text: text}:
		return nil
	case <-g.stop:
		return ErrCancelled
	}
}

// deliver hands the terminal chunk to the consumer, reporting false when the
// consumer abandoned the stream instead of pulling it.
func (g *Generator) deliver(c Chunk) bool {
	select {
	case g.out <- c:
		return true
	case <-g.stop:
		g.setState(StateCancelled)
		return false
	}
}
