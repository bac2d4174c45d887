package presenter

import (
	"fmt"
	"sync"
)

// Guarded serializes all calls into a shared Presenter behind a single
// mutex, so no output from one block interleaves with another. It is the
// only way observers are expected to reach a Presenter (see Design Notes
// in the spec: mutual exclusion is a contract the caller upholds, not
// something a Presenter implementation does itself).
type Guarded struct {
	mu sync.Mutex
	P  Presenter
}

// NewGuarded wraps p behind a mutex.
func NewGuarded(p Presenter) *Guarded {
	return &Guarded{P: p}
}

// Connected emits a connection-established line.
func (g *Guarded) Connected(local, remote fmt.Stringer) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.P.Connected(local, remote)
}

// Message emits a single one-line message attributed to side.
func (g *Guarded) Message(side Side, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.P.Message(side, text)
}

// ForceBinary reports the presenter's force-binary flag.
func (g *Guarded) ForceBinary() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.P.ForceBinary()
}

// Block opens a block attributed to side labelled by message, invokes fn
// with a writer valid only for the block's duration, and closes the block
// — all under a single critical section so concurrent blocks from the
// opposite direction cannot interleave.
func (g *Guarded) Block(side Side, message string, fn func(w Presenter) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.P.StartBlock(side, message); err != nil {
		return err
	}
	ferr := fn(g.P)
	if err := g.P.EndBlock(); err != nil {
		if ferr != nil {
			return ferr
		}
		return err
	}
	return ferr
}
