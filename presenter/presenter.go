// Package presenter defines the sink that renders proxy trace output, and
// provides the one concrete, terminal-oriented implementation this repo
// ships.
package presenter

import (
	"fmt"
	"io"
)

// Presenter is the contract every observer renders through: connection
// events, one-line messages, and multi-line blocks framed with indentation.
// A Presenter is internally buffered; every call is best-effort atomic
// within itself. Serializing calls across goroutines is the caller's
// responsibility — see Guarded.
type Presenter interface {
	io.Writer

	// Connected announces that a client connection was accepted and
	// relayed to the named server.
	Connected(local, remote fmt.Stringer) error

	// Message emits a single line attributed to side.
	Message(side Side, text string) error

	// StartBlock opens a multi-line block attributed to side, labelled by
	// message. Calls to Write are only valid between StartBlock and
	// EndBlock.
	StartBlock(side Side, message string) error

	// EndBlock closes the most recently opened block.
	EndBlock() error

	// ForceBinary reports whether text/binary autodetection should be
	// skipped in favor of always treating payloads as binary.
	ForceBinary() bool
}
