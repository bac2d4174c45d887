// Package observer adapts raw connection byte-stream events into Presenter
// calls at three different framing granularities: raw chunks, individual
// blocks, or reassembled application messages.
package observer

import (
	"fmt"

	"github.com/mickamy/blockproxy/presenter"
)

// Observer is the contract a proxy pump drives with the events it sees on
// one side of one connection.
type Observer interface {
	// OnData is called with the bytes the pump just read, before it
	// forwards them to the peer.
	OnData(data []byte) error

	// OnClose is called once the pump reads EOF.
	OnClose() error

	// OnError is called when an I/O error occurs. whileWriting is false
	// when the local half's read failed, true when writing to the peer
	// half failed.
	OnError(whileWriting bool, err error) error

	// OnUnix0 is called once per connection when the proxy performs or
	// skips the transport fixup. data is what was consumed or synthesized
	// ("0" or empty); note, if non-nil, is a human message to emit when
	// bridging transports.
	OnUnix0(data []byte, note *string) error
}

// Factory mints a fresh Observer for one side of one newly accepted
// connection, bound to the shared presenter.
type Factory func(side presenter.Side, p *presenter.Guarded) Observer

const closeMessage = "closed its side of the connection"

// describeError converts the (side, whileWriting) pair into the phrase an
// observer prefixes its error message with.
func describeError(side presenter.Side, whileWriting bool) string {
	switch {
	case !whileWriting:
		return "could not be read"
	case side == presenter.Client:
		return "error writing to server"
	default:
		return "error writing to client"
	}
}

func errorMessage(side presenter.Side, whileWriting bool, err error) string {
	return fmt.Sprintf("%s: %s", describeError(side, whileWriting), err)
}
