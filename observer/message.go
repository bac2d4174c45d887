package observer

import (
	"github.com/mickamy/blockproxy/blocks"
	"github.com/mickamy/blockproxy/presenter"
)

// MessageObserver feeds bytes to the block parser, accumulates payloads
// into a reassembly buffer, and renders the whole message as one presenter
// block once the terminating block arrives.
type MessageObserver struct {
	side    presenter.Side
	p       *presenter.Guarded
	parser  *blocks.Parser
	message []byte
}

// NewMessageObserver returns an Observer.Factory-compatible constructor for
// MessageObserver.
func NewMessageObserver(side presenter.Side, p *presenter.Guarded) Observer {
	return &MessageObserver{side: side, p: p, parser: blocks.New()}
}

// OnData implements Observer.
func (o *MessageObserver) OnData(data []byte) error {
	return o.parser.Process(data, func(payload []byte, isLast bool) error {
		o.message = append(o.message, payload...)
		if !isLast {
			return nil
		}
		err := presenter.PrintMessage(o.p, o.side, o.message, nil)
		o.message = o.message[:0]
		return err
	})
}

// OnClose implements Observer.
func (o *MessageObserver) OnClose() error {
	return o.p.Message(o.side, o.parser.DescribeEOF())
}

// OnError implements Observer.
func (o *MessageObserver) OnError(whileWriting bool, err error) error {
	return o.p.Message(o.side, errorMessage(o.side, whileWriting, err))
}

// OnUnix0 implements Observer. MessageObserver ignores the fixup event
// unconditionally, note included — reassembled messages have no room for a
// single out-of-band byte anyway.
func (o *MessageObserver) OnUnix0(_ []byte, _ *string) error {
	return nil
}
