package observer

import (
	"github.com/mickamy/blockproxy/blocks"
	"github.com/mickamy/blockproxy/presenter"
)

// BlockObserver feeds bytes to the block parser and renders each emitted
// block as its own presenter block, labelled with whether it ends the
// message.
type BlockObserver struct {
	side   presenter.Side
	p      *presenter.Guarded
	parser *blocks.Parser
}

// NewBlockObserver returns an Observer.Factory-compatible constructor for
// BlockObserver.
func NewBlockObserver(side presenter.Side, p *presenter.Guarded) Observer {
	return &BlockObserver{side: side, p: p, parser: blocks.New()}
}

// OnData implements Observer.
func (o *BlockObserver) OnData(data []byte) error {
	return o.parser.Process(data, func(payload []byte, isLast bool) error {
		remark := "does not end the message"
		if isLast {
			remark = "ends the message"
		}
		return presenter.PrintMessage(o.p, o.side, payload, []string{remark})
	})
}

// OnClose implements Observer.
func (o *BlockObserver) OnClose() error {
	return o.p.Message(o.side, o.parser.DescribeEOF())
}

// OnError implements Observer.
func (o *BlockObserver) OnError(whileWriting bool, err error) error {
	return o.p.Message(o.side, errorMessage(o.side, whileWriting, err))
}

// OnUnix0 implements Observer. BlockObserver never shows the fixup bytes
// themselves — only the note, when bridging transports actually produced
// one.
func (o *BlockObserver) OnUnix0(_ []byte, note *string) error {
	if note != nil {
		return o.p.Message(o.side, *note)
	}
	return nil
}
