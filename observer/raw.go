package observer

import (
	"github.com/mickamy/blockproxy/presenter"
)

// RawObserver renders every chunk the pump reads as its own block, with no
// awareness of block framing.
type RawObserver struct {
	side presenter.Side
	p    *presenter.Guarded
}

// NewRawObserver returns an Observer.Factory-compatible constructor for
// RawObserver.
func NewRawObserver(side presenter.Side, p *presenter.Guarded) Observer {
	return &RawObserver{side: side, p: p}
}

// OnData implements Observer.
func (o *RawObserver) OnData(data []byte) error {
	return presenter.PrintMessage(o.p, o.side, data, nil)
}

// OnClose implements Observer.
func (o *RawObserver) OnClose() error {
	return o.p.Message(o.side, closeMessage)
}

// OnError implements Observer.
func (o *RawObserver) OnError(whileWriting bool, err error) error {
	return o.p.Message(o.side, errorMessage(o.side, whileWriting, err))
}

// OnUnix0 implements Observer. Raw mode shows the consumed/injected fixup
// byte as its own block, then the note (if any) as a one-line message.
func (o *RawObserver) OnUnix0(data []byte, note *string) error {
	if err := o.OnData(data); err != nil {
		return err
	}
	if note != nil {
		return o.p.Message(o.side, *note)
	}
	return nil
}
