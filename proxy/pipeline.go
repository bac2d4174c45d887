// Package proxy wires a transport.Acceptor and a destination transport.Address
// together into running connections, driving a pair of Observers through
// every byte that crosses the wire.
package proxy

import (
	"errors"
	"fmt"
	"io"

	"github.com/mickamy/blockproxy/observer"
	"github.com/mickamy/blockproxy/transport"
)

// blockSize is the read buffer for each pump, matching the wire protocol's
// own block size so a single read typically covers one block.
const blockSize = 8190

// pump copies everything r produces to w, reporting every read, the clean
// close, and any I/O error to insp. A clean EOF on r reports OnClose; any
// other read error reports OnError and pump returns whatever the observer
// returns. A write failure to w reports OnError(writing) and half-closes r;
// pump then returns nil, since the read side is simply done, not erroring.
func pump(insp observer.Observer, r *transport.Incoming, w *transport.Outgoing) error {
	buffer := make([]byte, blockSize)

	for {
		n, err := r.Read(buffer)
		if err != nil {
			_ = w.Shutdown()
			if errors.Is(err, io.EOF) {
				return insp.OnClose()
			}
			return insp.OnError(false, err)
		}

		if err := insp.OnData(buffer[:n]); err != nil {
			return err
		}

		if err := w.WriteAll(buffer[:n]); err != nil {
			if oerr := insp.OnError(true, err); oerr != nil {
				return oerr
			}
			_ = r.Shutdown()
			return nil
		}
	}
}

// adjustUnix performs the MonetDB local-socket handshake fixup: Unix domain
// clients send a leading literal '0' byte that Inet clients never send.
// Bridging two transports of different kinds means inserting or stripping
// that byte, with a note for the operator; bridging two sockets of the
// same kind still calls the observer's on_unix0 (so Raw mode can log the
// consumed/injected byte), but carries no note since nothing actually
// changed in flight.
func adjustUnix(insp observer.Observer, r *transport.Incoming, w *transport.Outgoing) error {
	if r.IsUnix() {
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return fmt.Errorf("proxy: reading unix0 prefix: %w", err)
		}
		if b[0] != '0' {
			return fmt.Errorf("proxy: expected leading '0' (0x30) from client unix domain socket, got 0x%02x", b[0])
		}
	}

	switch {
	case !r.IsUnix() && !w.IsUnix():
		if err := insp.OnUnix0(nil, nil); err != nil {
			return err
		}
	case !r.IsUnix() && w.IsUnix():
		note := "proxy inserting leading '0' to adjust inet->unix"
		if err := insp.OnUnix0(nil, &note); err != nil {
			return err
		}
	case r.IsUnix() && !w.IsUnix():
		note := "proxy eliminated leading '0' to adjust unix->inet"
		if err := insp.OnUnix0([]byte("0"), &note); err != nil {
			return err
		}
	default: // r.IsUnix() && w.IsUnix()
		if err := insp.OnUnix0([]byte("0"), nil); err != nil {
			return err
		}
	}

	if w.IsUnix() {
		if err := w.WriteAll([]byte("0")); err != nil {
			return fmt.Errorf("proxy: writing unix0 prefix: %w", err)
		}
	}
	return nil
}

// connect dials dest, preferring its local-socket expansion, matching
// transport.Connect's own preference.
func connect(dest transport.Address) (transport.Duplex, transport.Address, error) {
	return transport.Connect(dest)
}
