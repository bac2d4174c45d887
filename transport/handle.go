package transport

import (
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Incoming is the readable half of a connection, cloned from either a TCP
// or a local-socket stream.
type Incoming struct {
	conn net.Conn
}

// Read implements io.Reader.
func (in *Incoming) Read(p []byte) (int, error) {
	return in.conn.Read(p)
}

// Shutdown half-closes the read direction.
func (in *Incoming) Shutdown() error {
	return shutdown(in.conn, false)
}

// Outgoing is the writable half of a connection, cloned from either a TCP
// or a local-socket stream.
type Outgoing struct {
	conn net.Conn
}

// Write implements io.Writer.
func (out *Outgoing) Write(p []byte) (int, error) {
	return out.conn.Write(p)
}

// WriteAll writes all of p, the way Rust's write_all does.
func (out *Outgoing) WriteAll(p []byte) error {
	for len(p) > 0 {
		n, err := out.conn.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// Shutdown half-closes the write direction.
func (out *Outgoing) Shutdown() error {
	return shutdown(out.conn, true)
}

// shutdown half-closes conn in the write direction (write=true) or the
// read direction (write=false), using whichever shutdown mechanism the
// concrete connection type exposes.
func shutdown(conn net.Conn, write bool) error {
	type readCloser interface {
		CloseRead() error
	}
	type writeCloser interface {
		CloseWrite() error
	}

	if write {
		if wc, ok := conn.(writeCloser); ok {
			return wc.CloseWrite()
		}
	} else {
		if rc, ok := conn.(readCloser); ok {
			return rc.CloseRead()
		}
	}
	return conn.Close()
}

// Duplex wraps one underlying socket's Incoming and Outgoing halves,
// cloned from the same connection so either can be half-closed
// independently.
type Duplex struct {
	In  *Incoming
	Out *Outgoing
}

func newDuplex(conn net.Conn) Duplex {
	return Duplex{In: &Incoming{conn: conn}, Out: &Outgoing{conn: conn}}
}

// Acceptor yields one accepted connection per call, plus an address: the
// peer's address for a TCP listener, the listener's own socket path for a
// Unix-domain listener.
type Acceptor func() (Duplex, Address, error)

// Listen binds addr and returns an Acceptor; undefined on KindPortOnly.
// For Unix sockets, an AddrInUse bind failure triggers exactly one
// unlink-and-retry.
func Listen(addr Address) (Acceptor, error) {
	switch addr.Kind {
	case KindInet:
		l, err := net.Listen("tcp", addr.Inet)
		if err != nil {
			return nil, fmt.Errorf("transport: listen %s: %w", addr.Inet, err)
		}
		return func() (Duplex, Address, error) {
			conn, err := l.Accept()
			if err != nil {
				return Duplex{}, Address{}, fmt.Errorf("transport: accept: %w", err)
			}
			peer := Address{Kind: KindInet, Inet: conn.RemoteAddr().String()}
			return newDuplex(conn), peer, nil
		}, nil

	case KindUnix:
		l, err := net.Listen("unix", addr.Unix)
		if err != nil && errors.Is(err, syscall.EADDRINUSE) {
			if rmErr := os.Remove(addr.Unix); rmErr != nil {
				return nil, fmt.Errorf("transport: remove stale socket %s: %w", addr.Unix, rmErr)
			}
			l, err = net.Listen("unix", addr.Unix)
		}
		if err != nil {
			return nil, fmt.Errorf("transport: listen %s: %w", addr.Unix, err)
		}
		path := addr.Unix
		return func() (Duplex, Address, error) {
			conn, err := l.Accept()
			if err != nil {
				return Duplex{}, Address{}, fmt.Errorf("transport: accept: %w", err)
			}
			peer := Address{Kind: KindUnix, Unix: path}
			return newDuplex(conn), peer, nil
		}, nil

	default:
		panic("transport: Listen called on a PortOnly address")
	}
}

// ErrConnectionRefused is returned by Connect when neither the local-socket
// nor the TCP expansion of an address could be reached.
var ErrConnectionRefused = errors.New("transport: connection refused")

// Connect tries the local-socket expansion of addr first, then the TCP
// expansion, returning the first that succeeds.
func Connect(addr Address) (Duplex, Address, error) {
	if u, ok := addr.ToUnix(); ok {
		if d, peer, err := connectUnix(u.Unix); err == nil {
			return d, peer, nil
		}
	}

	if i, ok := addr.ToInet(); ok {
		d, peer, err := connectInet(i.Inet)
		if err == nil {
			return d, peer, nil
		}
		return Duplex{}, Address{}, fmt.Errorf("%w: %s: %w", ErrConnectionRefused, addr, err)
	}

	return Duplex{}, Address{}, fmt.Errorf("%w: %s", ErrConnectionRefused, addr)
}

func connectInet(hostport string) (Duplex, Address, error) {
	conn, err := net.Dial("tcp", hostport)
	if err != nil {
		return Duplex{}, Address{}, err
	}
	peer := Address{Kind: KindInet, Inet: conn.RemoteAddr().String()}
	return newDuplex(conn), peer, nil
}

func connectUnix(path string) (Duplex, Address, error) {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return Duplex{}, Address{}, err
	}
	peer := Address{Kind: KindUnix, Unix: path}
	return newDuplex(conn), peer, nil
}

// IsUnix reports whether in was obtained from a Unix-domain socket.
func (in *Incoming) IsUnix() bool {
	_, ok := in.conn.(*net.UnixConn)
	return ok
}

// IsUnix reports whether out was obtained from a Unix-domain socket.
func (out *Outgoing) IsUnix() bool {
	_, ok := out.conn.(*net.UnixConn)
	return ok
}
