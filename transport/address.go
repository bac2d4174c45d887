// Package transport unifies TCP and local (Unix domain) socket endpoints
// behind one accept/connect/read/write surface, and performs the
// cross-transport fixup required to bridge them.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Kind classifies an Address.
type Kind int

const (
	// KindInet is a resolvable TCP host:port endpoint.
	KindInet Kind = iota
	// KindUnix is a filesystem-path Unix domain socket.
	KindUnix
	// KindPortOnly is a bare port number, not yet expanded to a transport.
	KindPortOnly
)

// Address is a tagged endpoint: exactly one of Inet, Unix, or Port is
// meaningful, depending on Kind.
type Address struct {
	Kind Kind
	Inet string // host:port, valid when Kind == KindInet
	Unix string // filesystem path, valid when Kind == KindUnix
	Port uint16 // valid when Kind == KindPortOnly
}

func (a Address) String() string {
	switch a.Kind {
	case KindInet:
		return a.Inet
	case KindUnix:
		return a.Unix
	case KindPortOnly:
		return strconv.Itoa(int(a.Port))
	default:
		return "<invalid address>"
	}
}

// ErrInvalidAddress is returned by Parse when s matches none of the
// recognized address shapes.
var ErrInvalidAddress = errors.New("transport: invalid address")

// Parse classifies s by syntactic shape only, in order: a path separator
// means Unix, a host:port that the OS resolver accepts means Inet, a bare
// 16-bit integer means PortOnly.
func Parse(s string) (Address, error) {
	if strings.ContainsRune(s, '/') || (os.PathSeparator != '/' && strings.ContainsRune(s, os.PathSeparator)) {
		return Address{Kind: KindUnix, Unix: s}, nil
	}

	if resolvesAsHostPort(s) {
		return Address{Kind: KindInet, Inet: s}, nil
	}

	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return Address{Kind: KindPortOnly, Port: uint16(n)}, nil
	}

	return Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
}

// resolvesAsHostPort reports whether s has host:port shape and the host
// resolves through the OS resolver, mirroring Rust's
// `ToSocketAddrs::to_socket_addrs().is_ok()`.
func resolvesAsHostPort(s string) bool {
	host, _, err := net.SplitHostPort(s)
	if err != nil {
		return false
	}
	if host == "" {
		// e.g. ":5432" — SplitHostPort accepts it, but there's no host to resolve.
		return false
	}
	_, err = net.DefaultResolver.LookupHost(context.Background(), host)
	return err == nil
}

// unixSocketPathTemplate is the template MonetDB clients use for a PortOnly address's
// local-socket expansion.
const unixSocketPathTemplate = "/tmp/.s.monetdb.%d"

// ToUnix returns the Unix-domain expansion of a, if any.
func (a Address) ToUnix() (Address, bool) {
	switch a.Kind {
	case KindUnix:
		return a, true
	case KindPortOnly:
		return Address{Kind: KindUnix, Unix: fmt.Sprintf(unixSocketPathTemplate, a.Port)}, true
	default:
		return Address{}, false
	}
}

// ToInet returns the TCP expansion of a, if any.
func (a Address) ToInet() (Address, bool) {
	switch a.Kind {
	case KindInet:
		return a, true
	case KindPortOnly:
		return Address{Kind: KindInet, Inet: fmt.Sprintf("localhost:%d", a.Port)}, true
	default:
		return Address{}, false
	}
}

// Expand returns the sequence of concrete addresses a stands for: for
// PortOnly, the Unix expansion followed by the Inet expansion (local
// transport preferred); for Inet/Unix, just a itself.
func (a Address) Expand() []Address {
	if u, ok := a.ToUnix(); ok {
		if i, ok := a.ToInet(); ok {
			return []Address{u, i}
		}
		return []Address{u}
	}
	if i, ok := a.ToInet(); ok {
		return []Address{i}
	}
	return []Address{a}
}

// ExpandResolved is like Expand, but additionally resolves every Inet
// member to each concrete socket address the hostname names, so a listener
// bound against the result covers every interface the name resolves to.
func ExpandResolved(a Address) ([]Address, error) {
	var out []Address
	for _, addr := range a.Expand() {
		if addr.Kind != KindInet {
			out = append(out, addr)
			continue
		}
		host, port, err := net.SplitHostPort(addr.Inet)
		if err != nil {
			out = append(out, addr)
			continue
		}
		ips, err := net.DefaultResolver.LookupHost(context.Background(), host)
		if err != nil {
			return nil, fmt.Errorf("transport: resolve %s: %w", addr.Inet, err)
		}
		for _, ip := range ips {
			out = append(out, Address{Kind: KindInet, Inet: net.JoinHostPort(ip, port)})
		}
	}
	return out, nil
}
