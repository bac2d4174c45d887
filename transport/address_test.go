package transport_test

import (
	"testing"

	"github.com/mickamy/blockproxy/transport"
)

func TestParseUnix(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"/tmp/foo.sock", "./relative/path", "../up/socket"} {
		addr, err := transport.Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if addr.Kind != transport.KindUnix {
			t.Fatalf("Parse(%q) = %+v, want KindUnix", s, addr)
		}
		if addr.Unix != s {
			t.Fatalf("Parse(%q).Unix = %q, want %q", s, addr.Unix, s)
		}
	}
}

func TestParseInet(t *testing.T) {
	t.Parallel()

	addr, err := transport.Parse("localhost:50000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if addr.Kind != transport.KindInet {
		t.Fatalf("got %+v, want KindInet", addr)
	}
	if addr.Inet != "localhost:50000" {
		t.Fatalf("got Inet %q", addr.Inet)
	}
}

func TestParsePortOnly(t *testing.T) {
	t.Parallel()

	addr, err := transport.Parse("50000")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if addr.Kind != transport.KindPortOnly {
		t.Fatalf("got %+v, want KindPortOnly", addr)
	}
	if addr.Port != 50000 {
		t.Fatalf("got Port %d, want 50000", addr.Port)
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	_, err := transport.Parse("this is not an address, no colon, not numeric")
	if err == nil {
		t.Fatal("expected error for unparsable address")
	}
}

func TestExpandPortOnly(t *testing.T) {
	t.Parallel()

	addr, err := transport.Parse("50000")
	if err != nil {
		t.Fatal(err)
	}

	expanded := addr.Expand()
	if len(expanded) != 2 {
		t.Fatalf("got %d addresses, want 2: %+v", len(expanded), expanded)
	}
	if expanded[0].Kind != transport.KindUnix || expanded[0].Unix != "/tmp/.s.monetdb.50000" {
		t.Fatalf("expanded[0] = %+v, want unix socket path", expanded[0])
	}
	if expanded[1].Kind != transport.KindInet || expanded[1].Inet != "localhost:50000" {
		t.Fatalf("expanded[1] = %+v, want localhost:50000", expanded[1])
	}
}

func TestExpandInetYieldsItself(t *testing.T) {
	t.Parallel()

	addr := transport.Address{Kind: transport.KindInet, Inet: "example.org:1234"}
	expanded := addr.Expand()
	if len(expanded) != 1 || expanded[0] != addr {
		t.Fatalf("got %+v, want [%+v]", expanded, addr)
	}
}

func TestExpandUnixYieldsItself(t *testing.T) {
	t.Parallel()

	addr := transport.Address{Kind: transport.KindUnix, Unix: "/var/run/db.sock"}
	expanded := addr.Expand()
	if len(expanded) != 1 || expanded[0] != addr {
		t.Fatalf("got %+v, want [%+v]", expanded, addr)
	}
}
