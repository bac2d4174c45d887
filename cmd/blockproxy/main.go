// Command blockproxy is an interception proxy for the MonetDB MAPI wire
// protocol: it sits between a client and a real server, relays every byte
// unmodified (apart from the one-byte '0' prefix it strips or inserts when
// bridging a local socket and TCP), and renders what crosses the wire at a
// chosen granularity.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/mickamy/blockproxy/observer"
	"github.com/mickamy/blockproxy/presenter"
	"github.com/mickamy/blockproxy/proxy"
	"github.com/mickamy/blockproxy/transport"
	"github.com/mickamy/blockproxy/tui"
)

var version = "dev"

func main() {
	fs := flag.NewFlagSet("blockproxy", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "blockproxy — inspect a MonetDB MAPI connection in flight\n\n"+
			"Usage:\n  blockproxy [flags] <listen-addr> <dest-addr>\n\nFlags:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nAddresses are a host:port, a filesystem path, or a bare port number\n"+
			"(which expands to both the MonetDB local-socket and localhost forms).\n")
	}

	raw := fs.Bool("r", false, "observe raw byte chunks, ignoring block framing")
	fs.BoolVar(raw, "raw", false, "alias for -r")
	blocksOnly := fs.Bool("b", false, "observe individual blocks")
	fs.BoolVar(blocksOnly, "blocks", false, "alias for -b")
	messages := fs.Bool("m", false, "observe reassembled messages (default)")
	fs.BoolVar(messages, "messages", false, "alias for -m")
	forceBinary := fs.Bool("B", false, "always dump payloads as hex, never as text")
	fs.BoolVar(forceBinary, "binary", false, "alias for -B")
	useTUI := fs.Bool("tui", false, "show a scrolling live pager instead of writing to stdout")
	showVersion := fs.Bool("v", false, "show version and exit")
	fs.BoolVar(showVersion, "version", false, "alias for -v")

	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("blockproxy %s\n", version)
		return
	}

	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}

	factory, err := observerFactory(*raw, *blocksOnly, *messages)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	listenAddr, err := transport.Parse(fs.Arg(0))
	if err != nil {
		log.Fatalf("listen address: %v", err)
	}
	destAddr, err := transport.Parse(fs.Arg(1))
	if err != nil {
		log.Fatalf("destination address: %v", err)
	}

	listenAddrs, err := transport.ExpandResolved(listenAddr)
	if err != nil {
		log.Fatalf("resolving listen address: %v", err)
	}

	var pres *presenter.Guarded

	if *useTUI {
		g, p := tui.New(!*forceBinary)
		pres = g
		if tp, ok := g.P.(*presenter.TextPresenter); ok {
			tp.SetForceBinary(*forceBinary)
		}
		for _, addr := range listenAddrs {
			l := &proxy.Listener{Addr: addr, Dest: destAddr, Pres: pres, Make: factory}
			go func(l *proxy.Listener) {
				if err := l.Run(); err != nil {
					log.Fatalf("listening on %s: %v", l.Addr, err)
				}
			}(l)
		}
		if _, err := p.Run(); err != nil {
			log.Fatalf("tui: %v", err)
		}
		return
	}

	tp := presenter.NewTextPresenter(os.Stdout, true)
	tp.SetForceBinary(*forceBinary)
	pres = presenter.NewGuarded(tp)

	errs := make(chan error, len(listenAddrs))
	for _, addr := range listenAddrs {
		l := &proxy.Listener{Addr: addr, Dest: destAddr, Pres: pres, Make: factory}
		go func(l *proxy.Listener) {
			errs <- l.Run()
		}(l)
	}
	log.Fatal(<-errs)
}

// observerFactory resolves the mutually exclusive granularity flags into an
// observer.Factory, defaulting to message-level observation.
func observerFactory(raw, blocks, messages bool) (observer.Factory, error) {
	chosen := 0
	for _, b := range []bool{raw, blocks, messages} {
		if b {
			chosen++
		}
	}
	if chosen > 1 {
		return nil, fmt.Errorf("blockproxy: -r/-b/-m are mutually exclusive")
	}

	switch {
	case raw:
		return observer.NewRawObserver, nil
	case blocks:
		return observer.NewBlockObserver, nil
	default:
		return observer.NewMessageObserver, nil
	}
}
