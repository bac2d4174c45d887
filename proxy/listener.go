package proxy

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/mickamy/blockproxy/observer"
	"github.com/mickamy/blockproxy/presenter"
	"github.com/mickamy/blockproxy/transport"
)

// Listener binds one listen address and forwards every accepted connection
// to a fixed destination, running both directions through Observers minted
// by Make and serialized into a shared Presenter.
type Listener struct {
	Addr transport.Address
	Dest transport.Address
	Pres *presenter.Guarded
	Make observer.Factory
}

// Run binds Addr and accepts connections until the accept call itself
// fails, at which point Run returns that error and the listener is done —
// by design, the same way the reference implementation's listen loop
// propagates accept failures straight out rather than retrying. Everything
// downstream of a successful accept (dialing the destination, announcing
// the connection, the unix0 fixup, and both pumps) runs on its own
// goroutine per connection, so a connect failure or a pump failure only
// ends that one connection; the accept loop keeps serving the rest.
func (l *Listener) Run() error {
	accept, err := transport.Listen(l.Addr)
	if err != nil {
		return err
	}
	log.Printf("Listening on %s", l.Addr)

	for {
		client, _, err := accept()
		if err != nil {
			return fmt.Errorf("proxy: accept on %s: %w", l.Addr, err)
		}

		go l.serve(client)
	}
}

// serve dials the destination, announces the connection, and spawns both
// pumps for one accepted connection. A failure at any point here is fatal
// only to this connection.
func (l *Listener) serve(client transport.Duplex) {
	id := uuid.New().String()

	server, _, err := connect(l.Dest)
	if err != nil {
		log.Printf("connection '%s' failed: %v", id, fmt.Errorf("proxy: connecting to %s: %w", l.Dest, err))
		_ = client.In.Shutdown()
		_ = client.Out.Shutdown()
		return
	}

	if err := l.Pres.Connected(l.Addr, l.Dest); err != nil {
		log.Printf("connection '%s' failed: %v", id, fmt.Errorf("proxy: announcing connection: %w", err))
		_ = client.In.Shutdown()
		_ = client.Out.Shutdown()
		_ = server.In.Shutdown()
		_ = server.Out.Shutdown()
		return
	}

	inspectClient := l.Make(presenter.Client, l.Pres)
	inspectServer := l.Make(presenter.Server, l.Pres)

	go func() {
		if err := pump(inspectServer, server.In, client.Out); err != nil {
			log.Printf("Thread 'downstream-%s' failed: %v", id, err)
		}
	}()
	go func() {
		if err := adjustUnix(inspectClient, client.In, server.Out); err != nil {
			log.Printf("Thread 'upstream-%s' failed: %v", id, err)
			_ = client.In.Shutdown()
			_ = server.Out.Shutdown()
			return
		}
		if err := pump(inspectClient, client.In, server.Out); err != nil {
			log.Printf("Thread 'upstream-%s' failed: %v", id, err)
		}
	}()
}
