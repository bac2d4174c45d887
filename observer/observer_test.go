package observer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mickamy/blockproxy/observer"
	"github.com/mickamy/blockproxy/presenter"
)

func block(payload []byte, last bool) []byte {
	n := len(payload)
	header := uint16(n) << 1
	if last {
		header |= 1
	}
	out := make([]byte, 2+n)
	out[0] = byte(header)
	out[1] = byte(header >> 8)
	copy(out[2:], payload)
	return out
}

func TestMessageObserverReassemblesAcrossBlocks(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
	obs := observer.NewMessageObserver(presenter.Client, pres)

	var stream []byte
	stream = append(stream, block([]byte("ab"), false)...)
	stream = append(stream, block([]byte("cdefg"), true)...)

	if err := obs.OnData(stream); err != nil {
		t.Fatalf("OnData: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "abcdefg") {
		t.Fatalf("expected reassembled payload abcdefg in output, got %q", out)
	}
	// Exactly one block should have been opened (one CLIENT block line).
	if n := strings.Count(out, "╭ CLIENT"); n != 1 {
		t.Fatalf("expected exactly one opened block, got %d in %q", n, out)
	}
}

func TestBlockObserverEmitsEachBlockSeparately(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
	obs := observer.NewBlockObserver(presenter.Client, pres)

	var stream []byte
	stream = append(stream, block([]byte("ab"), false)...)
	stream = append(stream, block([]byte("cdefg"), true)...)

	if err := obs.OnData(stream); err != nil {
		t.Fatalf("OnData: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "does not end the message") {
		t.Fatalf("expected first block remark, got %q", out)
	}
	if !strings.Contains(out, "ends the message") {
		t.Fatalf("expected second block remark, got %q", out)
	}
	if n := strings.Count(out, "╭ CLIENT"); n != 2 {
		t.Fatalf("expected two opened blocks, got %d", n)
	}
}

func TestUnix0Asymmetry(t *testing.T) {
	t.Parallel()
	note := "proxy eliminated leading '0' to adjust unix->inet"

	t.Run("raw shows bytes and note", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
		obs := observer.NewRawObserver(presenter.Client, pres)
		if err := obs.OnUnix0([]byte("0"), &note); err != nil {
			t.Fatalf("OnUnix0: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "╭ CLIENT") {
			t.Errorf("raw observer should render fixup bytes as a block, got %q", out)
		}
		if !strings.Contains(out, note) {
			t.Errorf("raw observer should emit the note, got %q", out)
		}
	})

	t.Run("block shows only note", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
		obs := observer.NewBlockObserver(presenter.Client, pres)
		if err := obs.OnUnix0([]byte("0"), &note); err != nil {
			t.Fatalf("OnUnix0: %v", err)
		}
		out := buf.String()
		if strings.Contains(out, "╭ CLIENT") {
			t.Errorf("block observer should not render the fixup bytes as a block, got %q", out)
		}
		if !strings.Contains(out, note) {
			t.Errorf("block observer should still emit the note, got %q", out)
		}
	})

	t.Run("message ignores unconditionally", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
		obs := observer.NewMessageObserver(presenter.Client, pres)
		if err := obs.OnUnix0([]byte("0"), &note); err != nil {
			t.Fatalf("OnUnix0: %v", err)
		}
		if out := buf.String(); out != "" {
			t.Errorf("message observer should ignore OnUnix0 entirely, got %q", out)
		}
	})
}

func TestOnCloseDescribesEOF(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pres := presenter.NewGuarded(presenter.NewTextPresenter(&buf, false))
	obs := observer.NewMessageObserver(presenter.Server, pres)

	if err := obs.OnClose(); err != nil {
		t.Fatalf("OnClose: %v", err)
	}
	if !strings.Contains(buf.String(), "closed its side of the connection") {
		t.Fatalf("got %q", buf.String())
	}
}
