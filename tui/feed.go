// Package tui is a minimal bubbletea live pager for the block-proxy output:
// a scrolling, follow-by-default view over the same rendered lines a
// terminal would show, for sessions too long or too fast to read in place.
package tui

import "bytes"

// maxLines bounds how much rendered history the pager keeps; older lines
// are dropped to keep memory bounded on a long-running proxy.
const maxLines = 20000

// feed is an io.Writer that splits whatever a Presenter writes into
// complete lines and pushes them to a bounded channel for the Bubble Tea
// model to consume. Partial lines (no trailing newline yet) are held back
// until the rest arrives.
type feed struct {
	residual []byte
	lines    chan string
}

func newFeed() *feed {
	return &feed{lines: make(chan string, maxLines)}
}

// Write implements io.Writer. It never blocks the caller for long: once the
// channel is full, the oldest buffered line is dropped to make room, so a
// slow-to-render TUI never backs up the proxy's I/O pumps.
func (f *feed) Write(p []byte) (int, error) {
	f.residual = append(f.residual, p...)
	for {
		i := bytes.IndexByte(f.residual, '\n')
		if i < 0 {
			break
		}
		line := string(f.residual[:i])
		f.residual = f.residual[i+1:]
		f.push(line)
	}
	return len(p), nil
}

func (f *feed) push(line string) {
	select {
	case f.lines <- line:
		return
	default:
	}
	// Channel full: drop the oldest line and retry once.
	select {
	case <-f.lines:
	default:
	}
	select {
	case f.lines <- line:
	default:
	}
}
