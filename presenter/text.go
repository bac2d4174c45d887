package presenter

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/mickamy/blockproxy/highlight"
)

const (
	boxDownRight = "╭"
	boxUpRight   = "╰"
	boxVertical  = "│"
)

var (
	clientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	serverStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	bulletStyle = lipgloss.NewStyle().Faint(true)
	railStyle   = lipgloss.NewStyle().Faint(true)
)

func sideStyle(side Side) lipgloss.Style {
	if side == Server {
		return serverStyle
	}
	return clientStyle
}

// ErrNotInBlock is returned by Write when called outside a
// StartBlock/EndBlock pair.
var ErrNotInBlock = errors.New("presenter: write outside a block")

// TextPresenter renders trace output as human-readable text: one-line
// events prefixed with a bullet, and blocks framed by a box-drawing rail
// with a left-rail marker on every line.
type TextPresenter struct {
	out         *bufio.Writer
	inBlock     bool
	atStart     bool
	forceBinary bool
	colorize    bool
}

// NewTextPresenter wraps w. When colorize is true, side labels and rails
// are rendered with ANSI styling and text blocks that look like SQL are
// syntax-highlighted.
func NewTextPresenter(w io.Writer, colorize bool) *TextPresenter {
	return &TextPresenter{out: bufio.NewWriter(w), atStart: true, colorize: colorize}
}

// SetForceBinary sets the force-binary flag.
func (p *TextPresenter) SetForceBinary(v bool) {
	p.forceBinary = v
}

// ForceBinary implements Presenter.
func (p *TextPresenter) ForceBinary() bool {
	return p.forceBinary
}

// Highlight implements presenter.Highlighter.
func (p *TextPresenter) Highlight(text string) string {
	if !p.colorize {
		return text
	}
	return highlight.SQL(text)
}

func (p *TextPresenter) style(s lipgloss.Style, text string) string {
	if !p.colorize {
		return text
	}
	return s.Render(text)
}

// Connected implements Presenter.
func (p *TextPresenter) Connected(local, remote fmt.Stringer) error {
	_, err := fmt.Fprintf(p.out, "%s PROXY %s to %s\n", p.style(bulletStyle, "•"), local, remote)
	if err != nil {
		return err
	}
	return p.out.Flush()
}

// Message implements Presenter.
func (p *TextPresenter) Message(side Side, text string) error {
	if p.inBlock {
		return errors.New("presenter: message called while a block is open")
	}
	_, err := fmt.Fprintf(p.out, "%s %s %s\n", p.style(bulletStyle, "•"), p.style(sideStyle(side), side.String()), text)
	if err != nil {
		return err
	}
	return p.out.Flush()
}

// StartBlock implements Presenter.
func (p *TextPresenter) StartBlock(side Side, message string) error {
	if p.inBlock {
		return errors.New("presenter: StartBlock called while a block is already open")
	}
	if _, err := fmt.Fprintf(p.out, "%s %s", p.style(bulletStyle, boxDownRight), p.style(sideStyle(side), side.String())); err != nil {
		return err
	}
	if message != "" {
		if _, err := fmt.Fprintf(p.out, " %s", message); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(p.out); err != nil {
		return err
	}
	p.inBlock = true
	p.atStart = true
	return nil
}

// EndBlock implements Presenter.
func (p *TextPresenter) EndBlock() error {
	if !p.inBlock {
		return errors.New("presenter: EndBlock called without an open block")
	}
	if !p.atStart {
		if _, err := p.out.WriteString("\n"); err != nil {
			return err
		}
		p.atStart = true
	}
	if _, err := p.out.WriteString(p.style(bulletStyle, boxUpRight)); err != nil {
		return err
	}
	if _, err := p.out.WriteString("\n"); err != nil {
		return err
	}
	p.inBlock = false
	return p.out.Flush()
}

// Write implements Presenter (and io.Writer). It is only valid between
// StartBlock and EndBlock; every output line gets a left-rail marker.
func (p *TextPresenter) Write(buf []byte) (int, error) {
	if !p.inBlock {
		return 0, ErrNotInBlock
	}

	written := 0
	for len(buf) > 0 {
		i := bytes.IndexByte(buf, '\n')
		var line []byte
		if i < 0 {
			line = buf
			buf = nil
		} else {
			line = buf[:i+1]
			buf = buf[i+1:]
		}
		if len(line) == 0 {
			continue
		}
		if p.atStart {
			if _, err := p.out.WriteString(p.style(railStyle, boxVertical)); err != nil {
				return written, err
			}
			p.atStart = false
		}
		n, err := p.out.Write(line)
		written += n
		if err != nil {
			return written, err
		}
		p.atStart = line[len(line)-1] == '\n'
	}
	return written, nil
}
