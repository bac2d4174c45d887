package presenter

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsText reports whether data should be rendered as text: valid UTF-8 with
// no control character other than '\n' or '\t'.
func IsText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return false
		}
		data = data[size:]
	}
	return true
}

// Classify returns the one-line label (e.g. "text, 5 bytes, no trailing
// newline!" or "binary, 12 bytes") PrintMessage uses to open a block,
// honoring forceBinary.
func Classify(data []byte, forceBinary bool) (text bool, label string) {
	n := len(data)
	if forceBinary || !IsText(data) {
		return false, fmt.Sprintf("binary, %d bytes", n)
	}
	if n == 0 || data[n-1] == '\n' {
		return true, fmt.Sprintf("text, %d bytes", n)
	}
	return true, fmt.Sprintf("text, %d bytes, no trailing newline!", n)
}

// PrintMessage renders data as one block attributed to side, with label
// built from Classify plus any extra remarks appended after a comma.
func PrintMessage(g *Guarded, side Side, data []byte, remarks []string) error {
	isText, label := Classify(data, g.ForceBinary())
	if len(remarks) > 0 {
		label = label + ", " + strings.Join(remarks, ", ")
	}

	return g.Block(side, label, func(w Presenter) error {
		if isText {
			return dumpText(w, string(data))
		}
		return dumpBinary(w, data)
	})
}

// Highlighter is implemented by presenters that want a chance to apply
// syntax highlighting to text blocks before newline/tab substitution.
type Highlighter interface {
	Highlight(text string) string
}

// dumpText writes text with newlines replaced by a visible marker and tabs
// by an arrow; every other rune is written as-is.
func dumpText(w Presenter, text string) error {
	if h, ok := w.(Highlighter); ok {
		text = h.Highlight(text)
	}
	for _, r := range text {
		var err error
		switch r {
		case '\n':
			_, err = fmt.Fprint(w, "↵\n")
		case '\t':
			_, err = fmt.Fprint(w, "→")
		default:
			_, err = fmt.Fprint(w, string(r))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

const bytesPerDumpLine = 16

// dumpBinary renders data as 16-byte hex rows with an ASCII gutter.
func dumpBinary(w Presenter, data []byte) error {
	for i := 0; i < len(data); i += bytesPerDumpLine {
		end := i + bytesPerDumpLine
		if end > len(data) {
			end = len(data)
		}
		if err := dumpLine(w, data[i:end]); err != nil {
			return err
		}
	}
	return nil
}

func dumpLine(w Presenter, data []byte) error {
	var b strings.Builder
	for i := 0; i < bytesPerDumpLine; i++ {
		if i < len(data) {
			fmt.Fprintf(&b, "%02x ", data[i])
		} else {
			b.WriteString("__ ")
		}
		if i%4 == 3 {
			b.WriteByte(' ')
		}
		if i%8 == 7 {
			b.WriteByte(' ')
		}
	}
	b.WriteString("  ")
	for _, bt := range data {
		switch {
		case bt == '\n':
			b.WriteRune('↵')
		case bt == '\t':
			b.WriteRune('→')
		case bt < 0x20 || bt >= 0x7f:
			b.WriteRune('░')
		default:
			b.WriteByte(bt)
		}
	}
	b.WriteByte('\n')
	_, err := fmt.Fprint(w, b.String())
	return err
}
