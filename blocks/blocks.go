// Package blocks implements the incremental parser for the block-framing
// envelope: a two-byte little-endian header followed by a variable-length
// payload, with the header's low bit marking the last block of a message.
package blocks

// Parser is an incremental state machine that consumes arbitrary byte
// chunks and yields complete blocks. The zero value is not usable; use New.
type Parser struct {
	buffer    []byte
	goal      int
	lastBlock bool
}

// New returns a Parser ready to consume the start of a block stream.
func New() *Parser {
	return &Parser{buffer: make([]byte, 0, 8192), goal: 2}
}

// Callback receives one block's payload and whether it is the last block of
// its message. Returning a non-nil error aborts Process, which propagates
// it to the caller.
type Callback func(payload []byte, isLast bool) error

// Process consumes data left-to-right, calling cb once per complete block.
// It does not allocate beyond the internal buffer.
func (p *Parser) Process(data []byte, cb Callback) error {
	for len(data) > 0 {
		toRead := p.goal - len(p.buffer)
		n := len(data)
		if toRead < n {
			n = toRead
		}
		p.buffer = append(p.buffer, data[:n]...)
		data = data[n:]

		if len(p.buffer) < p.goal {
			continue
		}

		if p.goal == 2 {
			header := uint16(p.buffer[0]) | uint16(p.buffer[1])<<8
			p.goal += int(header >> 1)
			p.lastBlock = header&1 != 0

			if p.goal > 2 {
				// Nonempty block: keep reading the payload.
				continue
			}
			// Empty block (header == 1 or 0): fall through to emission.
		}

		err := cb(p.buffer[2:], p.lastBlock)
		p.buffer = p.buffer[:0]
		p.goal = 2
		if err != nil {
			return err
		}
	}
	return nil
}

// DescribeEOF classifies the residue left in the buffer after the stream
// has ended, without consuming it.
func (p *Parser) DescribeEOF() string {
	switch n := len(p.buffer); {
	case n == 0:
		return "closed its side of the connection"
	case n == 1:
		return "eof on incomplete block header"
	default:
		return "eof on incomplete block body"
	}
}
