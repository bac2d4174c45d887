// Package highlight applies ANSI terminal syntax highlighting to text
// blocks that look like SQL, the way MonetDB's own clients send SQL
// statements as the payload of this protocol's blocks.
package highlight

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var (
	lexer     chroma.Lexer
	formatter chroma.Formatter
	style     *chroma.Style
)

func init() {
	lexer = lexers.Get("sql")
	formatter = formatters.Get("terminal256")
	style = styles.Get("monokai")
}

// sqlLeaderRE matches the handful of tokens a MonetDB MAPI block payload
// starts with: a one-character command byte (the protocol's own framing,
// e.g. 's' for a single statement, 'X' for control commands) optionally
// followed by a SQL keyword, or a bare SQL keyword.
var sqlLeaderRE = regexp.MustCompile(
	`(?i)^[sSXq]?\s*(SELECT|INSERT|UPDATE|DELETE|CREATE|DROP|ALTER|WITH|CALL|EXPLAIN|COPY|BEGIN|COMMIT|ROLLBACK|GRANT|REVOKE)\b`,
)

// LooksLikeSQL reports whether s is plausibly a SQL statement (or a MAPI
// command byte followed by one), as a cheap gate before paying for
// tokenisation.
func LooksLikeSQL(s string) bool {
	return sqlLeaderRE.MatchString(strings.TrimSpace(s))
}

// SQL returns s with ANSI terminal syntax highlighting applied. On error,
// on empty input, or when s does not look like SQL, s is returned
// unchanged.
func SQL(s string) string {
	if s == "" || !LooksLikeSQL(s) {
		return s
	}

	iterator, err := lexer.Tokenise(nil, s)
	if err != nil {
		return s
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return s
	}

	out := strings.TrimRight(buf.String(), "\n")
	if strings.HasSuffix(s, "\n") {
		out += "\n"
	}
	return out
}
