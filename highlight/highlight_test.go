package highlight_test

import (
	"strings"
	"testing"

	"github.com/mickamy/blockproxy/highlight"
)

func TestLooksLikeSQL(t *testing.T) {
	t.Parallel()

	yes := []string{
		"SELECT * FROM t",
		"sSELECT * FROM t;",
		"  insert into t values (1)",
	}
	for _, s := range yes {
		if !highlight.LooksLikeSQL(s) {
			t.Errorf("LooksLikeSQL(%q) = false, want true", s)
		}
	}

	no := []string{"", "hello world", "\x00\x01binary", "XREPLY_SIZE 100"}
	for _, s := range no {
		if highlight.LooksLikeSQL(s) {
			t.Errorf("LooksLikeSQL(%q) = true, want false", s)
		}
	}
}

func TestSQLHighlightsAndPreservesTrailingNewline(t *testing.T) {
	t.Parallel()

	in := "SELECT 1;\n"
	out := highlight.SQL(in)
	if out == in {
		t.Fatalf("expected %q to be highlighted, got it unchanged", in)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("expected highlighted output to keep trailing newline, got %q", out)
	}
}

func TestSQLLeavesNonSQLUnchanged(t *testing.T) {
	t.Parallel()

	in := "just some plain text"
	if got := highlight.SQL(in); got != in {
		t.Fatalf("got %q, want unchanged %q", got, in)
	}
}
