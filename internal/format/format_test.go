package format_test

import (
	"strings"
	"testing"

	"github.com/jxoesneon/ferrotex/internal/format"
)

func applyEdits(text string, edits []format.Edit) string {
	lines := strings.Split(text, "\n")
	byLine := make(map[int]format.Edit)
	for _, e := range edits {
		byLine[e.Line] = e
	}
	for i, line := range lines {
		if e, ok := byLine[i]; ok {
			trimmed := strings.TrimLeft(line, " \t")
			lines[i] = e.NewIndent + trimmed
		}
	}
	return strings.Join(lines, "\n")
}

func TestFormatIndentsEnvironmentBody(t *testing.T) {
	in := "\\begin{itemize}\n\\item a\n\\end{itemize}\n"
	edits := format.Format(in)
	out := applyEdits(in, edits)
	want := "\\begin{itemize}\n    \\item a\n\\end{itemize}\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	in := "\\begin{itemize}\n\\item a\n\\end{itemize}\n"
	out := applyEdits(in, format.Format(in))
	if edits := format.Format(out); len(edits) != 0 {
		t.Fatalf("expected zero edits on already-canonical text, got %+v", edits)
	}
}

func TestFormatSkipsBlankLines(t *testing.T) {
	in := "\\begin{a}\n\n\\end{a}\n"
	edits := format.Format(in)
	for _, e := range edits {
		if e.Line == 1 {
			t.Fatal("expected blank line to be skipped")
		}
	}
}

func TestFormatNestedEnvironments(t *testing.T) {
	in := "\\begin{a}\n\\begin{b}\nx\n\\end{b}\n\\end{a}\n"
	edits := format.Format(in)
	out := applyEdits(in, edits)
	want := "\\begin{a}\n    \\begin{b}\n        x\n    \\end{b}\n\\end{a}\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}
