// Package format implements textDocument/formatting: indentation-only,
// line-based, driven by the CST, per spec.md §4.10.
package format

import (
	"strings"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/token"
)

const indentWidth = 4

// Edit is a textual replacement of a line's leading-whitespace range.
type Edit struct {
	Line      int // zero-based
	OldWidth  int // bytes of existing leading whitespace replaced
	NewIndent string
}

// Format computes the indentation edits for text, per spec.md §4.10's
// two-pass algorithm: pass one accumulates a per-line depth delta from
// \begin/\end command tokens, pass two prefix-sums those deltas into a
// target depth and emits an edit wherever the line's current leading
// whitespace differs from depth*4 spaces. Blank lines are skipped
// entirely, never assigned an edit.
func Format(text string) []Edit {
	return FormatWithIndent(text, indentWidth)
}

// FormatWithIndent is Format with an overridable spaces-per-level,
// for callers honoring a configured indentWidth (internal/config)
// instead of the default.
func FormatWithIndent(text string, width int) []Edit {
	if width <= 0 {
		width = indentWidth
	}
	lines := strings.Split(text, "\n")
	effects := make([]int, len(lines)+1)

	tree := cst.Parse([]byte(text))
	lineStarts := computeLineStarts(text)

	tree.Walk(0, func(id cst.NodeID) bool {
		n := tree.Node(id)
		if !n.IsLeaf() || n.Token.Kind != token.Command {
			return true
		}
		cmdText := string(n.Token.Text)
		line := lineOf(lineStarts, n.Range.Start)
		switch cmdText {
		case `\begin`:
			if line+1 < len(effects) {
				effects[line+1]++
			}
		case `\end`:
			effects[line]--
		}
		return true
	})

	var edits []Edit
	depth := 0
	for i, line := range lines {
		depth += effects[i]
		if depth < 0 {
			depth = 0
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		current := leadingWhitespace(line)
		want := strings.Repeat(" ", depth*width)
		if current != want {
			edits = append(edits, Edit{Line: i, OldWidth: len(current), NewIndent: want})
		}
	}
	return edits
}

func leadingWhitespace(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

func computeLineStarts(text string) []int {
	starts := []int{0}
	for i, c := range []byte(text) {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(starts []int, offset int) int {
	lo, hi := 0, len(starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
