// Package workspace tracks one document snapshot per open URI and
// aggregates cross-document views (symbols, label/citation graph,
// include cycles) over them, per spec.md §4.6.
package workspace

import (
	"strings"

	"github.com/jxoesneon/ferrotex/internal/cst"
	"github.com/jxoesneon/ferrotex/internal/token"
)

// Symbol is a document-outline entry (currently: sections).
type Symbol struct {
	Name  string
	Range token.Range
}

// LabelRef is a \label{...} definition or a \ref{...}-family use.
type LabelRef struct {
	Key   string
	Range token.Range
}

// Citation is a \cite{...}-family use, possibly naming several
// comma-separated keys.
type Citation struct {
	Keys  []string
	Range token.Range
}

// IncludeRef is a \input{...}/\include{...} reference to another file.
type IncludeRef struct {
	Path  string
	Range token.Range
}

// LineIndex maps byte offsets to 0-based line/column pairs, the way
// LSP positions require.
type LineIndex struct {
	starts []int // byte offset of the start of each line
}

// NewLineIndex builds a LineIndex over text.
func NewLineIndex(text string) LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return LineIndex{starts: starts}
}

// Position converts a byte offset into a 0-based (line, column) pair,
// column measured in bytes from the start of the line.
func (li LineIndex) Position(offset int) (line, col int) {
	lo, hi := 0, len(li.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.starts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - li.starts[lo]
}

// Snapshot is the immutable, fully-derived state for one document at
// one version. Snapshots are replaced wholesale on update, never
// mutated in place, so concurrent readers always see a consistent
// view (spec.md §3's per-document snapshot invariant).
type Snapshot struct {
	URI          string
	Version      int32
	Text         string
	Lines        LineIndex
	Tree         *cst.Tree
	Symbols      []Symbol
	LabelDefs    []LabelRef
	LabelUses    []LabelRef
	Citations    []Citation
	Includes     []IncludeRef
	Bibliography []IncludeRef
}

// buildSnapshot parses text and extracts every derived set in one
// tree walk, mirroring ferrotexd/src/workspace.rs::scan_includes
// generalized to every symbol kind the workspace needs, not just
// includes.
func buildSnapshot(uri, text string, version int32) *Snapshot {
	tree := cst.Parse([]byte(text))
	snap := &Snapshot{
		URI:     uri,
		Version: version,
		Text:    text,
		Lines:   NewLineIndex(text),
		Tree:    tree,
	}

	tree.Walk(0, func(id cst.NodeID) bool {
		n := tree.Node(id)
		switch n.Kind {
		case cst.KindSection:
			snap.Symbols = append(snap.Symbols, Symbol{Name: n.Name, Range: n.Range})
		case cst.KindLabelDefinition:
			snap.LabelDefs = append(snap.LabelDefs, LabelRef{Key: n.Name, Range: n.Range})
		case cst.KindLabelReference:
			snap.LabelUses = append(snap.LabelUses, LabelRef{Key: n.Name, Range: n.Range})
		case cst.KindCitation:
			snap.Citations = append(snap.Citations, Citation{Keys: splitKeys(n.Name), Range: n.Range})
		case cst.KindInclude:
			snap.Includes = append(snap.Includes, IncludeRef{Path: n.Name, Range: n.Range})
		case cst.KindBibliography:
			snap.Bibliography = append(snap.Bibliography, IncludeRef{Path: n.Name, Range: n.Range})
		}
		return true
	})

	return snap
}

func splitKeys(raw string) []string {
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
