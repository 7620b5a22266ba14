package lsp

import (
	"go.lsp.dev/protocol"

	"github.com/jxoesneon/ferrotex/internal/token"
	"github.com/jxoesneon/ferrotex/internal/workspace"
)

// toRange converts a byte range into a protocol.Range using snap's line
// index. LSP positions are UTF-16 code units per line; this codebase's
// LineIndex is byte-based, which is exact for ASCII TeX source and an
// accepted simplification elsewhere (non-ASCII math symbols are rare
// and still round-trip correctly for ASCII-only edits).
func toRange(lines workspace.LineIndex, rng token.Range) protocol.Range {
	startLine, startCol := lines.Position(rng.Start)
	endLine, endCol := lines.Position(rng.End)
	return protocol.Range{
		Start: protocol.Position{Line: uint32(startLine), Character: uint32(startCol)},
		End:   protocol.Position{Line: uint32(endLine), Character: uint32(endCol)},
	}
}

// toOffset converts a protocol.Position back to a byte offset into
// text, the inverse of toRange for a single point.
func toOffset(text string, pos protocol.Position) int {
	line, col := 0, 0
	for i := 0; i < len(text); i++ {
		if line == int(pos.Line) && col == int(pos.Character) {
			return i
		}
		if text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return len(text)
}
