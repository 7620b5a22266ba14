// Package semtok implements textDocument/semanticTokens/full, per
// spec.md §4.11: a preorder walk of the CST encoding each qualifying
// node as an LSP semantic token delta tuple.
package semtok

import "github.com/jxoesneon/ferrotex/internal/cst"

// TokenType is the semantic token type index, fixed by spec.md §4.11.
const (
	TypeMacro   = 0
	TypeKeyword = 1
	TypeString  = 2
	TypeComment = 3
)

// Token is one entry of the LSP semantic tokens delta-encoded array:
// (deltaLine, deltaStart, length, tokenType, 0).
type Token struct {
	DeltaLine      int
	DeltaStartChar int
	Length         int
	TokenType      int
}

// Encode preorder-walks tree and emits a Token for every Command,
// Environment, Group, or Comment node whose range lies within a single
// line. Multi-line nodes are skipped entirely, per spec.md §4.11.
func Encode(tree *cst.Tree, lineStarts []int) []Token {
	var tokens []Token
	prevLine, prevStart := 0, 0

	tree.Walk(0, func(id cst.NodeID) bool {
		n := tree.Node(id)
		tokType, ok := tokenType(n)
		if !ok {
			return true
		}
		startLine, startChar := position(lineStarts, n.Range.Start)
		endLine, _ := position(lineStarts, n.Range.End)
		if startLine != endLine {
			return true
		}
		length := n.Range.Len()

		deltaLine := startLine - prevLine
		deltaStart := startChar
		if deltaLine == 0 {
			deltaStart = startChar - prevStart
		}
		tokens = append(tokens, Token{
			DeltaLine:      deltaLine,
			DeltaStartChar: deltaStart,
			Length:         length,
			TokenType:      tokType,
		})
		prevLine, prevStart = startLine, startChar
		return true
	})
	return tokens
}

func tokenType(n *cst.Node) (int, bool) {
	if n.IsLeaf() {
		if n.Token.Kind.String() == "Command" {
			return TypeMacro, true
		}
		if n.Token.Kind.String() == "Comment" {
			return TypeComment, true
		}
		return 0, false
	}
	switch n.Kind {
	case cst.KindEnvironment:
		return TypeKeyword, true
	case cst.KindGroup:
		return TypeString, true
	default:
		return 0, false
	}
}

// position converts a byte offset to a (line, column) pair given the
// byte offset each line starts at.
func position(lineStarts []int, offset int) (line, col int) {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, offset - lineStarts[lo]
}

// LineStarts computes the byte offset each line begins at, for use
// with Encode.
func LineStarts(text []byte) []int {
	starts := []int{0}
	for i, c := range text {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
