// Package token defines the lexical token kinds shared by the lexer and
// the CST builder.
package token

// Kind is a closed set of lexical token kinds produced by the lexer.
type Kind uint8

const (
	// Eof marks the end of input. Always the last token in a stream.
	Eof Kind = iota
	// LBrace is a literal '{'.
	LBrace
	// RBrace is a literal '}'.
	RBrace
	// LBracket is a literal '['.
	LBracket
	// RBracket is a literal ']'.
	RBracket
	// Command is a '\' followed by either one or more ASCII letters or
	// exactly one non-letter character.
	Command
	// Whitespace is a maximal run of Unicode whitespace.
	Whitespace
	// Comment runs from '%' up to but excluding the next line terminator.
	Comment
	// Text is a maximal run of non-special, non-whitespace characters.
	Text
	// Error is a lexer-flagged surrogate for bytes that could not be
	// classified (reserved; the lexer never actually emits this kind
	// today, since every byte belongs to some token per spec).
	Error
)

// String renders a Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	switch k {
	case Eof:
		return "Eof"
	case LBrace:
		return "LBrace"
	case RBrace:
		return "RBrace"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Command:
		return "Command"
	case Whitespace:
		return "Whitespace"
	case Comment:
		return "Comment"
	case Text:
		return "Text"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Range is a half-open byte range [Start, End) into a source buffer.
type Range struct {
	Start int
	End   int
}

// Len returns the number of bytes the range spans.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether offset falls within [Start, End).
func (r Range) Contains(offset int) bool {
	return offset >= r.Start && offset < r.End
}

// Token is a single lexical token: a kind, its exact source slice, and
// its byte range. Text is a subslice of the original source buffer —
// tokens never own or copy source bytes.
type Token struct {
	Kind  Kind
	Text  []byte
	Range Range
}
