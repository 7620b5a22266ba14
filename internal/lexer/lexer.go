// Package lexer tokenizes LaTeX source into a flat, lossless token
// stream. The lexer never fails: every input byte belongs to exactly
// one token, and the concatenation of all token texts reproduces the
// source exactly.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/jxoesneon/ferrotex/internal/invariant"
	"github.com/jxoesneon/ferrotex/internal/token"
)

// Lexer tokenizes a byte slice on demand. It holds no heap state
// beyond its input and cursor, so callers can share a source buffer
// across many parses.
type Lexer struct {
	input []byte
	pos   int
}

// New creates a Lexer over src. The caller retains ownership of src;
// the lexer only reads it.
func New(src []byte) *Lexer {
	return &Lexer{input: src}
}

// Tokens lexes the entire input and returns every token including the
// trailing Eof. This is the primary entry point used by the CST
// builder, which wants random lookahead over the full stream.
func Tokens(src []byte) []token.Token {
	l := New(src)
	var toks []token.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == token.Eof {
			return toks
		}
	}
}

// Next returns the next token, advancing the cursor. Once Eof is
// returned, subsequent calls keep returning Eof at the same position.
func (l *Lexer) Next() token.Token {
	start := l.pos
	if start >= len(l.input) {
		return token.Token{Kind: token.Eof, Text: l.input[len(l.input):], Range: token.Range{Start: start, End: start}}
	}

	r, size := utf8.DecodeRune(l.input[start:])
	invariant.Invariant(size > 0, "decoded rune must consume at least one byte at offset %d", start)

	switch {
	case r == '\\':
		return l.lexCommand(start)
	case r == '{':
		return l.single(token.LBrace, start, size)
	case r == '}':
		return l.single(token.RBrace, start, size)
	case r == '[':
		return l.single(token.LBracket, start, size)
	case r == ']':
		return l.single(token.RBracket, start, size)
	case r == '%':
		return l.lexComment(start)
	case unicode.IsSpace(r):
		return l.lexWhitespace(start)
	default:
		return l.lexText(start)
	}
}

func (l *Lexer) single(kind token.Kind, start, size int) token.Token {
	l.pos = start + size
	return l.emit(kind, start)
}

// lexCommand consumes a '\' and either a run of ASCII letters, or
// exactly one non-letter rune, matching spec.md §4.1 rule 1.
func (l *Lexer) lexCommand(start int) token.Token {
	pos := start + 1 // consume '\'
	if pos >= len(l.input) {
		l.pos = pos
		return l.emit(token.Command, start)
	}

	r, size := utf8.DecodeRune(l.input[pos:])
	if isASCIILetter(r) {
		pos += size
		for pos < len(l.input) {
			r, size = utf8.DecodeRune(l.input[pos:])
			if !isASCIILetter(r) {
				break
			}
			pos += size
		}
	} else {
		// Exactly one non-letter symbol command: \%, \{, \$, \[, \].
		pos += size
	}
	l.pos = pos
	return l.emit(token.Command, start)
}

func (l *Lexer) lexComment(start int) token.Token {
	pos := start + 1 // consume '%'
	for pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[pos:])
		if r == '\n' || r == '\r' {
			break
		}
		pos += size
	}
	l.pos = pos
	return l.emit(token.Comment, start)
}

func (l *Lexer) lexWhitespace(start int) token.Token {
	pos := start
	for pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[pos:])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	l.pos = pos
	return l.emit(token.Whitespace, start)
}

func (l *Lexer) lexText(start int) token.Token {
	pos := start
	for pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[pos:])
		if isSpecial(r) || unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	l.pos = pos
	return l.emit(token.Text, start)
}

func (l *Lexer) emit(kind token.Kind, start int) token.Token {
	return token.Token{
		Kind:  kind,
		Text:  l.input[start:l.pos],
		Range: token.Range{Start: start, End: l.pos},
	}
}

func isSpecial(r rune) bool {
	switch r {
	case '\\', '{', '}', '[', ']', '%':
		return true
	default:
		return false
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
