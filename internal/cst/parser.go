package cst

import (
	"github.com/jxoesneon/ferrotex/internal/invariant"
	"github.com/jxoesneon/ferrotex/internal/lexer"
	"github.com/jxoesneon/ferrotex/internal/token"
)

// eventKind mirrors the teacher's runtime/parser Event/EventKind shape:
// a flat log of Open/Close/Token events recorded during a single
// recursive-descent pass, later materialized into a concrete tree.
type eventKind uint8

const (
	evOpen eventKind = iota
	evClose
	evToken
)

type event struct {
	kind     eventKind
	nodeKind Kind  // valid for evOpen
	tokenIdx int   // valid for evToken
}

type parser struct {
	toks   []token.Token
	pos    int
	events []event
	errors []SyntaxError
}

// Parse lexes and parses src into a lossless Tree. Parsing never fails
// outright: malformed input is recorded as SyntaxErrors attached to
// the tree, and the concatenation of all leaf texts always reproduces
// src exactly.
func Parse(src []byte) *Tree {
	toks := lexer.Tokens(src)
	p := &parser{
		toks:   toks,
		events: make([]event, 0, len(toks)*2),
		errors: make([]SyntaxError, 0, 4),
	}
	p.open(KindRoot)
	for p.peek().Kind != token.Eof {
		p.element()
	}
	p.close()

	return build(src, toks, p.events, p.errors)
}

func (p *parser) peek() token.Token {
	invariant.Invariant(p.pos <= len(p.toks), "parser position %d out of range (%d tokens)", p.pos, len(p.toks))
	return p.toks[p.pos]
}

func (p *parser) peekText() string {
	return string(p.peek().Text)
}

func (p *parser) open(kind Kind) {
	p.events = append(p.events, event{kind: evOpen, nodeKind: kind})
}

func (p *parser) close() {
	p.events = append(p.events, event{kind: evClose})
}

// bump consumes the current token as a Token event (a leaf child of
// whatever node is currently open), advancing the cursor.
func (p *parser) bump() {
	invariant.Invariant(p.peek().Kind != token.Eof, "must not bump past Eof")
	p.events = append(p.events, event{kind: evToken, tokenIdx: p.pos})
	p.pos++
}

func (p *parser) errorAt(message string, at token.Range) {
	p.errors = append(p.errors, SyntaxError{Message: message, Range: at})
}

// element parses a single top-level/group-level construct, attaching
// any token it doesn't specifically recognize as plain trivia.
func (p *parser) element() {
	switch p.peek().Kind {
	case token.Command:
		p.commandOrEnvironment()
	case token.LBrace:
		p.group()
	case token.RBrace:
		at := p.peek().Range
		p.errorAt("Unmatched '}'", at)
		p.open(KindError)
		p.bump()
		p.close()
	default:
		p.bump()
	}
}

func (p *parser) group() {
	p.open(KindGroup)
	p.bump() // '{'
	for p.peek().Kind != token.Eof && p.peek().Kind != token.RBrace {
		p.element()
	}
	if p.peek().Kind == token.RBrace {
		p.bump()
	} else {
		p.errorAt("Expected '}'", token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
	}
	p.close()
}

// optionalBracketGroup consumes a '[...]' argument if present,
// recording an error if it is opened but never closed. Returns true if
// a bracket group was consumed.
func (p *parser) optionalBracketGroup() bool {
	if p.peek().Kind != token.LBracket {
		return false
	}
	p.bump()
	for p.peek().Kind != token.Eof && p.peek().Kind != token.RBracket {
		if p.peek().Kind == token.RBrace {
			// Don't let an optional-arg scan swallow an unrelated '}'.
			break
		}
		p.bump()
	}
	if p.peek().Kind == token.RBracket {
		p.bump()
	} else {
		p.errorAt("Expected ']'", token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
	}
	return true
}

var requireGroupCommands = map[string]Kind{
	`\section`:        KindSection,
	`\subsection`:     KindSection,
	`\subsubsection`:  KindSection,
	`\chapter`:        KindSection,
	`\part`:           KindSection,
	`\paragraph`:      KindSection,
	`\input`:          KindInclude,
	`\include`:        KindInclude,
	`\label`:          KindLabelDefinition,
	`\ref`:            KindLabelReference,
	`\eqref`:          KindLabelReference,
	`\pageref`:        KindLabelReference,
	`\cite`:           KindCitation,
	`\citep`:          KindCitation,
	`\citet`:          KindCitation,
	`\citeauthor`:     KindCitation,
	`\bibliography`:   KindBibliography,
	`\addbibresource`: KindBibliography,
}

func (p *parser) commandOrEnvironment() {
	text := p.peekText()
	if text == `\begin` {
		p.environment()
		return
	}
	if kind, ok := requireGroupCommands[text]; ok {
		p.simpleArgCommand(kind, text)
		return
	}
	p.bump()
}

// simpleArgCommand handles the common shape: command, optional
// '[...]' argument, then a required '{...}' group, per spec.md §4.2's
// "Section/Include/Label/Ref/Cite/Bibliography/Addbibresource analog".
func (p *parser) simpleArgCommand(kind Kind, cmdText string) {
	p.open(kind)
	p.bump() // the command itself
	p.optionalBracketGroup()
	if p.peek().Kind == token.LBrace {
		p.group()
	} else {
		p.errorAt("Expected '{' after "+cmdText, token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
	}
	p.close()
}

func (p *parser) environment() {
	p.open(KindEnvironment)
	p.bump() // \begin
	if p.peek().Kind == token.LBrace {
		p.group()
	} else {
		p.errorAt(`Expected '{' after \begin`, token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
	}

	for {
		switch p.peek().Kind {
		case token.Eof:
			p.errorAt("Unclosed environment", token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
			p.close()
			return
		case token.Command:
			switch p.peekText() {
			case `\end`:
				p.bump()
				if p.peek().Kind == token.LBrace {
					p.group()
				} else {
					p.errorAt(`Expected '{' after \end`, token.Range{Start: p.peek().Range.Start, End: p.peek().Range.Start})
				}
				p.close()
				return
			case `\begin`:
				p.environment()
			default:
				if kind, ok := requireGroupCommands[p.peekText()]; ok {
					p.simpleArgCommand(kind, p.peekText())
				} else {
					p.bump()
				}
			}
		case token.RBrace:
			p.errorAt("Unmatched '}' inside environment", p.peek().Range)
			p.open(KindError)
			p.bump()
			p.close()
		default:
			p.element()
		}
	}
}
