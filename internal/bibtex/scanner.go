// Package bibtex implements spec.md §4.12's best-effort key scan over
// .bib source: entry type and citation key only, good enough to drive
// completion and citation-key validation without a full BibTeX
// grammar. The cursor style (rune-at-a-time, explicit offset/rdOffset)
// follows jschaf-bibtex's scanner package.
package bibtex

import "unicode/utf8"

const eof = -1

// Entry is one successfully scanned @type{key, ...} record. Fields
// are not retained: this pass exists for key completion, not
// bibliography rendering.
type Entry struct {
	Type   string // lowercased, e.g. "article"
	Key    string
	Offset int // byte offset of the '@'
}

type scanner struct {
	src      []byte
	offset   int
	rdOffset int
	ch       rune
}

// Scan extracts every well-formed entry from src. Entries whose brace
// nesting never closes are dropped rather than reported as errors,
// matching spec.md's "entries with unclosed braces are dropped".
func Scan(src []byte) []Entry {
	s := &scanner{src: src}
	s.next()

	var entries []Entry
	for s.ch != eof {
		if s.ch == '@' {
			if e, ok := s.scanEntry(); ok {
				entries = append(entries, e)
			}
		} else {
			s.next()
		}
	}
	return entries
}

func (s *scanner) next() {
	if s.rdOffset >= len(s.src) {
		s.offset = len(s.src)
		s.ch = eof
		return
	}
	s.offset = s.rdOffset
	r, w := utf8.DecodeRune(s.src[s.rdOffset:])
	s.rdOffset += w
	s.ch = r
}

func (s *scanner) scanEntry() (Entry, bool) {
	at := s.offset
	s.next() // consume '@'

	typeStart := s.offset
	for s.ch != eof && s.ch != '{' && !isSpace(s.ch) {
		s.next()
	}
	entryType := lower(string(s.src[typeStart:s.offset]))

	s.skipSpace()
	if s.ch != '{' {
		return Entry{}, false
	}
	s.next() // consume '{'

	s.skipSpace()
	keyStart := s.offset
	for s.ch != eof && s.ch != ',' && s.ch != '}' && !isSpace(s.ch) {
		s.next()
	}
	key := string(s.src[keyStart:s.offset])

	if !s.skipToEntryClose() {
		return Entry{}, false
	}

	return Entry{Type: entryType, Key: key, Offset: at}, true
}

// skipToEntryClose consumes bytes tracking brace depth (starting at 1,
// for the entry's own opening brace) until it returns to zero. Returns
// false if EOF is reached first (unclosed entry).
func (s *scanner) skipToEntryClose() bool {
	depth := 1
	for s.ch != eof {
		switch s.ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				s.next()
				return true
			}
		}
		s.next()
	}
	return false
}

func (s *scanner) skipSpace() {
	for isSpace(s.ch) {
		s.next()
	}
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
