package logevents

import (
	"bytes"
	"strconv"
	"strings"
)

// sentinels are line prefixes that mark the start of a new recognized
// event; a path run stops joining across a line break when the next
// line starts with one of these (spec.md §4.3's "guarded joining").
var sentinels = []string{
	"LaTeX Warning:", "Package ", "!", "(", ")", "Overfull", "Underfull", "l.",
}

func startsWithSentinel(line string) bool {
	for _, s := range sentinels {
		if strings.HasPrefix(line, s) {
			return true
		}
	}
	return false
}

// Parser extracts structured Events from LaTeX engine log text. It
// supports both one-shot batch parsing and incremental streaming:
// bytes are appended with Update, and Finish flushes whatever tail
// remains.
//
// Batch parsing is implemented in terms of the incremental API
// (Update followed immediately by Finish), so the two modes share one
// code path and cannot drift apart — this is what makes property 3 in
// spec.md §8 (batch == concatenated incremental) hold by construction.
type Parser struct {
	acc        []byte   // bytes appended since the last complete line
	absOffset  int      // absolute byte offset where acc begins
	lines      []string // complete, buffered lines not yet committed
	lineStarts []int    // absolute byte offset of each buffered line's start
	committed  int      // number of buffered lines already processed
	resumeLine int      // line index to resume mid-line parsing on, or -1
	resumeChar int      // char offset within resumeLine to resume at
	fileStack  []string
	pending    pendingContext
	finished   bool
}

// pendingContext tracks whether the line right after an ErrorStart or
// ErrorLineRef should be tried as an ErrorContextLine.
type pendingContext struct {
	active bool
}

// New creates a Parser ready to receive Update calls.
func New() *Parser {
	return &Parser{resumeLine: -1}
}

// Parse runs a complete batch parse of text and returns every event.
func Parse(text []byte) []Event {
	p := New()
	events := p.Update(text)
	events = append(events, p.Finish()...)
	return events
}

// Update appends chunk to the internal buffer and returns any events
// that can now be emitted with certainty (i.e. whose outcome cannot
// change as more bytes arrive).
func (p *Parser) Update(chunk []byte) []Event {
	if p.finished {
		return nil
	}
	p.acc = append(p.acc, chunk...)
	for {
		idx := bytes.IndexByte(p.acc, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimSuffix(string(p.acc[:idx]), "\r")
		p.lines = append(p.lines, line)
		p.lineStarts = append(p.lineStarts, p.absOffset)
		p.absOffset += idx + 1
		p.acc = p.acc[idx+1:]
	}
	return p.process(false)
}

// Finish flushes any remaining tail by treating it as a final,
// sentinel-terminated line, and returns the remaining events.
func (p *Parser) Finish() []Event {
	if p.finished {
		return nil
	}
	if len(p.acc) > 0 {
		line := strings.TrimSuffix(string(p.acc), "\r")
		p.lines = append(p.lines, line)
		p.lineStarts = append(p.lineStarts, p.absOffset)
		p.absOffset += len(p.acc)
		p.acc = nil
	}
	events := p.process(true)
	p.finished = true
	return events
}

// process advances p.committed as far as the currently buffered lines
// allow, emitting events. When atEOF is false, a multi-line path
// extraction that runs off the end of the buffered lines is rolled
// back (not committed) so it can be retried once more lines arrive.
func (p *Parser) process(atEOF bool) []Event {
	var events []Event

	for p.committed < len(p.lines) {
		lineIdx := p.committed
		line := p.lines[lineIdx]
		lineStart := p.lineStarts[lineIdx]

		charIdx := 0
		resuming := p.resumeLine == lineIdx
		if resuming {
			charIdx = p.resumeChar
			p.resumeLine = -1
		} else if p.pending.active {
			p.pending.active = false
			if line != "" && !startsWithSentinel(line) {
				events = append(events, errorContextLine(Span{lineStart, lineStart + len(line)}, strings.TrimSpace(line)))
				p.committed++
				continue
			}
			// Sentinel or empty line: fall through to normal processing
			// of this same line below.
		}

		for charIdx < len(line) {
			c := line[charIdx]
			spanStart := lineStart + charIdx

			switch {
			case c == '(':
				path, endLineIdx, endCharIdx, ok := p.extractPathSpanning(lineIdx, charIdx+1, atEOF)
				if !ok {
					// Not enough buffered lines to resolve the wrap; stop
					// here and retry on the next Update/Finish call,
					// resuming at this same '(' so nothing already
					// emitted on this line is re-emitted.
					p.resumeLine = lineIdx
					p.resumeChar = charIdx
					return events
				}
				var spanEnd int
				if endLineIdx < len(p.lineStarts) {
					spanEnd = p.lineStarts[endLineIdx] + endCharIdx
				} else {
					spanEnd = p.absOffset
				}
				p.fileStack = append(p.fileStack, path)
				events = append(events, fileEnter(Span{spanStart, spanEnd}, path))
				if endLineIdx != lineIdx {
					p.committed = endLineIdx
					lineIdx = endLineIdx
					line = p.lines[lineIdx]
					lineStart = p.lineStarts[lineIdx]
				}
				charIdx = endCharIdx
				continue
			case c == ')':
				if n := len(p.fileStack); n > 0 {
					p.fileStack = p.fileStack[:n-1]
					events = append(events, fileExit(Span{spanStart, spanStart + 1}))
				} else {
					events = append(events, unmatchedClose(Span{spanStart, spanStart + 1}))
				}
				charIdx++
			case c == '!' && charIdx == 0:
				msg := strings.TrimSpace(line[charIdx+1:])
				events = append(events, errorStart(Span{spanStart, lineStart + len(line)}, msg))
				p.pending.active = true
				charIdx = len(line)
			default:
				if ev, ok := matchWarningOrRef(line[charIdx:], spanStart, lineStart+len(line)); ok {
					events = append(events, ev)
					p.pending.active = ev.Kind == KindErrorLineRef
					charIdx = len(line)
				} else {
					charIdx++
				}
			}
		}
		p.committed = lineIdx + 1
	}
	return events
}

// extractPathSpanning mirrors the original ferrotex-log path-wrap
// algorithm: read a path run up to ')' or whitespace, joining
// subsequent lines when the next one is not a recognized sentinel.
// ok is false when more buffered lines are needed than are currently
// available and atEOF is false (the caller should suspend and retry).
func (p *Parser) extractPathSpanning(startLine, startChar int, atEOF bool) (path string, endLine, endChar int, ok bool) {
	lineIdx := startLine
	charIdx := startChar

	for {
		if lineIdx >= len(p.lines) {
			return "", 0, 0, false
		}
		line := p.lines[lineIdx]
		remainder := line[min(charIdx, len(line)):]

		if end := indexPathEnd(remainder); end >= 0 {
			path += remainder[:end]
			return path, lineIdx, charIdx + end, true
		}

		nextIdx := lineIdx + 1
		if nextIdx >= len(p.lines) {
			if !atEOF {
				return "", 0, 0, false
			}
			path += remainder
			return path, lineIdx, len(line), true
		}

		if startsWithSentinel(p.lines[nextIdx]) {
			path += remainder
			return path, lineIdx, len(line), true
		}

		path += remainder
		lineIdx = nextIdx
		charIdx = 0
	}
}

func indexPathEnd(s string) int {
	for i, r := range s {
		if r == ')' || r == ' ' || r == '\t' || r == '\v' || r == '\f' {
			return i
		}
	}
	return -1
}

func matchWarningOrRef(text string, spanStart, spanEnd int) (Event, bool) {
	if strings.HasPrefix(text, "LaTeX Warning:") || strings.HasPrefix(text, "Package ") {
		if strings.Contains(text, "Warning:") {
			return warning(Span{spanStart, spanEnd}, strings.TrimSpace(text)), true
		}
	}
	if strings.HasPrefix(text, "Overfull \\hbox") || strings.HasPrefix(text, "Underfull \\hbox") {
		return warning(Span{spanStart, spanEnd}, strings.TrimSpace(text)), true
	}
	if strings.HasPrefix(text, "l.") {
		rest := text[2:]
		digits := leadingDigits(rest)
		if digits != "" {
			n, err := strconv.ParseUint(digits, 10, 32)
			if err == nil {
				excerpt := ""
				if len(digits) < len(rest) {
					excerpt = strings.TrimSpace(rest[len(digits):])
				}
				return errorLineRef(Span{spanStart, spanEnd}, uint32(n), excerpt), true
			}
		}
	}
	return Event{}, false
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
