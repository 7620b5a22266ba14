// Package mathcheck implements the semantic math checks spec.md §4.5
// calls for: \left/\right and bracket-pair balance, and matrix shape
// inference over the CST. The delimiter check scans raw document
// text; the matrix check walks an already-parsed CST.
package mathcheck

import "strconv"

// DelimiterError is a single balance violation, with the byte offset
// in the source it was detected at.
type DelimiterError struct {
	Message string
	Offset  int
}

// CheckDelimiters scans the whole document text for \left/\right and
// paren/bracket/brace balance. This is a whole-text scan rather than a
// CST-node-local one: per spec.md's open question on the matter, byte
// offsets reported here are always relative to the full document
// buffer, consistent with the editor's own line index.
func CheckDelimiters(text string) []DelimiterError {
	var errors []DelimiterError

	leftCount, rightCount := 0, 0
	leftsBefore, rightsBefore := 0, 0
	for i := 0; i < len(text); i++ {
		switch {
		case hasPrefixAt(text, i, `\left`):
			leftCount++
			leftsBefore++
		case hasPrefixAt(text, i, `\right`):
			rightCount++
			if rightsBefore >= leftsBefore {
				errors = append(errors, DelimiterError{
					Message: "Unmatched \\right without corresponding \\left",
					Offset:  i,
				})
			}
			rightsBefore++
		}
	}

	if leftCount > rightCount {
		errors = append(errors, DelimiterError{
			Message: formatUnmatchedLeft(leftCount - rightCount),
			Offset:  0,
		})
	}

	errors = append(errors, checkBracketBalance(text)...)
	return errors
}

type openBracket struct {
	char   byte
	offset int
}

func checkBracketBalance(text string) []DelimiterError {
	var errors []DelimiterError
	var stack []openBracket

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(', '[', '{':
			stack = append(stack, openBracket{text[i], i})
		case ')':
			if n := len(stack); n > 0 {
				top := stack[n-1]
				stack = stack[:n-1]
				if top.char != '(' {
					errors = append(errors, mismatched(top.char, ')', i))
				}
			}
		case ']':
			if n := len(stack); n > 0 {
				top := stack[n-1]
				stack = stack[:n-1]
				if top.char != '[' {
					errors = append(errors, mismatched(top.char, ']', i))
				}
			}
		case '}':
			if n := len(stack); n > 0 {
				top := stack[n-1]
				stack = stack[:n-1]
				if top.char != '{' {
					errors = append(errors, mismatched(top.char, '}', i))
				}
			}
		}
	}

	for _, open := range stack {
		errors = append(errors, DelimiterError{
			Message: "Unclosed delimiter '" + string(open.char) + "'",
			Offset:  open.offset,
		})
	}
	return errors
}

func mismatched(open, close byte, offset int) DelimiterError {
	return DelimiterError{
		Message: "Mismatched delimiter: expected closing for '" + string(open) + "', found '" + string(close) + "'",
		Offset:  offset,
	}
}

func hasPrefixAt(s string, i int, prefix string) bool {
	if i+len(prefix) > len(s) {
		return false
	}
	return s[i:i+len(prefix)] == prefix
}

func formatUnmatchedLeft(n int) string {
	return strconv.Itoa(n) + " unmatched \\left delimiter(s)"
}
