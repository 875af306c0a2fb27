// Package comments classifies the comments of a YAML source, line by line.
package comments

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

const marker = '#'

// Tracker answers line-indexed questions about comments. Lines are 1-based.
type Tracker struct {
	lines    []string
	comments map[int]types.Comment
}

// NewTracker scans lines (without line terminators) for comments.
func NewTracker(lines []string) *Tracker {
	t := &Tracker{
		lines:    lines,
		comments: make(map[int]types.Comment),
	}
	for i, line := range lines {
		if c, ok := classify(i+1, line); ok {
			t.comments[i+1] = c
		}
	}
	return t
}

// classify finds the comment on a line, if any. A marker only starts a
// comment at the start of the line or after whitespace, and only when the
// quotes before it are balanced.
func classify(lineNo int, line string) (types.Comment, bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, string(marker)) {
		indent := len(line) - len(trimmed)
		return types.Comment{
			Line:     lineNo,
			Indent:   indent,
			Text:     strings.TrimSpace(trimmed[1:]),
			Raw:      strings.TrimRight(trimmed, " \t\r"),
			FullLine: true,
		}, true
	}

	idx := trailingMarker(line)
	if idx < 0 {
		return types.Comment{}, false
	}
	raw := strings.TrimRight(line[idx:], " \t\r")
	return types.Comment{
		Line:   lineNo,
		Indent: idx,
		Text:   strings.TrimSpace(raw[1:]),
		Raw:    raw,
	}, true
}

// trailingMarker returns the index of the marker that starts a trailing
// comment, or -1.
func trailingMarker(line string) int {
	var single, double bool
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			if !double {
				single = !single
			}
		case '"':
			if !single && (i == 0 || line[i-1] != '\\') {
				double = !double
			}
		case marker:
			if single || double {
				continue
			}
			if i > 0 && (line[i-1] == ' ' || line[i-1] == '\t') {
				return i
			}
		}
	}
	return -1
}

// At returns the comment on line.
func (t *Tracker) At(line int) (types.Comment, bool) {
	c, ok := t.comments[line]
	return c, ok
}

// IsFullLine reports whether line holds nothing but a comment.
func (t *Tracker) IsFullLine(line int) bool {
	c, ok := t.comments[line]
	return ok && c.FullLine
}

// Trailing returns the trailing comment on line, if the line has code.
func (t *Tracker) Trailing(line int) (types.Comment, bool) {
	c, ok := t.comments[line]
	if !ok || c.FullLine {
		return types.Comment{}, false
	}
	return c, true
}

// InRange returns the comments on lines start..end inclusive, in order.
func (t *Tracker) InRange(start, end int) []types.Comment {
	if start < 1 {
		start = 1
	}
	if end > len(t.lines) {
		end = len(t.lines)
	}
	var out []types.Comment
	for l := start; l <= end; l++ {
		if c, ok := t.comments[l]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Leading returns the run of full-line comments directly above line, in
// document order. It stops at the first line that is not a full-line
// comment, blank lines included.
func (t *Tracker) Leading(line int) []types.Comment {
	var out []types.Comment
	for l := line - 1; l >= 1; l-- {
		c, ok := t.comments[l]
		if !ok || !c.FullLine {
			break
		}
		out = append(out, c)
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Count returns the number of comments found.
func (t *Tracker) Count() int {
	return len(t.comments)
}
