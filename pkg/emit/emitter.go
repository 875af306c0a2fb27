package emit

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// DefaultIndentWidth is the number of spaces per nesting level in
// synthesized output.
const DefaultIndentWidth = 2

// BlockStyle selects how BlockScalar writes a multi-line value.
type BlockStyle int

const (
	Literal BlockStyle = iota // |
	Folded                    // >
)

// Emitter is a line buffer. Synthesized lines follow the current
// indentation; copied lines keep their own text, optionally shifted.
// Every line is tagged with the emitter's current decision and source.
type Emitter struct {
	lines    []Line
	indent   int
	width    int
	decision types.MergeDecision
	source   types.Source
}

// NewEmitter returns an emitter at column 0 tagging lines as synthesized
// additions.
func NewEmitter() *Emitter {
	return &Emitter{
		width:    DefaultIndentWidth,
		decision: types.Added,
		source:   types.Synthesized,
	}
}

// SetIndentWidth changes the width of one nesting level.
func (e *Emitter) SetIndentWidth(n int) *Emitter {
	if n > 0 {
		e.width = n
	}
	return e
}

// SetIndent sets the absolute indentation in spaces.
func (e *Emitter) SetIndent(n int) *Emitter {
	e.indent = max(n, 0)
	return e
}

// IndentLevel returns the current indentation in spaces.
func (e *Emitter) IndentLevel() int { return e.indent }

// Tag sets the decision and source recorded on following lines.
func (e *Emitter) Tag(d types.MergeDecision, s types.Source) *Emitter {
	e.decision = d
	e.source = s
	return e
}

// Indent moves one level deeper.
func (e *Emitter) Indent() { e.indent += e.width }

// Dedent moves one level out, never past column 0.
func (e *Emitter) Dedent() { e.indent = max(e.indent-e.width, 0) }

func (e *Emitter) push(content string, original int) {
	e.lines = append(e.lines, Line{
		Content:      content,
		Decision:     e.decision,
		Source:       e.source,
		OriginalLine: original,
	})
}

func (e *Emitter) synth(content string) {
	e.push(strings.Repeat(" ", e.indent)+content, 0)
}

// KeyValue writes "key: value", quoting both as needed.
func (e *Emitter) KeyValue(key, value string) {
	e.synth(Quote(key) + ": " + Quote(value))
}

// Key writes "key:" and indents for the nested content.
func (e *Emitter) Key(key string) {
	e.synth(Quote(key) + ":")
	e.Indent()
}

// Item writes a sequence item "- value".
func (e *Emitter) Item(value string) {
	e.synth("- " + Quote(value))
}

// Comment writes a full-line comment.
func (e *Emitter) Comment(text string) {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "#"))
	if text == "" {
		e.synth("#")
		return
	}
	e.synth("# " + text)
}

// BlockScalar writes key followed by value as a literal or folded block.
// The chomping indicator is derived from the value's trailing newlines.
func (e *Emitter) BlockScalar(key, value string, style BlockStyle) {
	indicator := "|"
	if style == Folded {
		indicator = ">"
	}
	body := strings.TrimRight(value, "\n")
	switch trailing := len(value) - len(body); {
	case trailing == 0:
		indicator += "-"
	case trailing > 1:
		indicator += "+"
	}
	e.synth(Quote(key) + ": " + indicator)

	e.Indent()
	defer e.Dedent()
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if style == Folded && i > 0 {
			// A single line break folds into a space; keep it with an
			// empty line.
			e.push("", 0)
		}
		if l == "" {
			if style == Literal {
				e.push("", 0)
			}
			continue
		}
		e.synth(l)
	}
	for i := 1; i < len(value)-len(body); i++ {
		e.push("", 0)
	}
}

// Annotate appends an end-of-line comment to the last line written.
func (e *Emitter) Annotate(comment string) {
	if len(e.lines) == 0 || comment == "" {
		return
	}
	if !strings.HasPrefix(comment, "#") {
		comment = "# " + comment
	}
	e.lines[len(e.lines)-1].Content += " " + comment
}

// Raw copies one source line verbatim.
func (e *Emitter) Raw(content string, original int) {
	e.push(content, original)
}

// Reindent copies one source line shifted by delta columns. With a zero
// delta the line is copied untouched. Otherwise blank lines become empty
// and a negative delta removes at most the line's leading spaces.
func (e *Emitter) Reindent(content string, original, delta int) {
	switch {
	case delta == 0:
		e.push(content, original)
	case strings.TrimSpace(content) == "":
		e.push("", original)
	case delta > 0:
		e.push(strings.Repeat(" ", delta)+content, original)
	case delta < 0:
		lead := len(content) - len(strings.TrimLeft(content, " "))
		e.push(content[min(lead, -delta):], original)
	}
}

// Append adds the lines of a fragment produced elsewhere.
func (e *Emitter) Append(f *Fragment) {
	if f == nil {
		return
	}
	e.lines = append(e.lines, f.Lines...)
}

// Len returns the number of lines written so far.
func (e *Emitter) Len() int { return len(e.lines) }

// Fragment returns the written lines.
func (e *Emitter) Fragment() *Fragment {
	return &Fragment{Lines: append([]Line(nil), e.lines...)}
}
