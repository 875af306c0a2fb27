// Package emit builds merged output line by line. Every line carries the
// decision that produced it and where it came from.
package emit

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// Line is one output line with its provenance.
type Line struct {
	Content  string              `json:"content"`
	Decision types.MergeDecision `json:"decision"`
	Source   types.Source        `json:"source"`
	// OriginalLine is the 1-based line in the source named by Source, or 0
	// for synthesized lines.
	OriginalLine int `json:"originalLine,omitempty"`
}

// Fragment is an ordered run of output lines produced by one resolution
// pass.
type Fragment struct {
	Lines []Line
}

// Len returns the number of lines.
func (f *Fragment) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Lines)
}

// Empty reports whether the fragment holds no lines.
func (f *Fragment) Empty() bool { return f.Len() == 0 }

// MergeResult is the final output of a merge.
type MergeResult struct {
	lines  []Line
	counts map[types.MergeDecision]int
}

// NewMergeResult returns an empty result.
func NewMergeResult() *MergeResult {
	return &MergeResult{counts: make(map[types.MergeDecision]int)}
}

// ResultOf returns a result holding the lines of f without the blank lines
// that end it.
func ResultOf(f *Fragment) *MergeResult {
	r := NewMergeResult()
	if f == nil {
		return r
	}
	end := len(f.Lines)
	for end > 0 && strings.TrimSpace(f.Lines[end-1].Content) == "" {
		end--
	}
	for _, l := range f.Lines[:end] {
		r.Add(l)
	}
	return r
}

// Add appends one line and updates the counts.
func (r *MergeResult) Add(l Line) {
	r.lines = append(r.lines, l)
	r.counts[l.Decision]++
}

// AddFragment appends every line of f.
func (r *MergeResult) AddFragment(f *Fragment) {
	if f == nil {
		return
	}
	for _, l := range f.Lines {
		r.Add(l)
	}
}

// Lines returns the accumulated lines.
func (r *MergeResult) Lines() []Line { return r.lines }

// Len returns the number of lines.
func (r *MergeResult) Len() int { return len(r.lines) }

// Count returns the number of lines emitted with decision d.
func (r *MergeResult) Count(d types.MergeDecision) int { return r.counts[d] }

// Counts returns a copy of the per-decision line counts.
func (r *MergeResult) Counts() map[types.MergeDecision]int {
	out := make(map[types.MergeDecision]int, len(r.counts))
	for k, v := range r.counts {
		out[k] = v
	}
	return out
}

// LineAt returns the provenance of the 1-based output line n.
func (r *MergeResult) LineAt(n int) (Line, bool) {
	if n < 1 || n > len(r.lines) {
		return Line{}, false
	}
	return r.lines[n-1], true
}

// Text joins the lines with exactly one trailing newline. An empty result
// yields "".
func (r *MergeResult) Text() string {
	if len(r.lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, l := range r.lines {
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
