// Package display holds the data the renderers present: merge reports and
// diff reports.
package display

import (
	"time"

	"github.com/arthur-debert/yamlmerge/pkg/diffmap"
	"github.com/arthur-debert/yamlmerge/pkg/emit"
	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// MergeReport summarises one merge, set or replace run.
type MergeReport struct {
	Command     string `json:"command"` // "merge", "set", "replace"
	Template    string `json:"template,omitempty"`
	Destination string `json:"destination,omitempty"`
	// Output is the file written, empty when the result went to stdout.
	Output  string          `json:"output,omitempty"`
	DryRun  bool            `json:"dryRun"`
	Changed bool            `json:"changed"`
	Total   int             `json:"total"`
	Counts  []DecisionCount `json:"counts"`
	// Lines carries per-line provenance when the caller asked to explain
	// the result.
	Lines     []emit.Line `json:"lines,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// DecisionCount is the number of output lines a decision produced.
type DecisionCount struct {
	Decision types.MergeDecision `json:"decision"`
	Lines    int                 `json:"lines"`
}

// NewMergeReport builds a report from a result. Counts follow
// types.AllDecisions and skip decisions with no lines.
func NewMergeReport(command string, res *emit.MergeResult, changed bool) *MergeReport {
	r := &MergeReport{
		Command:   command,
		Changed:   changed,
		Total:     res.Len(),
		Timestamp: time.Now(),
	}
	for _, d := range types.AllDecisions {
		if n := res.Count(d); n > 0 {
			r.Counts = append(r.Counts, DecisionCount{Decision: d, Lines: n})
		}
	}
	return r
}

// WithLines attaches the per-line provenance.
func (r *MergeReport) WithLines(res *emit.MergeResult) *MergeReport {
	r.Lines = append([]emit.Line(nil), res.Lines()...)
	return r
}

// DiffReport is a unified diff with its changes attributed to key paths.
type DiffReport struct {
	From    string               `json:"from"`
	To      string               `json:"to"`
	Diff    string               `json:"diff"`
	Paths   []diffmap.PathChange `json:"paths"`
	Changes []diffmap.Change     `json:"changes,omitempty"`
}

// Empty reports whether the two sides were identical.
func (r *DiffReport) Empty() bool { return r.Diff == "" }
