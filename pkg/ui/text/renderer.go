// Package text provides plain text output without any styling
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/ui/display"
)

// Renderer writes reports as plain text.
type Renderer struct {
	output io.Writer
}

// New creates a new text renderer
func New(output io.Writer) (*Renderer, error) {
	return &Renderer{output: output}, nil
}

// RenderMerge writes a one-line summary, the destination of the output
// and, when present, the per-line provenance.
func (r *Renderer) RenderMerge(rep *display.MergeReport) error {
	if _, err := fmt.Fprintln(r.output, Summary(rep)); err != nil {
		return err
	}
	if rep.Output != "" {
		verb := "wrote"
		if rep.DryRun {
			verb = "would write"
		}
		if _, err := fmt.Fprintf(r.output, "%s %s\n", verb, rep.Output); err != nil {
			return err
		}
	}
	for i, l := range rep.Lines {
		if _, err := fmt.Fprintf(r.output, "%4d %-16s %-11s | %s\n", i+1, l.Decision, l.Source, l.Content); err != nil {
			return err
		}
	}
	return nil
}

// Summary is the one-line description of a merge report, shared by the
// text and terminal renderers.
func Summary(rep *display.MergeReport) string {
	parts := make([]string, 0, len(rep.Counts))
	for _, c := range rep.Counts {
		parts = append(parts, fmt.Sprintf("%s %d", c.Decision, c.Lines))
	}
	state := "unchanged"
	if rep.Changed {
		state = "changed"
	}
	s := fmt.Sprintf("%s: %d lines, %s", rep.Command, rep.Total, state)
	if len(parts) > 0 {
		s += " (" + strings.Join(parts, ", ") + ")"
	}
	return s
}

// RenderDiff writes the diff followed by the changed paths.
func (r *Renderer) RenderDiff(rep *display.DiffReport) error {
	if rep.Empty() {
		_, err := fmt.Fprintln(r.output, "no changes")
		return err
	}
	if _, err := io.WriteString(r.output, rep.Diff); err != nil {
		return err
	}
	if len(rep.Paths) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(r.output, "\nchanged paths:"); err != nil {
		return err
	}
	for _, p := range rep.Paths {
		if _, err := fmt.Fprintf(r.output, "  %s +%d -%d\n", PathLabel(p.Path), p.Added, p.Removed); err != nil {
			return err
		}
	}
	return nil
}

// PathLabel names the document level, which has an empty path.
func PathLabel(path string) string {
	if path == "" {
		return "(document)"
	}
	return path
}

// RenderError renders an error as plain text
func (r *Renderer) RenderError(err error) error {
	_, err2 := fmt.Fprintf(r.output, "Error: %v\n", err)
	return err2
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, msg)
	return err
}
