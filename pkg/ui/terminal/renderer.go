// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/ui/display"
	"github.com/arthur-debert/yamlmerge/pkg/ui/styles"
	"github.com/arthur-debert/yamlmerge/pkg/ui/text"
)

// Renderer writes reports with lipgloss styles.
type Renderer struct {
	output io.Writer
}

// New creates a new terminal renderer
func New(w io.Writer) (*Renderer, error) {
	return &Renderer{output: w}, nil
}

// RenderMerge writes the summary with each decision in its own style, and
// the explained lines when present.
func (r *Renderer) RenderMerge(rep *display.MergeReport) error {
	var b strings.Builder
	state := "unchanged"
	if rep.Changed {
		state = "changed"
	}
	b.WriteString(styles.Render("Header", rep.Command))
	fmt.Fprintf(&b, " %d lines, %s", rep.Total, state)
	if len(rep.Counts) > 0 {
		parts := make([]string, 0, len(rep.Counts))
		for _, c := range rep.Counts {
			name := c.Decision.String()
			parts = append(parts, styles.Render(name, fmt.Sprintf("%s %d", name, c.Lines)))
		}
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}
	b.WriteByte('\n')

	if rep.Output != "" {
		verb := "wrote"
		if rep.DryRun {
			verb = "would write"
		}
		fmt.Fprintf(&b, "%s %s\n", styles.Render("Label", verb), styles.Render("Path", rep.Output))
	}

	for i, l := range rep.Lines {
		name := l.Decision.String()
		b.WriteString(styles.Render("LineNumber", fmt.Sprint(i+1)))
		b.WriteString(styles.Render(name, fmt.Sprintf("%-16s", name)))
		b.WriteString(styles.Render("Label", " │ "))
		b.WriteString(l.Content)
		b.WriteByte('\n')
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderDiff colors the diff by line kind and lists the changed paths.
func (r *Renderer) RenderDiff(rep *display.DiffReport) error {
	if rep.Empty() {
		_, err := fmt.Fprintln(r.output, styles.Render("Message", "no changes"))
		return err
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(rep.Diff, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(styles.Render("DiffHeader", body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(styles.Render("DiffHunk", body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(styles.Render("DiffAdded", body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(styles.Render("DiffRemoved", body))
		default:
			b.WriteString(body)
		}
		b.WriteByte('\n')
	}

	if len(rep.Paths) > 0 {
		b.WriteString("\n" + styles.Render("Header", "changed paths") + "\n")
		for _, p := range rep.Paths {
			fmt.Fprintf(&b, "  %s %s %s\n",
				styles.Render("Path", text.PathLabel(p.Path)),
				styles.Render("DiffAdded", fmt.Sprintf("+%d", p.Added)),
				styles.Render("DiffRemoved", fmt.Sprintf("-%d", p.Removed)))
		}
	}

	_, err := io.WriteString(r.output, b.String())
	return err
}

// RenderError renders an error with appropriate formatting
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.output, "%s %v\n", styles.Render("Error", "Error:"), err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.output, styles.Render("Message", msg))
	return err
}
