// Package ui renders command results as rich terminal output, plain text
// or JSON.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/yamlmerge/pkg/ui/display"
	"github.com/arthur-debert/yamlmerge/pkg/ui/json"
	"github.com/arthur-debert/yamlmerge/pkg/ui/terminal"
	"github.com/arthur-debert/yamlmerge/pkg/ui/text"
)

// Renderer is implemented by every output format.
type Renderer interface {
	// RenderMerge reports the outcome of a merge, set or replace.
	RenderMerge(report *display.MergeReport) error

	// RenderDiff shows a diff and the key paths it touches.
	RenderDiff(report *display.DiffReport) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return terminal.New(output)
	case FormatText:
		return text.New(output)
	case FormatJSON:
		return json.New(output)
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}
}
