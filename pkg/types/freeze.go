package types

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
)

// FreezeBlock is a destination region delimited by freeze marker comments.
// It is always emitted verbatim and never matched against the template.
type FreezeBlock struct {
	loc   Location
	lines []string
	lead  int
}

// NewFreezeBlock validates the range and copies lines. It fails with a
// STRUCTURAL error when end < start or when every line is blank.
func NewFreezeBlock(loc Location, lines []string) (*FreezeBlock, error) {
	if loc.Start < 1 || loc.End < loc.Start {
		return nil, errors.NewStructuralError(loc.Start, loc.End, "freeze block end precedes start")
	}
	nonEmpty := false
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = true
			break
		}
	}
	if !nonEmpty {
		return nil, errors.NewStructuralError(loc.Start, loc.End, "freeze block has no content")
	}
	return &FreezeBlock{
		loc:   loc,
		lines: append([]string(nil), lines...),
		lead:  loc.Start,
	}, nil
}

// WithLead returns a copy whose leading region starts at line.
func (f *FreezeBlock) WithLead(line int) *FreezeBlock {
	cp := *f
	if line < 1 || line > f.loc.Start {
		line = f.loc.Start
	}
	cp.lead = line
	return &cp
}

func (f *FreezeBlock) Body() Location      { return f.loc }
func (f *FreezeBlock) LeadStart() int      { return f.lead }
func (f *FreezeBlock) Kind() StatementKind { return KindFreezeBlock }
func (f *FreezeBlock) statement()          {}

// Lines returns a copy of the raw lines, markers included.
func (f *FreezeBlock) Lines() []string {
	return append([]string(nil), f.lines...)
}

// NormalizedContent joins the lines with surrounding whitespace stripped and
// blank lines dropped.
func (f *FreezeBlock) NormalizedContent() string {
	out := make([]string, 0, len(f.lines))
	for _, l := range f.lines {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, "\n")
}
