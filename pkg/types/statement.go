package types

import "strings"

// StatementKind enumerates the closed set of statement shapes.
type StatementKind int

const (
	KindMappingEntry StatementKind = iota
	KindFreezeBlock
	KindWholeDocument
)

func (k StatementKind) String() string {
	switch k {
	case KindMappingEntry:
		return "mapping_entry"
	case KindFreezeBlock:
		return "freeze_block"
	case KindWholeDocument:
		return "whole_document"
	default:
		return "unknown"
	}
}

// Statement is a mergeable unit. The set of implementations is closed:
// *MappingEntry, *FreezeBlock and *WholeDocument.
type Statement interface {
	// Body is the statement's own line range.
	Body() Location
	// LeadStart is the first line of the leading region: the comments and
	// blank lines directly above the body that travel with it. It equals
	// Body().Start when there is no leading region.
	LeadStart() int
	Kind() StatementKind

	statement()
}

// Span returns the body extended upward by the leading region.
func Span(s Statement) Location {
	return Location{Start: s.LeadStart(), End: s.Body().End}
}

// MappingEntry is one key/value pair of a block mapping.
type MappingEntry struct {
	Key   *NodeWrapper
	Value *NodeWrapper
	Loc   Location
	Lead  int
	Path  []string // key names from the document root, inclusive
}

func (e *MappingEntry) Body() Location      { return e.Loc }
func (e *MappingEntry) LeadStart() int      { return e.Lead }
func (e *MappingEntry) Kind() StatementKind { return KindMappingEntry }
func (e *MappingEntry) statement()          {}

// Name returns the entry's key.
func (e *MappingEntry) Name() string {
	if e.Key == nil || e.Key.Node == nil {
		return ""
	}
	return e.Key.Node.Value
}

// KeyLine returns the line holding the key.
func (e *MappingEntry) KeyLine() int {
	return e.Loc.Start
}

// KeyColumn returns the 0-based column of the key.
func (e *MappingEntry) KeyColumn() int {
	if e.Key == nil || e.Key.Node == nil || e.Key.Node.Column == 0 {
		return 0
	}
	return e.Key.Node.Column - 1
}

// PathString joins the entry path with dots.
func (e *MappingEntry) PathString() string {
	return strings.Join(e.Path, ".")
}

// WholeDocument wraps a document whose root is not a mapping.
type WholeDocument struct {
	Root *NodeWrapper
	Loc  Location
	Lead int
}

func (d *WholeDocument) Body() Location      { return d.Loc }
func (d *WholeDocument) LeadStart() int      { return d.Lead }
func (d *WholeDocument) Kind() StatementKind { return KindWholeDocument }
func (d *WholeDocument) statement()          {}
