package analysis

import (
	"fmt"

	"github.com/arthur-debert/yamlmerge/pkg/types"
	"gopkg.in/yaml.v3"
)

// Lookup walks nested block mappings by key name and returns the entry at
// path.
func (a *Analysis) Lookup(path []string) (*types.MappingEntry, bool) {
	if len(path) == 0 {
		return nil, false
	}
	stmts := a.statements
	var found *types.MappingEntry
	for depth, key := range path {
		found = nil
		for _, s := range stmts {
			if e, ok := s.(*types.MappingEntry); ok && e.Name() == key {
				found = e
				break
			}
		}
		if found == nil {
			return nil, false
		}
		if depth < len(path)-1 {
			stmts, _ = a.Nested(found)
		}
	}
	return found, true
}

// StatementsInRange returns the top-level statements whose span overlaps
// start..end.
func (a *Analysis) StatementsInRange(start, end int) []types.Statement {
	want := types.Location{Start: start, End: end}
	var out []types.Statement
	for _, s := range a.statements {
		if types.Span(s).Overlaps(want) {
			out = append(out, s)
		}
	}
	return out
}

// PathAt returns the key path of the innermost statement that owns line.
// Sequence items appear as "[i]" segments. A line in a statement's leading
// region belongs to that statement. Lines outside every statement return
// nil.
func (a *Analysis) PathAt(line int) []string {
	return a.pathIn(a.statements, nil, line)
}

func (a *Analysis) pathIn(stmts []types.Statement, base []string, line int) []string {
	for _, s := range stmts {
		if !types.Span(s).Contains(line) {
			continue
		}
		switch st := s.(type) {
		case *types.MappingEntry:
			if line > st.KeyLine() {
				if inner := a.pathInValue(st, line); inner != nil {
					return inner
				}
			}
			return append([]string(nil), st.Path...)
		case *types.WholeDocument:
			if inner := a.pathInItems(st, nil, line); inner != nil {
				return inner
			}
			return []string{}
		case *types.FreezeBlock:
			return append([]string{}, base...)
		}
	}
	return nil
}

func (a *Analysis) pathInValue(e *types.MappingEntry, line int) []string {
	if e.Value.IsBlockMapping() {
		nested, _ := a.Nested(e)
		return a.pathIn(nested, e.Path, line)
	}
	if e.Value.IsBlockSequence() {
		return a.pathInItems(e, e.Path, line)
	}
	return nil
}

func (a *Analysis) pathInItems(owner types.Statement, base []string, line int) []string {
	items, _ := a.Items(owner)
	for _, it := range items {
		if !it.Span().Contains(line) {
			continue
		}
		if it.Frozen() {
			return base
		}
		itemPath := append(append([]string(nil), base...), fmt.Sprintf("[%d]", it.Index))
		if it.Node.IsBlockMapping() {
			bound := it.Loc
			stmts, _ := a.buildLevel(it.Node.Node, itemPath, bound, it.Loc.Start-1, false)
			if inner := a.pathIn(stmts, itemPath, line); inner != nil {
				return inner
			}
		}
		return itemPath
	}
	return nil
}

// FrozenKeys returns the names of the mapping keys that a freeze block
// hides, at the shallowest column found inside it.
func (a *Analysis) FrozenKeys(fb *types.FreezeBlock) []string {
	if a.doc == nil || fb == nil {
		return nil
	}
	body := fb.Body()
	var keys []*yaml.Node
	var walk func(n *yaml.Node)
	walk = func(n *yaml.Node) {
		if n.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(n.Content); i += 2 {
				if k := n.Content[i]; body.Contains(k.Line) {
					keys = append(keys, k)
				}
			}
		}
		for _, c := range n.Content {
			walk(c)
		}
	}
	walk(a.doc)

	col := -1
	for _, k := range keys {
		if col < 0 || k.Column < col {
			col = k.Column
		}
	}
	var out []string
	for _, k := range keys {
		if k.Column == col {
			out = append(out, k.Value)
		}
	}
	return out
}
