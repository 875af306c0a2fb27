// Package navigator edits a YAML document at a key path while keeping
// every other line of it as written.
package navigator

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/emit"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/merge"
	"github.com/arthur-debert/yamlmerge/pkg/resolver"
	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// ParsePath splits a dotted key path such as "db.primary.host".
func ParsePath(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, errors.New(errors.ErrConfigValid, "key path is empty")
	}
	parts := strings.Split(s, ".")
	for i, p := range parts {
		if p == "" {
			return nil, errors.Newf(errors.ErrConfigValid, "key path %q has an empty segment", s).
				WithDetail("segment", i)
		}
	}
	return parts, nil
}

// Replace substitutes the value at path in dest with replacement, a YAML
// fragment. When both the current value and the replacement are block
// mappings, the replacement is merged into the value as a template with
// opts; any other value is spliced in place. Lines outside the value are
// kept as written.
func Replace(dest string, path []string, replacement string, opts merge.Options) (*emit.MergeResult, error) {
	logger := logging.GetLogger("navigator")
	if len(path) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "replacement path is empty")
	}

	destA := analysis.New(dest, opts.AnalysisOptions())
	if !destA.Valid() {
		return nil, errors.NewParseFailure(errors.SideDestination, destA.Errors())
	}
	entry, ok := destA.Lookup(path)
	if !ok {
		return nil, notFound(path)
	}
	replA := analysis.New(replacement, opts.AnalysisOptions())
	if !replA.Valid() {
		return nil, errors.NewParseFailure(errors.SideTemplate, replA.Errors())
	}
	if replA.Root() == nil {
		return nil, errors.New(errors.ErrInvalidInput, "replacement is empty").
			WithDetail("path", strings.Join(path, "."))
	}

	e := emit.NewEmitter()
	copyLines(e, destA, 1, entry.KeyLine()-1, types.KeptDestination)

	if entry.Value.IsBlockMapping() && replA.Root().IsBlockMapping() {
		logger.Debug().Strs("path", path).Msg("Merging replacement into mapping")
		copyLines(e, destA, entry.KeyLine(), entry.KeyLine(), types.Merged)
		children, trailer := destA.Nested(entry)
		r := resolver.New(replA, destA, opts.ResolverOptions())
		e.Append(r.Resolve(replA.Statements(), children, len(path)))
		copyLines(e, destA, trailer.Start, trailer.End, types.Merged)
	} else {
		if frozen(destA, entry.Loc) {
			return nil, errors.Newf(errors.ErrInvalidInput, "value at %s holds a freeze block", entry.PathString()).
				WithDetail("path", entry.PathString())
		}
		logger.Debug().Strs("path", path).Msg("Splicing replacement")
		splice(e, entry, replA)
	}
	copyLines(e, destA, entry.Loc.End+1, destA.LineCount(), types.KeptDestination)

	return emit.ResultOf(e.Fragment()), nil
}

// splice writes the entry's key followed by the replacement's lines,
// shifted under the key.
func splice(e *emit.Emitter, entry *types.MappingEntry, repl *analysis.Analysis) {
	stmts := repl.Statements()
	first := stmts[0].Body().Start
	last := stmts[len(stmts)-1].Body().End
	col := entry.KeyColumn()
	key := strings.Repeat(" ", col) + emit.Quote(entry.Name()) + ":"

	root := repl.Root()
	e.Tag(types.Merged, types.Synthesized)
	if root.IsBlockMapping() || root.IsBlockSequence() {
		e.Raw(key, 0)
		e.Tag(types.KeptTemplate, types.FromTemplate)
		delta := col + emit.DefaultIndentWidth - (root.Node.Column - 1)
		for n := first; n <= last; n++ {
			e.Reindent(repl.Line(n), n, delta)
		}
		return
	}

	head := key + " " + strings.TrimSpace(repl.Line(first))
	if first == last && entry.Key.Trailing != nil && !strings.Contains(repl.Line(first), "#") {
		head += " " + entry.Key.Trailing.Raw
	}
	e.Raw(head, first)
	if first == last {
		return
	}
	// Block scalar or multi-line flow content: keep its shape one level
	// under the key.
	e.Tag(types.KeptTemplate, types.FromTemplate)
	delta := col + emit.DefaultIndentWidth - minIndent(repl, first+1, last)
	for n := first + 1; n <= last; n++ {
		e.Reindent(repl.Line(n), n, delta)
	}
}

// SetOptions tunes Set.
type SetOptions struct {
	// Comment, when set, is written as a full-line comment above the key.
	Comment string
	// Style is used for values that span several lines.
	Style emit.BlockStyle
	// FreezeToken is the freeze marker word; defaults to "yaml-merge".
	FreezeToken string
}

// Set writes value as a scalar at path, quoting it when plain YAML would
// read it as something else. A missing key is appended to the deepest
// existing mapping on the path, creating the intermediate mappings.
func Set(dest string, path []string, value string, opts SetOptions) (*emit.MergeResult, error) {
	logger := logging.GetLogger("navigator")
	if len(path) == 0 {
		return nil, errors.New(errors.ErrConfigValid, "key path is empty")
	}

	destA := analysis.New(dest, analysis.Options{FreezeToken: opts.FreezeToken})
	if !destA.Valid() {
		return nil, errors.NewParseFailure(errors.SideDestination, destA.Errors())
	}
	if root := destA.Root(); root != nil && !root.IsBlockMapping() {
		return nil, errors.New(errors.ErrInvalidInput, "document root is not a block mapping")
	}

	e := emit.NewEmitter()
	if entry, ok := destA.Lookup(path); ok {
		if frozen(destA, entry.Loc) {
			return nil, errors.Newf(errors.ErrInvalidInput, "value at %s holds a freeze block", entry.PathString()).
				WithDetail("path", entry.PathString())
		}
		logger.Debug().Strs("path", path).Msg("Updating existing key")
		copyLines(e, destA, 1, entry.KeyLine()-1, types.KeptDestination)
		e.SetIndent(entry.KeyColumn())
		e.Tag(types.Merged, types.Synthesized)
		writeValue(e, path[len(path)-1], value, opts)
		if entry.Key.Trailing != nil && !strings.Contains(value, "\n") {
			e.Annotate(entry.Key.Trailing.Raw)
		}
		copyLines(e, destA, entry.Loc.End+1, destA.LineCount(), types.KeptDestination)
		return result(e), nil
	}

	// Find the deepest existing ancestor and where its children end.
	var parent *types.MappingEntry
	depth := 0
	for i := len(path) - 1; i > 0; i-- {
		if p, ok := destA.Lookup(path[:i]); ok {
			parent, depth = p, i
			break
		}
	}

	var level []types.Statement
	var after, indent int
	switch {
	case parent == nil:
		level = destA.Statements()
		after = destA.LineCount()
		if len(level) > 0 {
			after = level[len(level)-1].Body().End
			indent = levelIndent(level, 0)
		}
	case parent.Value.IsBlockMapping():
		var trailer types.Location
		level, trailer = destA.Nested(parent)
		after = trailer.Start - 1
		indent = levelIndent(level, parent.KeyColumn()+emit.DefaultIndentWidth)
	case isEmptyValue(parent):
		after = parent.Loc.End
		indent = parent.KeyColumn() + emit.DefaultIndentWidth
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "%s is not a mapping", parent.PathString()).
			WithDetail("path", parent.PathString())
	}
	if hidden(destA, level, path[depth]) {
		return nil, errors.Newf(errors.ErrInvalidInput, "key %q is inside a freeze block", path[depth]).
			WithDetail("path", strings.Join(path[:depth+1], "."))
	}

	logger.Debug().Strs("path", path).Int("existing", depth).Msg("Adding key")
	copyLines(e, destA, 1, after, types.KeptDestination)
	e.SetIndent(indent)
	e.Tag(types.Added, types.Synthesized)
	for _, k := range path[depth : len(path)-1] {
		e.Key(k)
	}
	writeValue(e, path[len(path)-1], value, opts)
	copyLines(e, destA, after+1, destA.LineCount(), types.KeptDestination)
	return result(e), nil
}

func writeValue(e *emit.Emitter, key, value string, opts SetOptions) {
	if opts.Comment != "" {
		e.Comment(opts.Comment)
	}
	if strings.Contains(value, "\n") {
		e.BlockScalar(key, value, opts.Style)
		return
	}
	e.KeyValue(key, value)
}

func result(e *emit.Emitter) *emit.MergeResult {
	return emit.ResultOf(e.Fragment())
}

func copyLines(e *emit.Emitter, a *analysis.Analysis, from, to int, d types.MergeDecision) {
	e.Tag(d, types.FromDestination)
	for n := from; n <= to; n++ {
		e.Raw(a.Line(n), n)
	}
}

func frozen(a *analysis.Analysis, loc types.Location) bool {
	for _, fb := range a.FreezeBlocks() {
		if fb.Body().Overlaps(loc) {
			return true
		}
	}
	return false
}

// hidden reports whether key is written inside one of the level's freeze
// blocks.
func hidden(a *analysis.Analysis, level []types.Statement, key string) bool {
	for _, s := range level {
		if fb, ok := s.(*types.FreezeBlock); ok {
			for _, k := range a.FrozenKeys(fb) {
				if k == key {
					return true
				}
			}
		}
	}
	return false
}

// levelIndent returns the key column of the first entry of a level.
func levelIndent(level []types.Statement, fallback int) int {
	for _, s := range level {
		if me, ok := s.(*types.MappingEntry); ok {
			return me.KeyColumn()
		}
	}
	return fallback
}

// isEmptyValue reports an entry written as "key:" with nothing after it.
func isEmptyValue(entry *types.MappingEntry) bool {
	v := entry.Value
	return v.IsScalar() && v.Node.Tag == "!!null" && v.Node.Value == "" && entry.Loc.Start == entry.Loc.End
}

func minIndent(a *analysis.Analysis, from, to int) int {
	m := -1
	for n := from; n <= to; n++ {
		l := a.Line(n)
		if strings.TrimSpace(l) == "" {
			continue
		}
		if ind := len(l) - len(strings.TrimLeft(l, " ")); m < 0 || ind < m {
			m = ind
		}
	}
	return max(m, 0)
}

func notFound(path []string) error {
	p := strings.Join(path, ".")
	return errors.Newf(errors.ErrNotFound, "no key at %s", p).WithDetail("path", p)
}
