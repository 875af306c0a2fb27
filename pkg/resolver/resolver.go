// Package resolver decides, statement by statement, what the merged
// document contains. A resolution pass is a pure function of the two
// analyses and the options; recursion into nested mappings and sequences
// runs the same pass one level deeper.
package resolver

import (
	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/emit"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/matching"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Options controls conflict resolution.
type Options struct {
	Preference Preference
	Classifier Classifier

	// AddTemplateOnly appends template statements with no destination
	// counterpart.
	AddTemplateOnly bool
	// RemoveTemplateMissing drops destination statements with no template
	// counterpart.
	RemoveTemplateMissing bool

	Recursive bool
	// MaxDepth limits recursion; 0 means unbounded. The top level is
	// depth 0.
	MaxDepth int

	// Matcher, when set, pairs statements left unmatched by signature.
	Matcher matching.Matcher
}

// Resolver merges the statements of a template analysis into those of a
// destination analysis.
type Resolver struct {
	tmpl   *analysis.Analysis
	dest   *analysis.Analysis
	opts   Options
	logger zerolog.Logger
}

// New returns a resolver over two valid analyses.
func New(tmpl, dest *analysis.Analysis, opts Options) *Resolver {
	return &Resolver{
		tmpl:   tmpl,
		dest:   dest,
		opts:   opts,
		logger: logging.GetLogger("resolver"),
	}
}

// ResolveDocument merges the two documents. The destination's preamble
// and trailer frame the resolved statements.
func (r *Resolver) ResolveDocument() *emit.Fragment {
	e := emit.NewEmitter()
	body := r.Resolve(r.tmpl.Statements(), r.dest.Statements(), 0)

	if len(r.dest.Statements()) == 0 {
		// Nothing but comments or separators: keep them first.
		r.copyLines(e, r.dest, r.dest.Trailer(), 0, types.KeptDestination, types.FromDestination)
		e.Append(body)
		return e.Fragment()
	}

	r.copyLines(e, r.dest, r.dest.Preamble(), 0, types.KeptDestination, types.FromDestination)
	e.Append(body)
	r.copyLines(e, r.dest, r.dest.Trailer(), 0, types.KeptDestination, types.FromDestination)
	return e.Fragment()
}

// Resolve runs one resolution pass over a level of template statements
// and destination statements and returns the lines it produces.
func (r *Resolver) Resolve(tmpl, dest []types.Statement, depth int) *emit.Fragment {
	tIdx := matching.NewSignatureIndex(tmpl, r.tmpl.Signature)
	dIdx := matching.NewSignatureIndex(dest, r.dest.Signature)

	consumed := make(map[types.Statement]bool)
	pairs := make(map[types.Statement]types.Statement)

	r.shadowFrozen(tmpl, dest, consumed)

	for _, d := range dest {
		if d.Kind() == types.KindFreezeBlock {
			continue
		}
		cands := tIdx.Lookup(dIdx.Signature(d))
		if len(cands) == 0 {
			continue
		}
		t := cands[0]
		for _, c := range cands {
			if !consumed[c] {
				t = c
				break
			}
		}
		pairs[d] = t
		consumed[t] = true
	}

	if r.opts.Matcher != nil {
		r.fuzzyPairs(tmpl, dest, tIdx, dIdx, consumed, pairs)
	}

	e := emit.NewEmitter()
	for _, d := range dest {
		switch st := d.(type) {
		case *types.FreezeBlock:
			r.copyLines(e, r.dest, types.Span(st), 0, types.FreezeBlockDecision, types.FromDestination)
		case *types.MappingEntry, *types.WholeDocument:
			if t, ok := pairs[d]; ok {
				r.resolvePair(e, t, d, depth)
				continue
			}
			if r.opts.RemoveTemplateMissing && !r.holdsFreeze(d) {
				r.logger.Trace().Int("line", d.Body().Start).Msg("Dropping destination statement missing from template")
				continue
			}
			r.copyLines(e, r.dest, types.Span(d), 0, types.KeptDestination, types.FromDestination)
		default:
			r.logger.Warn().
				Str("kind", d.Kind().String()).
				Int("line", d.Body().Start).
				Msg("Skipping statement of unknown kind")
		}
	}

	if r.opts.AddTemplateOnly {
		col := levelColumn(dest)
		for _, t := range tmpl {
			if consumed[t] || t.Kind() == types.KindFreezeBlock {
				continue
			}
			if !compatible(t, dest) {
				r.logger.Debug().Int("line", t.Body().Start).Msg("Template-only statement does not fit the destination shape")
				continue
			}
			delta := 0
			if col >= 0 {
				delta = col - column(t)
			}
			r.logger.Trace().Int("line", t.Body().Start).Int("depth", depth).Msg("Adding template-only statement")
			r.copyLines(e, r.tmpl, types.Span(t), delta, types.Added, types.FromTemplate)
		}
	}

	return e.Fragment()
}

// shadowFrozen marks template entries whose key is hidden inside a
// destination freeze block as consumed, so they are never added twice.
func (r *Resolver) shadowFrozen(tmpl, dest []types.Statement, consumed map[types.Statement]bool) {
	hidden := make(map[string]bool)
	for _, d := range dest {
		if fb, ok := d.(*types.FreezeBlock); ok {
			for _, k := range r.dest.FrozenKeys(fb) {
				hidden[k] = true
			}
		}
	}
	if len(hidden) == 0 {
		return
	}
	for _, t := range tmpl {
		if e, ok := t.(*types.MappingEntry); ok && hidden[e.Name()] {
			consumed[t] = true
		}
	}
}

func (r *Resolver) fuzzyPairs(tmpl, dest []types.Statement, tIdx, dIdx *matching.SignatureIndex, consumed map[types.Statement]bool, pairs map[types.Statement]types.Statement) {
	var tFree, dFree []types.Statement
	tSet := make(map[types.Statement]bool)
	dSet := make(map[types.Statement]bool)
	for _, t := range tmpl {
		if !consumed[t] && t.Kind() != types.KindFreezeBlock && !dIdx.Has(tIdx.Signature(t)) {
			tFree = append(tFree, t)
			tSet[t] = true
		}
	}
	for _, d := range dest {
		if _, ok := pairs[d]; !ok && d.Kind() != types.KindFreezeBlock {
			dFree = append(dFree, d)
			dSet[d] = true
		}
	}
	if len(tFree) == 0 || len(dFree) == 0 {
		return
	}

	for _, m := range r.opts.Matcher.Match(tFree, dFree) {
		if !tSet[m.Template] || !dSet[m.Dest] || consumed[m.Template] {
			continue
		}
		if _, taken := pairs[m.Dest]; taken {
			continue
		}
		pairs[m.Dest] = m.Template
		consumed[m.Template] = true
		r.logger.Debug().
			Int("templateLine", m.Template.Body().Start).
			Int("destLine", m.Dest.Body().Start).
			Float64("score", m.Score).
			Msg("Fuzzy match")
	}
}

// resolvePair emits the outcome for a matched template/destination pair.
func (r *Resolver) resolvePair(e *emit.Emitter, t, d types.Statement, depth int) {
	frozen := r.holdsFreeze(d)
	tv, dv := container(t), container(d)

	if frozen || r.mayRecurse(depth) {
		te, tEntry := t.(*types.MappingEntry)
		de, dEntry := d.(*types.MappingEntry)
		switch {
		case tEntry && dEntry && tv.IsBlockMapping() && dv.IsBlockMapping():
			r.recurseMapping(e, te, de, depth)
			return
		case tv.IsBlockSequence() && dv.IsBlockSequence():
			r.recurseSequence(e, t, d, dv.Node.Column-tv.Node.Column)
			return
		}
	}

	side := r.opts.Preference.For(r.classify(d, t))
	if frozen {
		side = types.Destination
	}
	if side == types.Template {
		r.copyLines(e, r.tmpl, types.Span(t), column(d)-column(t), types.KeptTemplate, types.FromTemplate)
		return
	}
	r.copyLines(e, r.dest, types.Span(d), 0, types.KeptDestination, types.FromDestination)
}

func (r *Resolver) mayRecurse(depth int) bool {
	return r.opts.Recursive && (r.opts.MaxDepth == 0 || depth < r.opts.MaxDepth)
}

// classify asks the classifier about the destination statement first and
// the template statement second.
func (r *Resolver) classify(d, t types.Statement) string {
	if r.opts.Classifier == nil {
		return ""
	}
	if typ, ok := r.opts.Classifier(d); ok {
		return typ
	}
	if typ, ok := r.opts.Classifier(t); ok {
		return typ
	}
	return ""
}

func (r *Resolver) recurseMapping(e *emit.Emitter, t, d *types.MappingEntry, depth int) {
	r.copyLines(e, r.dest, types.Location{Start: d.Lead, End: d.KeyLine()}, 0, types.Merged, types.FromDestination)

	tChildren, _ := r.tmpl.Nested(t)
	dChildren, dTrailer := r.dest.Nested(d)
	e.Append(r.Resolve(tChildren, dChildren, depth+1))

	r.copyLines(e, r.dest, dTrailer, 0, types.Merged, types.FromDestination)
}

// recurseSequence merges two block sequences with union semantics. Only
// scalar items are compared by value. Destination freeze blocks are kept
// verbatim in place and the values they hide are never added again. Added
// template items follow the last destination item, shifted by delta
// columns.
func (r *Resolver) recurseSequence(e *emit.Emitter, t, d types.Statement, delta int) {
	head := types.Location{Start: d.LeadStart(), End: d.LeadStart() - 1}
	if de, ok := d.(*types.MappingEntry); ok {
		head.End = de.KeyLine()
	}
	r.copyLines(e, r.dest, head, 0, types.Merged, types.FromDestination)

	tItems, _ := r.tmpl.Items(t)
	dItems, dTrailer := r.dest.Items(d)

	tValues := scalarValues(tItems)
	dValues := scalarValues(dItems)

	for _, it := range dItems {
		if it.Frozen() {
			r.copyLines(e, r.dest, it.Span(), 0, types.FreezeBlockDecision, types.FromDestination)
			continue
		}
		if r.opts.RemoveTemplateMissing && it.Node.IsScalar() && !tValues[it.Node.Node.Value] && !r.dest.InFreeze(it.Loc) {
			r.logger.Trace().Int("line", it.Loc.Start).Msg("Dropping sequence item missing from template")
			continue
		}
		r.copyLines(e, r.dest, it.Span(), 0, types.KeptDestination, types.FromDestination)
	}

	if r.opts.AddTemplateOnly {
		for _, it := range tItems {
			if it.Frozen() || (it.Node.IsScalar() && dValues[it.Node.Node.Value]) {
				continue
			}
			r.copyLines(e, r.tmpl, it.Span(), delta, types.Added, types.FromTemplate)
		}
	}

	r.copyLines(e, r.dest, dTrailer, 0, types.Merged, types.FromDestination)
}

// scalarValues collects the scalar elements of items, including those
// hidden inside freeze blocks.
func scalarValues(items []analysis.Item) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Frozen() {
			for _, n := range it.Hidden {
				if n.Kind == yaml.ScalarNode {
					out[n.Value] = true
				}
			}
			continue
		}
		if it.Node.IsScalar() {
			out[it.Node.Node.Value] = true
		}
	}
	return out
}

// holdsFreeze reports whether a destination statement contains a freeze
// block.
func (r *Resolver) holdsFreeze(d types.Statement) bool {
	return r.dest.InFreeze(d.Body())
}

func (r *Resolver) copyLines(e *emit.Emitter, a *analysis.Analysis, loc types.Location, delta int, d types.MergeDecision, s types.Source) {
	e.Tag(d, s)
	for n := loc.Start; n <= loc.End; n++ {
		e.Reindent(a.Line(n), n, delta)
	}
}

// container returns the value a statement holds: an entry's value or a
// document's root.
func container(s types.Statement) *types.NodeWrapper {
	switch st := s.(type) {
	case *types.MappingEntry:
		return st.Value
	case *types.WholeDocument:
		return st.Root
	}
	return nil
}

// column returns the 0-based column a statement starts at.
func column(s types.Statement) int {
	switch st := s.(type) {
	case *types.MappingEntry:
		return st.KeyColumn()
	case *types.WholeDocument:
		if st.Root != nil && st.Root.Node != nil && st.Root.Node.Column > 0 {
			return st.Root.Node.Column - 1
		}
	case *types.FreezeBlock:
		if lines := st.Lines(); len(lines) > 0 {
			return indentOf(lines[0])
		}
	}
	return 0
}

// levelColumn returns the column of the first statement of a level, or -1
// for an empty level.
func levelColumn(stmts []types.Statement) int {
	for _, s := range stmts {
		if s.Kind() != types.KindFreezeBlock {
			return column(s)
		}
	}
	if len(stmts) > 0 {
		return column(stmts[0])
	}
	return -1
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// compatible reports whether t can be added next to the statements of a
// destination level: entries only join entries and a whole document only
// fills an empty level.
func compatible(t types.Statement, dest []types.Statement) bool {
	for _, d := range dest {
		if d.Kind() == types.KindWholeDocument {
			return false
		}
	}
	if t.Kind() == types.KindWholeDocument {
		return len(dest) == 0
	}
	return true
}
