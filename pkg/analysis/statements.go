package analysis

import (
	"sort"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
	"gopkg.in/yaml.v3"
)

// Item is one element of a block sequence together with its extent. A
// freeze block at the level of the items is an Item of its own: Block is
// set, Node is nil and Hidden lists the elements the block covers.
type Item struct {
	Index  int
	Node   *types.NodeWrapper
	Loc    types.Location
	Lead   int
	Block  *types.FreezeBlock
	Hidden []*yaml.Node
}

// Span returns the item body extended by its leading region.
func (i Item) Span() types.Location {
	return types.Location{Start: i.Lead, End: i.Loc.End}
}

// Frozen reports whether the item is a freeze block.
func (i Item) Frozen() bool { return i.Block != nil }

// integrate builds the top-level statement list and the document preamble
// and trailer.
func (a *Analysis) integrate() []types.Statement {
	total := len(a.lines)
	a.preamble = types.Location{Start: 1, End: 0}
	a.trailer = types.Location{Start: 1, End: total}

	if a.doc == nil || a.doc.Kind != yaml.DocumentNode || len(a.doc.Content) == 0 {
		return nil
	}
	rootNode := a.doc.Content[0]
	if rootNode.Kind == yaml.ScalarNode && rootNode.Tag == "!!null" && rootNode.Value == "" {
		return nil
	}
	a.bodyEnd = a.documentEnd(rootNode.Line)

	var stmts []types.Statement
	root := types.WrapNode(rootNode, types.Location{Start: rootNode.Line, End: a.bodyEnd}, nil, nil)
	if root.IsBlockMapping() {
		stmts, _ = a.buildLevel(rootNode, nil, types.Location{Start: 1, End: a.bodyEnd}, 0, true)
	} else {
		start := rootNode.Line
		end := a.trimEnd(a.bodyEnd, rootNode.Column-1, max(start, deepestLine(rootNode)))
		lead := a.firstLead(start, 0)
		for _, fb := range a.freeze {
			b := fb.Body()
			if b.Start < lead && b.End >= start {
				lead = b.Start
			}
			if b.Start >= lead && b.Start <= end && b.End > end && b.End <= a.bodyEnd {
				end = b.End
			}
		}
		root.Loc = types.Location{Start: start, End: end}
		stmts = []types.Statement{&types.WholeDocument{
			Root: root,
			Loc:  types.Location{Start: start, End: end},
			Lead: lead,
		}}
	}
	a.root = root

	if len(stmts) == 0 {
		return nil
	}
	a.preamble = types.Location{Start: 1, End: stmts[0].LeadStart() - 1}
	a.trailer = types.Location{Start: stmts[len(stmts)-1].Body().End + 1, End: total}
	return stmts
}

// levelItem is a statement candidate before its extent is known.
type levelItem struct {
	start int
	key   *yaml.Node
	value *yaml.Node
	block *types.FreezeBlock
}

// buildLevel integrates the entries of one block mapping with the freeze
// blocks found inside bound. A freeze block covering an entry's key line
// replaces that entry; one that sits deeper than the preceding entry's key
// belongs to that entry's value; any other block becomes a statement at its
// own position. It returns the statements and the trailing lines of the
// level that belong to no statement.
func (a *Analysis) buildLevel(mapping *yaml.Node, path []string, bound types.Location, prevEnd int, top bool) ([]types.Statement, types.Location) {
	var children []levelItem
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key, value := mapping.Content[i], mapping.Content[i+1]
		children = append(children, levelItem{start: key.Line, key: key, value: value})
	}

	covered := make([]bool, len(children))
	var items []levelItem
	var nested []*types.FreezeBlock
	for _, fb := range a.freeze {
		if !bound.Covers(fb.Body()) {
			continue
		}
		covers := false
		for i, c := range children {
			if fb.Body().Contains(c.start) {
				covered[i] = true
				covers = true
			}
		}
		if covers {
			items = append(items, levelItem{start: fb.Body().Start, block: fb})
			continue
		}
		if owner := precedingChild(children, fb.Body().Start); owner >= 0 &&
			(indentOf(a.Line(fb.Body().Start)) > children[owner].key.Column-1 ||
				fb.Body().Start < deepestLine(children[owner].value)) {
			nested = append(nested, fb)
			continue
		}
		items = append(items, levelItem{start: fb.Body().Start, block: fb})
	}
	for i, c := range children {
		if !covered[i] {
			items = append(items, c)
		} else {
			a.logger.Trace().Str("key", c.key.Value).Int("line", c.start).Msg("Entry replaced by freeze block")
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })

	stmts := make([]types.Statement, 0, len(items))
	prev := prevEnd
	for idx, it := range items {
		next := bound.End + 1
		if idx+1 < len(items) {
			next = items[idx+1].start
		}

		lead := prev + 1
		if top && idx == 0 {
			lead = a.firstLead(it.start, prev)
		}
		if lead > it.start {
			lead = it.start
		}

		if it.block != nil {
			stmts = append(stmts, it.block.WithLead(lead))
			prev = it.block.Body().End
			continue
		}

		minEnd := max(it.start, deepestLine(it.value))
		for _, fb := range nested {
			if fb.Body().Start > it.start && fb.Body().Start < next {
				minEnd = max(minEnd, fb.Body().End)
			}
		}
		end := a.trimEnd(next-1, it.key.Column-1, minEnd)
		if end < it.start {
			end = it.start
		}

		keyLoc := types.Location{Start: it.start, End: it.start}
		valueStart := it.value.Line
		if valueStart < it.start || valueStart > end {
			valueStart = it.start
		}
		entryPath := append(append([]string(nil), path...), it.key.Value)

		var trailing *types.Comment
		if c, ok := a.tracker.Trailing(it.start); ok {
			trailing = &c
		}
		stmts = append(stmts, &types.MappingEntry{
			Key:   types.WrapNode(it.key, keyLoc, a.fullLineComments(lead, it.start-1), trailing),
			Value: types.WrapNode(it.value, types.Location{Start: valueStart, End: end}, nil, nil),
			Loc:   types.Location{Start: it.start, End: end},
			Lead:  lead,
			Path:  entryPath,
		})
		prev = end
	}

	return stmts, types.Location{Start: prev + 1, End: bound.End}
}

// Nested returns the child statements of an entry whose value is a block
// mapping, and the lines after the last child that still belong to the
// entry. It returns nil for any other value.
func (a *Analysis) Nested(e *types.MappingEntry) ([]types.Statement, types.Location) {
	if e == nil || !e.Value.IsBlockMapping() {
		return nil, types.Location{Start: 1, End: 0}
	}
	bound := types.Location{Start: e.KeyLine() + 1, End: e.Loc.End}
	if bound.End < bound.Start {
		return nil, types.Location{Start: 1, End: 0}
	}
	return a.buildLevel(e.Value.Node, e.Path, bound, e.KeyLine(), false)
}

// Items returns the items of a block sequence held by an entry or a whole
// document, and the trailing lines after the last item. Freeze blocks are
// integrated the way buildLevel integrates them into a mapping: a block
// covering an element's first line replaces that element, a block that
// starts inside an element and sits deeper than its dash belongs to it, and
// any other block is an item at its own position.
func (a *Analysis) Items(s types.Statement) ([]Item, types.Location) {
	var seq *types.NodeWrapper
	var bound types.Location
	var prevEnd int

	switch st := s.(type) {
	case *types.MappingEntry:
		seq = st.Value
		bound = types.Location{Start: st.KeyLine() + 1, End: st.Loc.End}
		prevEnd = st.KeyLine()
	case *types.WholeDocument:
		seq = st.Root
		bound = types.Location{Start: st.LeadStart(), End: st.Loc.End}
		prevEnd = st.LeadStart() - 1
	}
	empty := types.Location{Start: 1, End: 0}
	if !seq.IsBlockSequence() || bound.End < bound.Start {
		return nil, empty
	}

	type unit struct {
		start  int
		index  int
		node   *yaml.Node
		block  *types.FreezeBlock
		hidden []*yaml.Node
	}

	dashCol := seq.Node.Column - 1
	content := seq.Node.Content
	covered := make([]bool, len(content))
	var units []unit
	var nested []*types.FreezeBlock
	for _, fb := range a.freeze {
		if !bound.Covers(fb.Body()) {
			continue
		}
		u := unit{start: fb.Body().Start, index: -1, block: fb}
		for i, n := range content {
			if fb.Body().Contains(n.Line) {
				covered[i] = true
				u.hidden = append(u.hidden, n)
				if u.index < 0 {
					u.index = i
				}
			}
		}
		if u.index < 0 {
			owner := -1
			for i, n := range content {
				if n.Line < fb.Body().Start {
					owner = i
				}
			}
			if owner >= 0 && (indentOf(a.Line(fb.Body().Start)) > dashCol ||
				fb.Body().Start < deepestLine(content[owner])) {
				nested = append(nested, fb)
				continue
			}
		}
		units = append(units, u)
	}
	for i, n := range content {
		if !covered[i] {
			units = append(units, unit{start: n.Line, index: i, node: n})
		}
	}
	sort.SliceStable(units, func(i, j int) bool { return units[i].start < units[j].start })

	items := make([]Item, 0, len(units))
	prev := prevEnd
	for idx, u := range units {
		next := bound.End + 1
		if idx+1 < len(units) {
			next = units[idx+1].start
		}
		lead := min(prev+1, u.start)

		if u.block != nil {
			items = append(items, Item{
				Index:  u.index,
				Loc:    u.block.Body(),
				Lead:   lead,
				Block:  u.block,
				Hidden: u.hidden,
			})
			prev = u.block.Body().End
			continue
		}

		minEnd := max(u.start, deepestLine(u.node))
		for _, fb := range nested {
			if fb.Body().Start > u.start && fb.Body().Start < next {
				minEnd = max(minEnd, fb.Body().End)
			}
		}
		end := a.trimEnd(next-1, dashCol, minEnd)
		if end < u.start {
			end = u.start
		}
		loc := types.Location{Start: u.start, End: end}
		items = append(items, Item{
			Index: u.index,
			Node:  types.WrapNode(u.node, loc, nil, nil),
			Loc:   loc,
			Lead:  lead,
		})
		prev = end
	}
	return items, types.Location{Start: prev + 1, End: bound.End}
}

// firstLead returns the first line of the comment run directly above line,
// never reaching prevEnd.
func (a *Analysis) firstLead(line, prevEnd int) int {
	lead := line - len(a.tracker.Leading(line))
	if lead <= prevEnd {
		lead = prevEnd + 1
	}
	return lead
}

// trimEnd walks back from upper over blank lines and over full-line
// comments indented no deeper than column, stopping at minEnd.
func (a *Analysis) trimEnd(upper, column, minEnd int) int {
	end := upper
	for end > minEnd {
		if a.isBlank(end) {
			end--
			continue
		}
		if c, ok := a.tracker.At(end); ok && c.FullLine && c.Indent <= column {
			end--
			continue
		}
		break
	}
	return end
}

func (a *Analysis) fullLineComments(start, end int) []types.Comment {
	var out []types.Comment
	for _, c := range a.tracker.InRange(start, end) {
		if c.FullLine {
			out = append(out, c)
		}
	}
	return out
}

// precedingChild returns the index of the last child whose key line is
// before line, or -1.
func precedingChild(children []levelItem, line int) int {
	owner := -1
	for i, c := range children {
		if c.start < line {
			owner = i
		}
	}
	return owner
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// deepestLine returns the last line occupied by n or any of its
// descendants. Block scalars extend over their content lines.
func deepestLine(n *yaml.Node) int {
	if n == nil {
		return 0
	}
	last := n.Line
	if n.Kind == yaml.ScalarNode && n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		if v := strings.TrimRight(n.Value, "\n"); v != "" {
			last = n.Line + strings.Count(v, "\n") + 1
		}
	}
	for _, c := range n.Content {
		last = max(last, deepestLine(c))
	}
	return last
}
