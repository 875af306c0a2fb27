package types

import "gopkg.in/yaml.v3"

// NodeWrapper decorates a parsed node with the source information the
// merge engine needs: its line range, anchor, comments and signature.
type NodeWrapper struct {
	Node     *yaml.Node
	Loc      Location
	Anchor   string
	Leading  []Comment
	Trailing *Comment

	signature Signature
}

// WrapNode builds a NodeWrapper and computes the node's generic signature.
func WrapNode(n *yaml.Node, loc Location, leading []Comment, trailing *Comment) *NodeWrapper {
	w := &NodeWrapper{
		Node:      n,
		Loc:       loc,
		Leading:   leading,
		Trailing:  trailing,
		signature: NodeSignature(n),
	}
	if n != nil {
		w.Anchor = n.Anchor
	}
	return w
}

// Signature returns the generic signature of the wrapped node.
func (w *NodeWrapper) Signature() Signature {
	return w.signature
}

// KindName returns the node kind name ("mapping", "sequence", ...).
func (w *NodeWrapper) KindName() string {
	if w == nil {
		return KindName(nil)
	}
	return KindName(w.Node)
}

func (w *NodeWrapper) is(kind yaml.Kind) bool {
	return w != nil && w.Node != nil && w.Node.Kind == kind
}

func (w *NodeWrapper) IsMapping() bool  { return w.is(yaml.MappingNode) }
func (w *NodeWrapper) IsSequence() bool { return w.is(yaml.SequenceNode) }
func (w *NodeWrapper) IsScalar() bool   { return w.is(yaml.ScalarNode) }
func (w *NodeWrapper) IsAlias() bool    { return w.is(yaml.AliasNode) }

// IsBlock reports whether the node is written in block style. Flow
// collections ({...} and [...]) cannot be merged line by line.
func (w *NodeWrapper) IsBlock() bool {
	return w != nil && w.Node != nil && w.Node.Style&yaml.FlowStyle == 0
}

// IsBlockMapping reports a block-style mapping with at least one entry.
func (w *NodeWrapper) IsBlockMapping() bool {
	return w.IsMapping() && w.IsBlock() && len(w.Node.Content) > 0
}

// IsBlockSequence reports a block-style sequence with at least one item.
func (w *NodeWrapper) IsBlockSequence() bool {
	return w.IsSequence() && w.IsBlock() && len(w.Node.Content) > 0
}

// Keys returns the immediate keys of a mapping node.
func (w *NodeWrapper) Keys() []string {
	if w == nil {
		return nil
	}
	return MappingKeys(w.Node)
}

// Len returns the number of items of a sequence or entries of a mapping.
func (w *NodeWrapper) Len() int {
	switch {
	case w.IsSequence():
		return len(w.Node.Content)
	case w.IsMapping():
		return len(w.Node.Content) / 2
	default:
		return 0
	}
}

// ScalarValue returns the scalar's value.
func (w *NodeWrapper) ScalarValue() (string, bool) {
	if !w.IsScalar() {
		return "", false
	}
	return w.Node.Value, true
}
