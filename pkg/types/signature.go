package types

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SignatureTag names the shape a signature was derived from.
type SignatureTag int

const (
	EntryTag SignatureTag = iota
	FreezeTag
	MappingTag
	SequenceTag
	ScalarTag
	AliasTag
	DocumentTag
	StreamTag
	CustomTag
)

func (t SignatureTag) String() string {
	switch t {
	case EntryTag:
		return "entry"
	case FreezeTag:
		return "freeze"
	case MappingTag:
		return "mapping"
	case SequenceTag:
		return "sequence"
	case ScalarTag:
		return "scalar"
	case AliasTag:
		return "alias"
	case DocumentTag:
		return "document"
	case StreamTag:
		return "stream"
	case CustomTag:
		return "custom"
	default:
		return fmt.Sprintf("SignatureTag(%d)", int(t))
	}
}

// Signature is the structural identity of a statement. Two statements with
// equal signatures are treated as the same logical element. Signatures are
// comparable and usable as map keys.
type Signature struct {
	Tag SignatureTag
	Key string
}

const sigSep = "\x1f"

// NewSignature joins parts into a signature key.
func NewSignature(tag SignatureTag, parts ...string) Signature {
	return Signature{Tag: tag, Key: strings.Join(parts, sigSep)}
}

// Parts splits the signature key back into its parts.
func (s Signature) Parts() []string {
	if s.Key == "" {
		return nil
	}
	return strings.Split(s.Key, sigSep)
}

func (s Signature) String() string {
	return fmt.Sprintf("(%s %s)", s.Tag, strings.Join(s.Parts(), ", "))
}

// SignatureResult is what a signature override returns: either a signature
// or a request to fall back to the default computation.
type SignatureResult struct {
	Signature  Signature
	UseDefault bool
}

// UseDefaultSignature asks the analysis to compute the default signature.
func UseDefaultSignature() SignatureResult {
	return SignatureResult{UseDefault: true}
}

// CustomSignature returns sig in place of the default.
func CustomSignature(sig Signature) SignatureResult {
	return SignatureResult{Signature: sig}
}

// SignatureFunc overrides signature computation per statement.
type SignatureFunc func(Statement) SignatureResult

// KindName returns a short name for a yaml node kind.
func KindName(n *yaml.Node) string {
	if n == nil {
		return "empty"
	}
	switch n.Kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// NodeSignature computes the generic signature of a parsed node.
func NodeSignature(n *yaml.Node) Signature {
	if n == nil {
		return NewSignature(StreamTag)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		var root *yaml.Node
		if len(n.Content) > 0 {
			root = n.Content[0]
		}
		return NewSignature(DocumentTag, KindName(root))
	case yaml.MappingNode:
		keys := MappingKeys(n)
		sort.Strings(keys)
		return NewSignature(MappingTag, append([]string{n.Anchor}, keys...)...)
	case yaml.SequenceNode:
		return NewSignature(SequenceTag, n.Anchor, strconv.Itoa(len(n.Content)))
	case yaml.ScalarNode:
		return NewSignature(ScalarTag, n.Anchor, n.Value)
	case yaml.AliasNode:
		return NewSignature(AliasTag, aliasTarget(n))
	default:
		return NewSignature(StreamTag)
	}
}

// MappingKeys returns the immediate key names of a mapping node in order.
func MappingKeys(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		keys = append(keys, n.Content[i].Value)
	}
	return keys
}

func aliasTarget(n *yaml.Node) string {
	if n.Alias != nil && n.Alias.Anchor != "" {
		return n.Alias.Anchor
	}
	return n.Value
}
