package resolver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// DefaultType is the ByType key used for statements the classifier does
// not recognise.
const DefaultType = "default"

// Preference decides which side wins when two statements match.
type Preference struct {
	// Default applies when no per-type entry does.
	Default types.Side
	// ByType maps classifier type names to a side. The "default" key, when
	// present, takes precedence over Default for unclassified statements.
	ByType map[string]types.Side
}

// For returns the side for a statement classified as typeName. An empty
// typeName means unclassified.
func (p Preference) For(typeName string) types.Side {
	if typeName != "" {
		if side, ok := p.ByType[typeName]; ok {
			return side
		}
	}
	if side, ok := p.ByType[DefaultType]; ok {
		return side
	}
	return p.Default
}

func (p Preference) String() string {
	if len(p.ByType) == 0 {
		return p.Default.String()
	}
	parts := make([]string, 0, len(p.ByType))
	for k, v := range p.ByType {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s (%s)", p.Default, strings.Join(parts, ", "))
}

// Classifier names the type of a statement for per-type preferences.
// Returning ok=false leaves the statement unclassified.
type Classifier func(types.Statement) (typeName string, ok bool)

// KeyClassifier classifies mapping entries by key name using names.
func KeyClassifier(names map[string]string) Classifier {
	return func(s types.Statement) (string, bool) {
		e, ok := s.(*types.MappingEntry)
		if !ok {
			return "", false
		}
		typ, ok := names[e.Name()]
		return typ, ok && typ != ""
	}
}
