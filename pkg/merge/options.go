package merge

import (
	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/matching"
	"github.com/arthur-debert/yamlmerge/pkg/resolver"
	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// Preference decides which side wins a conflict, globally or per type.
type Preference = resolver.Preference

// Classifier names statement types for per-type preferences.
type Classifier = resolver.Classifier

// Options configures a merge. The zero value keeps the destination on
// conflict, never adds or removes statements and does not recurse; use
// DefaultOptions for the usual recursive merge.
type Options struct {
	Preference Preference

	// AddTemplateOnlyNodes appends template statements the destination
	// lacks.
	AddTemplateOnlyNodes bool
	// RemoveTemplateMissingNodes drops destination statements the template
	// lacks. Freeze blocks and statements holding them are never dropped.
	RemoveTemplateMissingNodes bool

	// Recursive merges matching block mappings and block sequences
	// element by element instead of picking one side wholesale.
	Recursive bool
	// MaxDepth bounds recursion; 0 is unbounded.
	MaxDepth int

	// FreezeToken is the marker word; defaults to "yaml-merge".
	FreezeToken string

	SignatureFunc types.SignatureFunc
	// Matcher pairs statements that signatures leave unmatched, e.g.
	// matching.NewFuzzyMatcher().
	Matcher    matching.Matcher
	Classifier Classifier
}

// DefaultOptions returns a recursive merge that prefers the destination.
func DefaultOptions() Options {
	return Options{
		Preference:  PreferDestination(),
		Recursive:   true,
		FreezeToken: analysis.DefaultFreezeToken,
	}
}

// PreferDestination keeps the destination on every conflict.
func PreferDestination() Preference {
	return Preference{Default: types.Destination}
}

// PreferTemplate takes the template on every conflict.
func PreferTemplate() Preference {
	return Preference{Default: types.Template}
}

// PreferByType picks a side per classified type, falling back to def.
func PreferByType(def types.Side, byType map[string]types.Side) Preference {
	return Preference{Default: def, ByType: byType}
}

// ClassifyByKey classifies mapping entries by key name, e.g.
// {"image": "version"} lets a "version" preference govern "image" keys.
func ClassifyByKey(names map[string]string) Classifier {
	return resolver.KeyClassifier(names)
}

// AnalysisOptions returns the parts of o that shape source analysis.
func (o Options) AnalysisOptions() analysis.Options {
	return analysis.Options{
		FreezeToken: o.FreezeToken,
		Signature:   o.SignatureFunc,
	}
}

// ResolverOptions returns the parts of o that drive conflict resolution.
func (o Options) ResolverOptions() resolver.Options {
	return resolver.Options{
		Preference:            o.Preference,
		Classifier:            o.Classifier,
		AddTemplateOnly:       o.AddTemplateOnlyNodes,
		RemoveTemplateMissing: o.RemoveTemplateMissingNodes,
		Recursive:             o.Recursive,
		MaxDepth:              o.MaxDepth,
		Matcher:               o.Matcher,
	}
}
