package matching

import (
	"sort"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// Matcher pairs statements that signature matching left unmatched.
type Matcher interface {
	Match(template, dest []types.Statement) []types.Match
}

// Defaults for FuzzyMatcher.
const (
	DefaultThreshold   = 0.5
	DefaultKeyWeight   = 0.7
	DefaultValueWeight = 0.3
)

// FuzzyMatcher pairs mapping entries by weighted key and value similarity.
type FuzzyMatcher struct {
	Threshold   float64
	KeyWeight   float64
	ValueWeight float64
}

// NewFuzzyMatcher returns a matcher with the default weights and threshold.
func NewFuzzyMatcher() *FuzzyMatcher {
	return &FuzzyMatcher{
		Threshold:   DefaultThreshold,
		KeyWeight:   DefaultKeyWeight,
		ValueWeight: DefaultValueWeight,
	}
}

type candidate struct {
	t, d  int
	score float64
}

// Match scores every template/destination pair of mapping entries and
// greedily keeps the best unused pairs at or above the threshold. Each
// statement appears in at most one returned match.
func (m *FuzzyMatcher) Match(template, dest []types.Statement) []types.Match {
	var cands []candidate
	for ti, ts := range template {
		te, ok := ts.(*types.MappingEntry)
		if !ok {
			continue
		}
		for di, ds := range dest {
			de, ok := ds.(*types.MappingEntry)
			if !ok {
				continue
			}
			if score := m.Similarity(te, de); score >= m.Threshold {
				cands = append(cands, candidate{t: ti, d: di, score: score})
			}
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].score > cands[j].score
	})

	usedT := make(map[int]bool)
	usedD := make(map[int]bool)
	var matches []types.Match
	for _, c := range cands {
		if usedT[c.t] || usedD[c.d] {
			continue
		}
		usedT[c.t], usedD[c.d] = true, true
		matches = append(matches, types.Match{
			Template: template[c.t],
			Dest:     dest[c.d],
			Score:    c.score,
		})
	}
	return matches
}

// Similarity returns keyWeight*keySim + valueWeight*valueSim.
func (m *FuzzyMatcher) Similarity(t, d *types.MappingEntry) float64 {
	return m.KeyWeight*KeySimilarity(t.Name(), d.Name()) + m.ValueWeight*ValueSimilarity(t.Value, d.Value)
}

var keySeparators = strings.NewReplacer("_", "", "-", "", ".", "", " ", "")

func normalizeKey(k string) string {
	return keySeparators.Replace(strings.ToLower(k))
}

// KeySimilarity compares two keys after lowercasing and removing
// separator punctuation.
func KeySimilarity(a, b string) float64 {
	return StringSimilarity(normalizeKey(a), normalizeKey(b))
}

// ValueSimilarity compares two values of the same kind: scalars by string
// similarity, mappings by key-set overlap, sequences by length ratio.
func ValueSimilarity(a, b *types.NodeWrapper) float64 {
	if a.KindName() != b.KindName() {
		return 0
	}
	switch {
	case a.IsScalar():
		av, _ := a.ScalarValue()
		bv, _ := b.ScalarValue()
		return StringSimilarity(av, bv)
	case a.IsMapping():
		return jaccard(a.Keys(), b.Keys())
	case a.IsSequence():
		la, lb := a.Len(), b.Len()
		if la == 0 && lb == 0 {
			return 1.0
		}
		return float64(min(la, lb)) / float64(max(la, lb))
	default:
		return 0.5
	}
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, k := range a {
		set[k] = true
	}
	union := len(set)
	inter := 0
	seen := make(map[string]bool, len(b))
	for _, k := range b {
		if seen[k] {
			continue
		}
		seen[k] = true
		if set[k] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}
