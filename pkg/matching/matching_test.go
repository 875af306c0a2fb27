package matching

import (
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statements(t *testing.T, src string) []types.Statement {
	t.Helper()
	a := analysis.New(src, analysis.Options{})
	require.True(t, a.Valid(), "source must parse: %v", a.Errors())
	return a.Statements()
}

func entry(t *testing.T, src string) *types.MappingEntry {
	t.Helper()
	stmts := statements(t, src)
	require.Len(t, stmts, 1)
	e, ok := stmts[0].(*types.MappingEntry)
	require.True(t, ok)
	return e
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"same", "same", 0},
		{"héllo", "hello", 1},
	}
	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a))
		})
	}
}

func TestKeySimilarity(t *testing.T) {
	assert.Equal(t, 1.0, KeySimilarity("max_connections", "MaxConnections"))
	assert.Equal(t, 1.0, KeySimilarity("log-level", "log.level"))
	assert.InDelta(t, 0.75, KeySimilarity("port", "post"), 1e-9)
	assert.Equal(t, 0.0, KeySimilarity("abc", "xyz"))
}

func TestValueSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "equal_scalars", a: "k: 8080\n", b: "k: 8080\n", want: 1.0},
		{name: "kinds_differ", a: "k: 1\n", b: "k:\n  - 1\n", want: 0},
		{name: "mapping_overlap", a: "k:\n  a: 1\n  b: 2\n", b: "k:\n  b: 3\n  c: 4\n", want: 1.0 / 3.0},
		{name: "empty_mappings", a: "k: {}\n", b: "k: {}\n", want: 1.0},
		{name: "one_empty_mapping", a: "k: {}\n", b: "k:\n  a: 1\n", want: 0},
		{name: "sequence_lengths", a: "k:\n  - 1\n  - 2\n", b: "k:\n  - 1\n  - 2\n  - 3\n  - 4\n", want: 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValueSimilarity(entry(t, tt.a).Value, entry(t, tt.b).Value)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSignatureIndex(t *testing.T) {
	src := "a: 1\n# yaml-merge:freeze\nb: 2\n# yaml-merge:unfreeze\nc: 3\n"
	stmts := statements(t, src)
	require.Len(t, stmts, 3)

	idx := NewSignatureIndex(stmts, analysis.DefaultSignature)
	assert.Equal(t, 2, idx.Len(), "freeze blocks are not indexed")
	assert.True(t, idx.Has(types.NewSignature(types.EntryTag, "a")))
	assert.True(t, idx.Has(types.NewSignature(types.EntryTag, "c")))
	assert.False(t, idx.Has(types.NewSignature(types.EntryTag, "b")))
	assert.Same(t, stmts[0], idx.Lookup(types.NewSignature(types.EntryTag, "a"))[0])
}

func TestFuzzyMatcher_PairsRenamedKeys(t *testing.T) {
	tmpl := statements(t, "max_connections: 100\nlog_level: info\n")
	dest := statements(t, "maxConnections: 50\nlogLevel: debug\n")

	matches := NewFuzzyMatcher().Match(tmpl, dest)
	require.Len(t, matches, 2)
	names := map[string]string{}
	for _, m := range matches {
		names[m.Template.(*types.MappingEntry).Name()] = m.Dest.(*types.MappingEntry).Name()
		assert.GreaterOrEqual(t, m.Score, DefaultThreshold)
	}
	assert.Equal(t, "maxConnections", names["max_connections"])
	assert.Equal(t, "logLevel", names["log_level"])
}

func TestFuzzyMatcher_BelowThreshold(t *testing.T) {
	tmpl := statements(t, "alpha: 1\n")
	dest := statements(t, "zzzzz: [1, 2]\n")
	assert.Empty(t, NewFuzzyMatcher().Match(tmpl, dest))
}

func TestFuzzyMatcher_Greedy(t *testing.T) {
	// Both template keys are close to the single "hostname" entry; only the
	// best one may claim it.
	tmpl := statements(t, "host_name: a\nhostnames: b\n")
	dest := statements(t, "hostname: a\n")

	matches := NewFuzzyMatcher().Match(tmpl, dest)
	require.Len(t, matches, 1)
	assert.Equal(t, "host_name", matches[0].Template.(*types.MappingEntry).Name())
}

func TestFuzzyMatcher_EachStatementUsedOnce(t *testing.T) {
	tmpl := statements(t, "db_host: x\ndb_port: 1\ndb_user: u\ndb_name: n\n")
	dest := statements(t, "dbHost: x\ndbPort: 2\ndbUser: v\ndbPass: p\n")

	matches := NewFuzzyMatcher().Match(tmpl, dest)
	seenT := map[types.Statement]bool{}
	seenD := map[types.Statement]bool{}
	for _, m := range matches {
		assert.False(t, seenT[m.Template])
		assert.False(t, seenD[m.Dest])
		seenT[m.Template], seenD[m.Dest] = true, true
	}
}

func TestFuzzyMatcher_IgnoresNonEntries(t *testing.T) {
	tmpl := statements(t, "- a\n- b\n")
	dest := statements(t, "- a\n")
	assert.Empty(t, NewFuzzyMatcher().Match(tmpl, dest))
}
