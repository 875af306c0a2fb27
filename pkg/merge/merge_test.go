package merge_test

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/matching"
	"github.com/arthur-debert/yamlmerge/pkg/merge"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

func mustMerge(t *testing.T, tmpl, dest string, opts merge.Options) string {
	t.Helper()
	out, err := merge.MergeText(tmpl, dest, opts)
	require.NoError(t, err)
	var check yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &check), "merged output must parse:\n%s", out)
	return out
}

func withOpts(mod func(*merge.Options)) merge.Options {
	o := merge.DefaultOptions()
	mod(&o)
	return o
}

func TestPreference(t *testing.T) {
	tests := []struct {
		name     string
		opts     merge.Options
		contains string
		excludes string
	}{
		{
			name:     "default_keeps_destination",
			opts:     merge.DefaultOptions(),
			contains: "B",
			excludes: "A",
		},
		{
			name:     "zero_options_keep_destination",
			opts:     merge.Options{},
			contains: "B",
			excludes: "A",
		},
		{
			name:     "template_preference",
			opts:     withOpts(func(o *merge.Options) { o.Preference = merge.PreferTemplate() }),
			contains: "A",
			excludes: "B",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustMerge(t, "k: A", "k: B", tt.opts)
			assert.Contains(t, out, tt.contains)
			assert.NotContains(t, out, tt.excludes)
		})
	}
}

func TestDestinationOnlyPreserved(t *testing.T) {
	out := mustMerge(t, "k: A", "k: A\nextra: X", merge.DefaultOptions())
	assert.Contains(t, out, "extra: X")
}

func TestTemplateOnlyGating(t *testing.T) {
	tmpl := "k: A\nnew: N"
	dest := "k: A"

	out := mustMerge(t, tmpl, dest, merge.DefaultOptions())
	assert.NotContains(t, out, "new")

	out = mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, "k: A\nnew: N\n", out)
}

func TestRemoveTemplateMissing(t *testing.T) {
	out := mustMerge(t, "keep: 1\n", "keep: 2\ngone: 3\n", withOpts(func(o *merge.Options) {
		o.RemoveTemplateMissingNodes = true
	}))
	assert.Equal(t, "keep: 2\n", out)
}

func TestOutputEndsWithSingleNewline(t *testing.T) {
	out := mustMerge(t, "k: A", "k: B", merge.DefaultOptions())
	assert.Equal(t, "k: B\n", out)

	out, err := merge.MergeText("", "", merge.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", out)

	assert.Equal(t, "k: B\n", mustMerge(t, "k: A\n", "k: B\n\n\n", merge.DefaultOptions()))
	assert.Equal(t, "k: B\n# end\n", mustMerge(t, "k: A\n", "k: B\n# end\n\n  \n", merge.DefaultOptions()))
}

func TestMergeIsQuietByDefault(t *testing.T) {
	var buf bytes.Buffer
	original := log.Logger
	defer func() { log.Logger = original }()
	log.Logger = zerolog.New(&buf)

	mustMerge(t, "a: 1\nb: 2\n", "a: 3\n", withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, logging.DefaultLevel, zerolog.GlobalLevel())
	assert.Empty(t, buf.String())
}

func TestEmptyDestination(t *testing.T) {
	out, err := merge.MergeText("a: 1\n", "", merge.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "", out)

	out = mustMerge(t, "a: 1\n", "", withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, "a: 1\n", out)

	out = mustMerge(t, "a: 1\n", "# nothing yet\n", withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, "# nothing yet\na: 1\n", out)
}

func TestCommentsAndFormattingKept(t *testing.T) {
	dest := lines(
		"# Service settings",
		"",
		"# the port",
		"port: 8080 # custom",
		"",
		"# display name",
		"name: 'svc'",
		"",
		"# end of file",
	)
	tmpl := lines(
		"name: default",
		"port: 80",
	)
	out := mustMerge(t, tmpl, dest, merge.DefaultOptions())
	assert.Equal(t, dest, out)
	assert.Contains(t, out, "# the port\nport: 8080 # custom")
	assert.Contains(t, out, "# display name\nname: 'svc'")
}

func TestRecursiveMapping(t *testing.T) {
	tmpl := lines(
		"server:",
		"  host: 0.0.0.0",
		"  port: 80",
		"  tls: true",
	)
	dest := lines(
		"# server block",
		"server:",
		"  port: 8080   # custom",
		"  host: example.com",
	)

	res, err := merge.Merge(tmpl, dest, withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	require.NoError(t, err)
	assert.Equal(t, lines(
		"# server block",
		"server:",
		"  port: 8080   # custom",
		"  host: example.com",
		"  tls: true",
	), res.Text())

	assert.Equal(t, 2, res.Count(types.Merged))
	assert.Equal(t, 2, res.Count(types.KeptDestination))
	assert.Equal(t, 1, res.Count(types.Added))

	added, ok := res.LineAt(5)
	require.True(t, ok)
	assert.Equal(t, types.FromTemplate, added.Source)
	assert.Equal(t, 4, added.OriginalLine)
}

func TestRecursionDisabledReplacesWholesale(t *testing.T) {
	tmpl := "server:\n  host: a\n  port: 80\n"
	dest := "server:\n  host: b\n"

	out := mustMerge(t, tmpl, dest, merge.Options{Preference: merge.PreferTemplate()})
	assert.Equal(t, tmpl, out)

	out = mustMerge(t, tmpl, dest, merge.Options{AddTemplateOnlyNodes: true})
	assert.Equal(t, dest, out, "without recursion nested additions are not reached")
}

func TestMaxDepth(t *testing.T) {
	tmpl := lines("a:", "  b:", "    c: 1", "    d: 2")
	dest := lines("a:", "  b:", "    c: 9")

	out := mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) {
		o.AddTemplateOnlyNodes = true
		o.MaxDepth = 1
	}))
	assert.Equal(t, dest, out)

	out = mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, lines("a:", "  b:", "    c: 9", "    d: 2"), out)
}

func TestNestedAdditionsAreReindented(t *testing.T) {
	tmpl := lines("db:", "    host: x", "    user: admin")
	dest := lines("db:", "  host: y")

	out := mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, lines("db:", "  host: y", "  user: admin"), out)
}

func TestSequenceUnion(t *testing.T) {
	tmpl := lines("items:", "  - a", "  - b", "  - c")
	dest := lines("items:", "  - c", "  - x")

	tests := []struct {
		name string
		mod  func(*merge.Options)
		want string
	}{
		{
			name: "keep_destination_items",
			mod:  func(o *merge.Options) {},
			want: dest,
		},
		{
			name: "add_missing_scalars",
			mod:  func(o *merge.Options) { o.AddTemplateOnlyNodes = true },
			want: lines("items:", "  - c", "  - x", "  - a", "  - b"),
		},
		{
			name: "remove_scalars_missing_from_template",
			mod:  func(o *merge.Options) { o.RemoveTemplateMissingNodes = true },
			want: lines("items:", "  - c"),
		},
		{
			name: "add_and_remove",
			mod: func(o *merge.Options) {
				o.AddTemplateOnlyNodes = true
				o.RemoveTemplateMissingNodes = true
			},
			want: lines("items:", "  - c", "  - a", "  - b"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mustMerge(t, tmpl, dest, withOpts(tt.mod)))
		})
	}
}

func TestSequenceNonScalarItemsNotDeduplicated(t *testing.T) {
	tmpl := lines("list:", "  - name: a", "  - z")
	dest := lines("list:", "  - name: a")

	out := mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) {
		o.AddTemplateOnlyNodes = true
		o.RemoveTemplateMissingNodes = true
	}))
	assert.Equal(t, lines("list:", "  - name: a", "  - name: a", "  - z"), out)
}

func TestRootSequence(t *testing.T) {
	out := mustMerge(t, "- a\n- b\n", "- b\n- c\n", withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, "- b\n- c\n- a\n", out)
}

func TestRootScalar(t *testing.T) {
	assert.Equal(t, "world\n", mustMerge(t, "hello\n", "world\n", merge.DefaultOptions()))
	assert.Equal(t, "hello\n", mustMerge(t, "hello\n", "world\n", withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferTemplate()
	})))
}

func TestFreezeBlockInviolable(t *testing.T) {
	frozen := lines(
		"# yaml-merge:freeze",
		"secret:   keep   ",
		"token: abc # do not touch",
		"# yaml-merge:unfreeze",
	)
	dest := "name: app\n" + frozen + "port: 1\n"
	tmpl := lines("name: tmpl", "secret: other", "port: 2", "new: x")

	configs := map[string]merge.Options{
		"default": merge.DefaultOptions(),
		"template_everything": withOpts(func(o *merge.Options) {
			o.Preference = merge.PreferTemplate()
			o.AddTemplateOnlyNodes = true
			o.RemoveTemplateMissingNodes = true
		}),
		"flat_template": {Preference: merge.PreferTemplate(), RemoveTemplateMissingNodes: true},
	}
	for name, opts := range configs {
		t.Run(name, func(t *testing.T) {
			out := mustMerge(t, tmpl, dest, opts)
			assert.Contains(t, out, frozen)
			assert.Equal(t, 1, strings.Count(out, "secret:"))
		})
	}

	out := mustMerge(t, tmpl, dest, configs["template_everything"])
	assert.Equal(t, "name: tmpl\n"+frozen+"port: 2\nnew: x\n", out)
}

func TestNestedFreezeBlockInviolable(t *testing.T) {
	dest := lines(
		"db:",
		"  host: prod",
		"  # yaml-merge:freeze",
		"  password: hunter2",
		"  # yaml-merge:unfreeze",
		"  port: 5432",
	)
	tmpl := lines(
		"db:",
		"  host: dev",
		"  password: changeme",
		"  port: 1",
		"  user: admin",
	)
	want := lines(
		"db:",
		"  host: dev",
		"  # yaml-merge:freeze",
		"  password: hunter2",
		"  # yaml-merge:unfreeze",
		"  port: 1",
		"  user: admin",
	)

	opts := withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferTemplate()
		o.AddTemplateOnlyNodes = true
	})
	assert.Equal(t, want, mustMerge(t, tmpl, dest, opts))

	// Without recursion the entry holding the freeze block is still
	// entered instead of being replaced.
	opts.Recursive = false
	assert.Contains(t, mustMerge(t, tmpl, dest, opts), "  password: hunter2\n")
}

func TestSequenceFreezeBlockInviolable(t *testing.T) {
	nestedFrozen := lines(
		"  # yaml-merge:freeze",
		"  - b",
		"  # yaml-merge:unfreeze",
	)
	rootFrozen := lines(
		"# yaml-merge:freeze",
		"- b",
		"# yaml-merge:unfreeze",
	)
	add := withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true })
	remove := withOpts(func(o *merge.Options) { o.RemoveTemplateMissingNodes = true })
	everything := withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferTemplate()
		o.AddTemplateOnlyNodes = true
		o.RemoveTemplateMissingNodes = true
	})
	flat := everything
	flat.Recursive = false

	tests := []struct {
		name   string
		tmpl   string
		dest   string
		opts   merge.Options
		frozen string
		want   string
	}{
		{
			name:   "nested_add_after_block",
			tmpl:   lines("l:", "  - a", "  - c"),
			dest:   "l:\n  - a\n" + nestedFrozen,
			opts:   add,
			frozen: nestedFrozen,
			want:   "l:\n  - a\n" + nestedFrozen + "  - c\n",
		},
		{
			name:   "nested_remove_neighbour",
			tmpl:   lines("l:", "  - z"),
			dest:   "l:\n" + nestedFrozen + "  - a\n",
			opts:   remove,
			frozen: nestedFrozen,
			want:   "l:\n" + nestedFrozen,
		},
		{
			name:   "nested_template_everything",
			tmpl:   lines("l:", "  - b", "  - z"),
			dest:   "l:\n  - a\n" + nestedFrozen,
			opts:   everything,
			frozen: nestedFrozen,
			want:   "l:\n" + nestedFrozen + "  - z\n",
		},
		{
			name:   "nested_without_recursion",
			tmpl:   lines("l:", "  - b", "  - z"),
			dest:   "l:\n  - a\n" + nestedFrozen,
			opts:   flat,
			frozen: nestedFrozen,
			want:   "l:\n" + nestedFrozen + "  - z\n",
		},
		{
			name:   "root_add_after_block",
			tmpl:   lines("- a", "- c"),
			dest:   "- a\n" + rootFrozen,
			opts:   add,
			frozen: rootFrozen,
			want:   "- a\n" + rootFrozen + "- c\n",
		},
		{
			name:   "root_remove_neighbour",
			tmpl:   lines("- z"),
			dest:   rootFrozen + "- a\n",
			opts:   remove,
			frozen: rootFrozen,
			want:   rootFrozen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := mustMerge(t, tt.tmpl, tt.dest, tt.opts)
			assert.Contains(t, out, tt.frozen)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFreezeResult(t *testing.T) {
	dest := "a: 1\n# yaml-merge:freeze\nb: 2\n# yaml-merge:unfreeze\n"
	res, err := merge.Merge("a: 0\nb: 0\n", dest, merge.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 3, res.Count(types.FreezeBlockDecision))
	assert.Equal(t, 1, res.Count(types.KeptDestination))
}

func TestCustomFreezeToken(t *testing.T) {
	dest := "# keep:freeze\na: 1\n# keep:unfreeze\n"
	out := mustMerge(t, "a: 2\n", dest, withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferTemplate()
		o.FreezeToken = "keep"
	}))
	assert.Equal(t, dest, out)
}

func TestIdempotence(t *testing.T) {
	tmpl := lines(
		"# header",
		"name: tmpl",
		"server:",
		"  host: 0.0.0.0",
		"  ports:",
		"    - 80",
		"    - 443",
		"  tls: true",
		"extra: x",
	)
	dest := lines(
		"# my config",
		"",
		"name: mine # keep",
		"server:",
		"  # where to listen",
		"  host: localhost",
		"  ports:",
		"    - 8080",
		"  # yaml-merge:freeze",
		"  secret: s",
		"  # yaml-merge:unfreeze",
		"local: true",
		"script: |",
		"  echo hi",
		"",
		"  echo bye",
	)

	configs := map[string]merge.Options{
		"default": merge.DefaultOptions(),
		"add":     withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }),
		"template_add_remove": withOpts(func(o *merge.Options) {
			o.Preference = merge.PreferTemplate()
			o.AddTemplateOnlyNodes = true
			o.RemoveTemplateMissingNodes = true
		}),
	}
	for name, opts := range configs {
		t.Run(name, func(t *testing.T) {
			once := mustMerge(t, tmpl, dest, opts)
			twice := mustMerge(t, once, once, opts)
			assert.Equal(t, once, twice)
		})
	}
}

func TestFuzzyMatcher(t *testing.T) {
	tmpl := "max_connections: 100\n"
	dest := "maxConnections: 50\n"

	out := mustMerge(t, tmpl, dest, withOpts(func(o *merge.Options) { o.AddTemplateOnlyNodes = true }))
	assert.Equal(t, "maxConnections: 50\nmax_connections: 100\n", out, "no matcher, both keys survive")

	withMatcher := withOpts(func(o *merge.Options) {
		o.AddTemplateOnlyNodes = true
		o.Matcher = matching.NewFuzzyMatcher()
	})
	assert.Equal(t, dest, mustMerge(t, tmpl, dest, withMatcher))

	withMatcher.Preference = merge.PreferTemplate()
	assert.Equal(t, tmpl, mustMerge(t, tmpl, dest, withMatcher))
}

func TestPerTypePreference(t *testing.T) {
	opts := withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferByType(types.Destination, map[string]types.Side{"version": types.Template})
		o.Classifier = merge.ClassifyByKey(map[string]string{"image": "version"})
	})
	out := mustMerge(t, "image: v2\nreplicas: 1\n", "image: v1\nreplicas: 5\n", opts)
	assert.Equal(t, "image: v2\nreplicas: 5\n", out)

	// The "default" entry governs unclassified statements.
	opts.Preference.ByType["default"] = types.Template
	out = mustMerge(t, "image: v2\nreplicas: 1\n", "image: v1\nreplicas: 5\n", opts)
	assert.Equal(t, "image: v2\nreplicas: 1\n", out)
}

func TestSignatureOverride(t *testing.T) {
	opts := withOpts(func(o *merge.Options) {
		o.Preference = merge.PreferTemplate()
		o.SignatureFunc = func(s types.Statement) types.SignatureResult {
			if e, ok := s.(*types.MappingEntry); ok {
				return types.CustomSignature(types.NewSignature(types.CustomTag, strings.ToLower(e.Name())))
			}
			return types.UseDefaultSignature()
		}
	})
	assert.Equal(t, "Name: a\n", mustMerge(t, "Name: a\n", "name: b\n", opts))
}

func TestParseFailure(t *testing.T) {
	tests := []struct {
		name     string
		tmpl     string
		dest     string
		wantSide errors.Side
	}{
		{name: "template", tmpl: "a: [\n", dest: "a: 1\n", wantSide: errors.SideTemplate},
		{name: "destination", tmpl: "a: 1\n", dest: "a: b: c\n", wantSide: errors.SideDestination},
		{name: "both_reports_template", tmpl: "a: [\n", dest: "a: [\n", wantSide: errors.SideTemplate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := merge.Merge(tt.tmpl, tt.dest, merge.DefaultOptions())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.IsErrorCode(err, errors.ErrParse))

			var pf *errors.ParseFailure
			require.True(t, stderrors.As(err, &pf))
			assert.Equal(t, tt.wantSide, pf.Side)
			assert.NotEmpty(t, pf.Errors)
		})
	}
}
