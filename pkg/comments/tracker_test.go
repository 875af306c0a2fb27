package comments_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/comments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(src string) *comments.Tracker {
	return comments.NewTracker(strings.Split(src, "\n"))
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		want     bool
		fullLine bool
		text     string
		indent   int
	}{
		{name: "full_line", line: "# header", want: true, fullLine: true, text: "header"},
		{name: "indented_full_line", line: "    #  nested", want: true, fullLine: true, text: "nested", indent: 4},
		{name: "trailing", line: "key: value # note", want: true, text: "note", indent: 11},
		{name: "no_comment", line: "key: value", want: false},
		{name: "hash_without_space", line: "color: a#b", want: false},
		{name: "hash_in_double_quotes", line: `msg: "a # b"`, want: false},
		{name: "hash_in_single_quotes", line: `msg: 'a # b'`, want: false},
		{name: "after_closed_quotes", line: `msg: "a # b" # real`, want: true, text: "real", indent: 13},
		{name: "unbalanced_quote", line: `msg: "open # not`, want: false},
		{name: "escaped_quote", line: `msg: "say \"hi # there\""`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(tt.line)
			c, ok := tr.At(1)
			require.Equal(t, tt.want, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.fullLine, c.FullLine)
			assert.Equal(t, tt.text, c.Text)
			assert.Equal(t, tt.indent, c.Indent)
			assert.Equal(t, 1, c.Line)
		})
	}
}

func TestLeading(t *testing.T) {
	src := strings.Join([]string{
		"# unrelated",  // 1
		"",             // 2
		"# first",      // 3
		"# second",     // 4
		"key: value",   // 5
		"other: 1 # x", // 6
		"last: 2",      // 7
	}, "\n")
	tr := newTracker(src)

	leading := tr.Leading(5)
	require.Len(t, leading, 2)
	assert.Equal(t, "first", leading[0].Text)
	assert.Equal(t, "second", leading[1].Text)

	assert.Empty(t, tr.Leading(7), "trailing comments do not count as leading")
	assert.Empty(t, tr.Leading(1))
}

func TestQueries(t *testing.T) {
	tr := newTracker("# a\nk: v # b\nx: y\n# c")

	assert.True(t, tr.IsFullLine(1))
	assert.False(t, tr.IsFullLine(2))
	assert.False(t, tr.IsFullLine(3))

	trailing, ok := tr.Trailing(2)
	require.True(t, ok)
	assert.Equal(t, "# b", trailing.Raw)

	_, ok = tr.Trailing(1)
	assert.False(t, ok)

	inRange := tr.InRange(0, 100)
	require.Len(t, inRange, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{inRange[0].Line, inRange[1].Line, inRange[2].Line})

	assert.Empty(t, tr.InRange(3, 3))
	assert.Equal(t, 3, tr.Count())
}
