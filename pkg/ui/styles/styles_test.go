package styles

import (
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStylesCoverDecisions(t *testing.T) {
	for _, d := range types.AllDecisions {
		_, ok := registry[d.String()]
		assert.True(t, ok, "no style for %s", d)
	}
	for _, name := range []string{"Header", "Path", "Error", "DiffAdded", "DiffRemoved", "DiffHunk"} {
		_, ok := registry[name]
		assert.True(t, ok, "no style %s", name)
	}
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte(`
colors:
  accent: {light: "#000000", dark: "#ffffff"}
styles:
  Title:
    bold: true
    foreground: accent
    width: 10
    align: center
`))
	require.NoError(t, err)
	title := r.Get("Title")
	assert.True(t, title.GetBold())
	assert.Equal(t, 10, title.GetWidth())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid_yaml", "styles: ["},
		{"unknown_color", "styles:\n  A:\n    foreground: nope\n"},
		{"unknown_background", "styles:\n  A:\n    background: nope\n"},
		{"unknown_alignment", "styles:\n  A:\n    align: middle\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestGetUnknownIsPlain(t *testing.T) {
	assert.Equal(t, "text", Get("NoSuchStyle").Render("text"))
}
