package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/matching"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, types.Destination, cfg.Merge.Preference)
	assert.True(t, cfg.Merge.Recursive)
	assert.False(t, cfg.Merge.AddTemplateOnly)
	assert.False(t, cfg.Merge.RemoveTemplateMissing)
	assert.Equal(t, 0, cfg.Merge.MaxDepth)
	assert.Equal(t, "yaml-merge", cfg.Freeze.Token)
	assert.False(t, cfg.Fuzzy.Enabled)
	assert.Equal(t, 0.5, cfg.Fuzzy.Threshold)
	assert.Equal(t, 0.7, cfg.Fuzzy.KeyWeight)
	assert.Equal(t, 0.3, cfg.Fuzzy.ValueWeight)
	assert.Equal(t, "auto", cfg.Output.Format)
	assert.Empty(t, cfg.NodeTypes)
}

func TestLoadLayers(t *testing.T) {
	userDir := t.TempDir()
	projectDir := t.TempDir()
	explicitDir := t.TempDir()

	user := writeFile(t, userDir, "config.toml", `
[merge]
preference = "template"
max_depth = 3

[fuzzy]
enabled = true
`)
	writeFile(t, projectDir, ".yamlmerge.toml", `
[merge]
max_depth = 2

[node_types]
image = "version"
`)
	explicit := writeFile(t, explicitDir, "custom.toml", `
[freeze]
token = "keep"
`)
	t.Setenv("YAMLMERGE_MERGE__ADD_TEMPLATE_ONLY", "true")
	t.Setenv("YAMLMERGE_OUTPUT__FORMAT", "json")

	cfg, err := Load(LoadOptions{
		UserConfig: user,
		ProjectDir: projectDir,
		ConfigFile: explicit,
		Overrides:  map[string]interface{}{"merge.recursive": false},
	})
	require.NoError(t, err)

	assert.Equal(t, types.Template, cfg.Merge.Preference, "user file")
	assert.True(t, cfg.Fuzzy.Enabled, "user file")
	assert.Equal(t, 2, cfg.Merge.MaxDepth, "project file beats user file")
	assert.Equal(t, map[string]string{"image": "version"}, cfg.NodeTypes)
	assert.True(t, cfg.Merge.AddTemplateOnly, "environment")
	assert.Equal(t, "json", cfg.Output.Format, "environment")
	assert.Equal(t, "keep", cfg.Freeze.Token, "explicit file")
	assert.False(t, cfg.Merge.Recursive, "overrides")
}

func TestLoadProjectConfigFromParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".yamlmerge.toml", "[merge]\nremove_template_missing = true\n")
	nested := filepath.Join(root, "deploy", "prod")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := Load(LoadOptions{UserConfig: "-", ProjectDir: nested})
	require.NoError(t, err)
	assert.True(t, cfg.Merge.RemoveTemplateMissing)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		opts LoadOptions
		code errors.ErrorCode
	}{
		{
			name: "missing_explicit_file",
			opts: LoadOptions{UserConfig: "-", ProjectDir: "-", ConfigFile: filepath.Join(dir, "nope.toml")},
			code: errors.ErrFileNotFound,
		},
		{
			name: "broken_toml",
			opts: LoadOptions{UserConfig: writeFile(t, dir, "broken.toml", "[merge\n"), ProjectDir: "-"},
			code: errors.ErrConfigParse,
		},
		{
			name: "unknown_side",
			opts: LoadOptions{UserConfig: writeFile(t, dir, "side.toml", "[merge]\npreference = \"both\"\n"), ProjectDir: "-"},
			code: errors.ErrConfigParse,
		},
		{
			name: "invalid_value",
			opts: LoadOptions{UserConfig: "-", ProjectDir: "-", Overrides: map[string]interface{}{"merge.max_depth": -1}},
			code: errors.ErrConfigValid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err), err.Error())
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{name: "negative_depth", mutate: func(c *Config) { c.Merge.MaxDepth = -2 }, key: "merge.max_depth"},
		{name: "empty_token", mutate: func(c *Config) { c.Freeze.Token = "" }, key: "freeze.token"},
		{name: "token_with_space", mutate: func(c *Config) { c.Freeze.Token = "a b" }, key: "freeze.token"},
		{name: "threshold_range", mutate: func(c *Config) { c.Fuzzy.Threshold = 1.5 }, key: "fuzzy.threshold"},
		{name: "negative_weight", mutate: func(c *Config) { c.Fuzzy.ValueWeight = -1 }, key: "fuzzy.key_weight"},
		{name: "unknown_format", mutate: func(c *Config) { c.Output.Format = "xml" }, key: "output.format"},
		{name: "empty_node_type", mutate: func(c *Config) { c.NodeTypes = map[string]string{"image": " "} }, key: "node_types.image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
			assert.Equal(t, tt.key, errors.GetErrorDetails(err)["key"])
		})
	}
}

func TestMergeOptions(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Merge.Preference = types.Template
	cfg.Merge.AddTemplateOnly = true
	cfg.Merge.MaxDepth = 4
	cfg.Freeze.Token = "pin"
	cfg.Preferences = map[string]types.Side{"replicas": types.Destination}
	cfg.NodeTypes = map[string]string{"replicas": "replicas"}
	cfg.Fuzzy.Enabled = true
	cfg.Fuzzy.Threshold = 0.8

	opts, err := cfg.MergeOptions()
	require.NoError(t, err)

	assert.Equal(t, types.Template, opts.Preference.Default)
	assert.Equal(t, types.Destination, opts.Preference.For("replicas"))
	assert.True(t, opts.AddTemplateOnlyNodes)
	assert.False(t, opts.RemoveTemplateMissingNodes)
	assert.True(t, opts.Recursive)
	assert.Equal(t, 4, opts.MaxDepth)
	assert.Equal(t, "pin", opts.FreezeToken)
	require.NotNil(t, opts.Classifier)

	fm, ok := opts.Matcher.(*matching.FuzzyMatcher)
	require.True(t, ok)
	assert.Equal(t, 0.8, fm.Threshold)
	assert.Equal(t, 0.7, fm.KeyWeight)

	cfg.Fuzzy.Enabled = false
	opts, err = cfg.MergeOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.Matcher)

	cfg.Merge.MaxDepth = -1
	_, err = cfg.MergeOptions()
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
}

func TestGenerateConfigContent(t *testing.T) {
	content := GenerateConfigContent()
	assert.Contains(t, content, "[merge]")
	assert.Contains(t, content, `# preference = "destination"`)

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "[") {
			continue
		}
		t.Errorf("uncommented value line: %q", line)
	}
}

func TestCommentOutConfigValues(t *testing.T) {
	in := "# header\n[section]\nkey = 1\n\n  nested = \"x\"\n"
	want := "# header\n[section]\n# key = 1\n\n#   nested = \"x\"\n"
	assert.Equal(t, want, commentOutConfigValues(in))
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Merge.Preference = types.Template
	cfg.Merge.MaxDepth = 5
	cfg.Preferences = map[string]types.Side{"version": types.Template}
	cfg.NodeTypes = map[string]string{"image": "version"}

	data, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `preference = 'template'`)

	path := filepath.Join(t.TempDir(), "out.toml")
	require.NoError(t, WriteFile(path, data, false))

	loaded, err := Load(LoadOptions{UserConfig: "-", ProjectDir: "-", ConfigFile: path})
	require.NoError(t, err)
	assert.Equal(t, cfg.Merge, loaded.Merge)
	assert.Equal(t, cfg.Freeze, loaded.Freeze)
	assert.Equal(t, cfg.Fuzzy, loaded.Fuzzy)
	assert.Equal(t, cfg.Preferences, loaded.Preferences)
	assert.Equal(t, cfg.NodeTypes, loaded.NodeTypes)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	require.NoError(t, WriteFile(path, []byte("a = 1\n"), false))

	err := WriteFile(path, []byte("a = 2\n"), false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrFileWrite))

	require.NoError(t, WriteFile(path, []byte("a = 2\n"), true))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a = 2\n", string(data))
}
