package config

import (
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/matching"
	"github.com/arthur-debert/yamlmerge/pkg/merge"
	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// Config is the complete yamlmerge configuration.
type Config struct {
	Merge  MergeConfig  `koanf:"merge" toml:"merge"`
	Freeze FreezeConfig `koanf:"freeze" toml:"freeze"`
	Fuzzy  FuzzyConfig  `koanf:"fuzzy" toml:"fuzzy"`
	Output OutputConfig `koanf:"output" toml:"output"`

	// Preferences maps node type names to a side.
	Preferences map[string]types.Side `koanf:"preferences" toml:"preferences"`
	// NodeTypes maps key names to node type names.
	NodeTypes map[string]string `koanf:"node_types" toml:"node_types"`
}

// MergeConfig holds the core merge switches.
type MergeConfig struct {
	Preference            types.Side `koanf:"preference" toml:"preference"`
	AddTemplateOnly       bool       `koanf:"add_template_only" toml:"add_template_only"`
	RemoveTemplateMissing bool       `koanf:"remove_template_missing" toml:"remove_template_missing"`
	Recursive             bool       `koanf:"recursive" toml:"recursive"`
	MaxDepth              int        `koanf:"max_depth" toml:"max_depth"`
}

// FreezeConfig configures freeze markers.
type FreezeConfig struct {
	Token string `koanf:"token" toml:"token"`
}

// FuzzyConfig configures similarity matching of renamed keys.
type FuzzyConfig struct {
	Enabled     bool    `koanf:"enabled" toml:"enabled"`
	Threshold   float64 `koanf:"threshold" toml:"threshold"`
	KeyWeight   float64 `koanf:"key_weight" toml:"key_weight"`
	ValueWeight float64 `koanf:"value_weight" toml:"value_weight"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"`
}

// OutputFormats lists the accepted output.format values.
var OutputFormats = []string{"auto", "term", "text", "json"}

// Validate checks every value that cannot be enforced by decoding.
func (c *Config) Validate() error {
	if c.Merge.MaxDepth < 0 {
		return invalid("merge.max_depth", c.Merge.MaxDepth, "must not be negative")
	}

	token := c.Freeze.Token
	if token == "" || strings.ContainsAny(token, " \t\n") {
		return invalid("freeze.token", token, "must be a single non-empty word")
	}

	if c.Fuzzy.Threshold < 0 || c.Fuzzy.Threshold > 1 {
		return invalid("fuzzy.threshold", c.Fuzzy.Threshold, "must be between 0 and 1")
	}
	if c.Fuzzy.KeyWeight < 0 || c.Fuzzy.ValueWeight < 0 {
		return invalid("fuzzy.key_weight", c.Fuzzy.KeyWeight, "weights must not be negative")
	}

	valid := false
	for _, f := range OutputFormats {
		if c.Output.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return invalid("output.format", c.Output.Format, "must be one of "+strings.Join(OutputFormats, ", "))
	}
	for typ := range c.NodeTypes {
		if strings.TrimSpace(c.NodeTypes[typ]) == "" {
			return invalid("node_types."+typ, "", "type name must not be empty")
		}
	}
	return nil
}

func invalid(key string, value interface{}, reason string) error {
	return errors.Newf(errors.ErrConfigValid, "invalid %s: %s", key, reason).
		WithDetail("key", key).
		WithDetail("value", value)
}

// MergeOptions converts the configuration into merge options.
func (c *Config) MergeOptions() (merge.Options, error) {
	if err := c.Validate(); err != nil {
		return merge.Options{}, err
	}

	opts := merge.Options{
		Preference:                 merge.Preference{Default: c.Merge.Preference},
		AddTemplateOnlyNodes:       c.Merge.AddTemplateOnly,
		RemoveTemplateMissingNodes: c.Merge.RemoveTemplateMissing,
		Recursive:                  c.Merge.Recursive,
		MaxDepth:                   c.Merge.MaxDepth,
		FreezeToken:                c.Freeze.Token,
	}

	if len(c.Preferences) > 0 {
		opts.Preference.ByType = make(map[string]types.Side, len(c.Preferences))
		for typ, side := range c.Preferences {
			opts.Preference.ByType[typ] = side
		}
	}
	if len(c.NodeTypes) > 0 {
		opts.Classifier = merge.ClassifyByKey(c.NodeTypes)
	}
	if c.Fuzzy.Enabled {
		opts.Matcher = &matching.FuzzyMatcher{
			Threshold:   c.Fuzzy.Threshold,
			KeyWeight:   c.Fuzzy.KeyWeight,
			ValueWeight: c.Fuzzy.ValueWeight,
		}
	}
	return opts, nil
}
