package config

import (
	"os"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides. Sections and keys are
// separated by a double underscore: YAMLMERGE_MERGE__MAX_DEPTH=2.
const EnvPrefix = "YAMLMERGE_"

// LoadOptions selects the layers Load reads.
type LoadOptions struct {
	// UserConfig is the user configuration file. Empty means the XDG
	// location; "-" skips the layer.
	UserConfig string
	// ProjectDir is where the .yamlmerge.toml lookup starts. Empty means
	// the working directory; "-" skips the layer.
	ProjectDir string
	// ConfigFile is an explicit file (--config). It must exist.
	ConfigFile string
	// Overrides are dotted keys set from command-line flags.
	Overrides map[string]interface{}
}

// Load builds the configuration from every layer, lowest priority first:
// embedded defaults, user file, project file, environment, explicit file,
// overrides.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User config
	userPath := opts.UserConfig
	if userPath == "" {
		userPath = paths.New().UserConfigPath()
	}
	if userPath != "-" {
		if err := loadOptionalFile(k, userPath); err != nil {
			return nil, err
		}
	}

	// 3. Project config
	if opts.ProjectDir != "-" {
		start := opts.ProjectDir
		if start == "" {
			start = "."
		}
		if projectPath, err := paths.FindProjectConfig(start); err == nil {
			if err := loadOptionalFile(k, projectPath); err != nil {
				return nil, err
			}
		}
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	// 5. Explicit file
	if opts.ConfigFile != "" {
		if _, err := os.Stat(opts.ConfigFile); err != nil {
			return nil, errors.Wrapf(err, errors.ErrFileNotFound, "config file %s not found", opts.ConfigFile).
				WithDetail("path", opts.ConfigFile)
		}
		if err := loadFile(k, opts.ConfigFile); err != nil {
			return nil, err
		}
	}

	// 6. Flags
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("preference", cfg.Merge.Preference.String()).
		Bool("recursive", cfg.Merge.Recursive).
		Str("freezeToken", cfg.Freeze.Token).
		Msg("Configuration loaded")
	return cfg, nil
}

// Default returns the embedded defaults alone.
func Default() (*Config, error) {
	return Load(LoadOptions{UserConfig: "-", ProjectDir: "-"})
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return loadFile(k, path)
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	logger := logging.GetLogger("config")
	logger.Trace().Str("path", path).Msg("Loaded config file")
	return nil
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}
