package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
)

// Environment variable names
const (
	EnvConfigDir = "YAMLMERGE_CONFIG_DIR"
	EnvStateDir  = "YAMLMERGE_STATE_DIR"
	EnvHome      = "HOME"
)

// File and directory names. These are not configurable.
const (
	AppDirName        = "yamlmerge"
	UserConfigFile    = "config.toml"
	ProjectConfigFile = ".yamlmerge.toml"
	LogFileName       = "yamlmerge.log"
)

// Paths resolves the directories yamlmerge reads and writes.
type Paths struct {
	configDir string
	stateDir  string
}

// New resolves the directories from the environment and the XDG base
// directories.
func New() *Paths {
	p := &Paths{}

	if dir := os.Getenv(EnvConfigDir); dir != "" {
		p.configDir = ExpandHome(dir)
	} else {
		p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)
	}

	if dir := os.Getenv(EnvStateDir); dir != "" {
		p.stateDir = ExpandHome(dir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

// ConfigDir is the user configuration directory.
func (p *Paths) ConfigDir() string { return p.configDir }

// StateDir holds the log file.
func (p *Paths) StateDir() string { return p.stateDir }

// UserConfigPath is the user configuration file.
func (p *Paths) UserConfigPath() string {
	return filepath.Join(p.configDir, UserConfigFile)
}

// LogFilePath is the append-only log file.
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// FindProjectConfig walks from start up to the filesystem root and returns
// the first .yamlmerge.toml found.
func FindProjectConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to resolve %s", start)
	}
	for {
		candidate := filepath.Join(dir, ProjectConfigFile)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.Newf(errors.ErrNotFound, "no %s found above %s", ProjectConfigFile, start)
		}
		dir = parent
	}
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv(EnvHome)
		if home == "" {
			return path
		}
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
