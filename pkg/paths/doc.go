// Package paths locates yamlmerge's files.
//
// User configuration lives under the XDG config home and the log file
// under the XDG state home. A project configuration file, .yamlmerge.toml,
// is looked up from the working directory upward.
//
// # Environment Variables
//
//   - YAMLMERGE_CONFIG_DIR: Override the config directory (default: $XDG_CONFIG_HOME/yamlmerge)
//   - YAMLMERGE_STATE_DIR: Override the state directory (default: $XDG_STATE_HOME/yamlmerge)
package paths
