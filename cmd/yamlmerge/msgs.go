package yamlmerge

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Merge YAML documents without losing comments or layout"
	MsgMergeShort      = "Merge a template into a destination document"
	MsgDiffShort       = "Show what a merge would change"
	MsgSetShort        = "Set the value at a key path"
	MsgReplaceShort    = "Replace the value at a key path"
	MsgPathsShort      = "Show the configuration and log locations"
	MsgGenConfigShort  = "Print or write a configuration file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Print the man page"
	MsgTopicsShort     = "List the available help topics"

	// Status messages
	MsgConfigWritten = "Wrote configuration to %s"
	MsgPathsFormat   = "config dir:      %s\nuser config:     %s\nproject config:  %s\nlog file:        %s\n"
	MsgNoProject     = "(none)"

	// Error messages
	MsgErrReadInput   = "failed to read %s"
	MsgErrWriteOutput = "failed to write %s"
	MsgErrStdinTwice  = "standard input can be read only once"
	MsgErrWriteStdin  = "--write needs a file, not standard input"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig       = "Read configuration from this file as well"
	MsgFlagFormat       = "Report format: auto, term, text or json"
	MsgFlagDryRun       = "With --write, report without writing"
	MsgFlagPrefer       = "Side kept on conflicts: destination or template"
	MsgFlagAdd          = "Add keys and items only present in the template"
	MsgFlagRemove       = "Remove keys and items missing from the template"
	MsgFlagNoRecursive  = "Settle nested values as a whole instead of merging them"
	MsgFlagMaxDepth     = "Stop recursing below this depth (0 means unlimited)"
	MsgFlagFreezeToken  = "Word used in freeze markers"
	MsgFlagFuzzy        = "Match renamed keys by similarity"
	MsgFlagFuzzyThresh  = "Minimum similarity for a fuzzy match (0 to 1)"
	MsgFlagWrite        = "Write the result back to the destination file"
	MsgFlagOutput       = "Write the result to this file"
	MsgFlagExplain      = "Report the decision behind every output line"
	MsgFlagReport       = "Print a report instead of the merged document"
	MsgFlagComment      = "Comment written above the value"
	MsgFlagFolded       = "Write multi-line values as folded (>) block scalars"
	MsgFlagEffective    = "Print the configuration in force instead of the defaults"
	MsgFlagWriteConfig  = "Write to the user configuration file"
	MsgFlagForce        = "Overwrite an existing configuration file"
	MsgFlagWriteFile    = "Write the result back to FILE"
	MsgFlagChanges      = "Include every changed line in JSON reports"
	MsgFlagVersionShort = "Print only the version number"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/merge-long.txt
	msgMergeLongRaw string
	MsgMergeLong    = strings.TrimSpace(msgMergeLongRaw)

	//go:embed msgs/merge-example.txt
	msgMergeExampleRaw string
	MsgMergeExample    = strings.TrimRight(msgMergeExampleRaw, "\n")

	//go:embed msgs/diff-long.txt
	msgDiffLongRaw string
	MsgDiffLong    = strings.TrimSpace(msgDiffLongRaw)

	//go:embed msgs/set-long.txt
	msgSetLongRaw string
	MsgSetLong    = strings.TrimSpace(msgSetLongRaw)

	//go:embed msgs/set-example.txt
	msgSetExampleRaw string
	MsgSetExample    = strings.TrimRight(msgSetExampleRaw, "\n")

	//go:embed msgs/replace-long.txt
	msgReplaceLongRaw string
	MsgReplaceLong    = strings.TrimSpace(msgReplaceLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
