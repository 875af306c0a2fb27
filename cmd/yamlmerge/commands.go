package yamlmerge

import (
	"embed"
	"fmt"

	"github.com/arthur-debert/yamlmerge/internal/version"
	"github.com/arthur-debert/yamlmerge/pkg/cobrax/topics"
	"github.com/arthur-debert/yamlmerge/pkg/config"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// globals holds the persistent flags shared by every command.
type globals struct {
	verbosity  int
	configFile string
	format     string
	dryRun     bool
}

// loadConfig reads every configuration layer, with --format and the
// command's own overrides on top.
func (g *globals) loadConfig(cmd *cobra.Command, overrides map[string]interface{}) (*config.Config, error) {
	if overrides == nil {
		overrides = map[string]interface{}{}
	}
	if cmd.Flags().Changed("format") {
		overrides["output.format"] = g.format
	}
	return config.Load(config.LoadOptions{
		ConfigFile: g.configFile,
		Overrides:  overrides,
	})
}

// renderer builds the renderer for the configured output format.
func renderer(cmd *cobra.Command, cfg *config.Config) (ui.Renderer, error) {
	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return ui.NewRenderer(format, cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "yamlmerge",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "edit", Title: "EDITING:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newMergeCmd(g))
	rootCmd.AddCommand(newDiffCmd(g))
	rootCmd.AddCommand(newSetCmd(g))
	rootCmd.AddCommand(newReplaceCmd(g))
	rootCmd.AddCommand(newPathsCmd())
	rootCmd.AddCommand(newGenConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	manager, err := topics.Load(topicsFS, "topics", topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	if err == nil {
		rootCmd.AddCommand(newTopicsCmd(manager))
		manager.Install(rootCmd)
	} else {
		log.Warn().Err(err).Msg("Help topics unavailable")
	}

	return rootCmd
}

func newTopicsCmd(manager *topics.Manager) *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			manager.WriteIndex(cmd.OutOrStdout(), cmd.Root().Name())
		},
	}
}
