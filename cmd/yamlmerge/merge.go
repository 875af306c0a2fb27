package yamlmerge

import (
	"fmt"

	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/config"
	"github.com/arthur-debert/yamlmerge/pkg/diffmap"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/merge"
	"github.com/arthur-debert/yamlmerge/pkg/ui/display"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// mergeFlags are the merge settings a command line can override.
type mergeFlags struct {
	prefer         string
	add            bool
	remove         bool
	noRecursive    bool
	maxDepth       int
	freezeToken    string
	fuzzy          bool
	fuzzyThreshold float64
}

func (f *mergeFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.prefer, "prefer", "destination", MsgFlagPrefer)
	fs.BoolVar(&f.add, "add", false, MsgFlagAdd)
	fs.BoolVar(&f.remove, "remove", false, MsgFlagRemove)
	fs.BoolVar(&f.noRecursive, "no-recursive", false, MsgFlagNoRecursive)
	fs.IntVar(&f.maxDepth, "max-depth", 0, MsgFlagMaxDepth)
	fs.StringVar(&f.freezeToken, "freeze-token", "yaml-merge", MsgFlagFreezeToken)
	fs.BoolVar(&f.fuzzy, "fuzzy", false, MsgFlagFuzzy)
	fs.Float64Var(&f.fuzzyThreshold, "fuzzy-threshold", 0, MsgFlagFuzzyThresh)
}

// overrides returns the configuration keys of the flags given on the
// command line. Flags left alone do not mask the configuration files.
func (f *mergeFlags) overrides(fs *pflag.FlagSet) map[string]interface{} {
	o := map[string]interface{}{}
	if fs.Changed("prefer") {
		o["merge.preference"] = f.prefer
	}
	if fs.Changed("add") {
		o["merge.add_template_only"] = f.add
	}
	if fs.Changed("remove") {
		o["merge.remove_template_missing"] = f.remove
	}
	if fs.Changed("no-recursive") {
		o["merge.recursive"] = !f.noRecursive
	}
	if fs.Changed("max-depth") {
		o["merge.max_depth"] = f.maxDepth
	}
	if fs.Changed("freeze-token") {
		o["freeze.token"] = f.freezeToken
	}
	if fs.Changed("fuzzy") {
		o["fuzzy.enabled"] = f.fuzzy
	}
	if fs.Changed("fuzzy-threshold") {
		o["fuzzy.threshold"] = f.fuzzyThreshold
		if !fs.Changed("fuzzy") {
			o["fuzzy.enabled"] = true
		}
	}
	return o
}

// mergeRun is a merge of two inputs named on the command line.
type mergeRun struct {
	cfg      *config.Config
	opts     merge.Options
	dest     string
	result   *merge.Result
	merged   string
	changed  bool
	destPath string
}

func (g *globals) runMerge(cmd *cobra.Command, mf *mergeFlags, tmplPath, destPath string) (*mergeRun, error) {
	if tmplPath == stdinPath && destPath == stdinPath {
		return nil, errors.New(errors.ErrInvalidInput, MsgErrStdinTwice)
	}
	cfg, err := g.loadConfig(cmd, mf.overrides(cmd.Flags()))
	if err != nil {
		return nil, err
	}
	opts, err := cfg.MergeOptions()
	if err != nil {
		return nil, err
	}

	tmpl, err := readInput(cmd, tmplPath, false)
	if err != nil {
		return nil, err
	}
	dest, err := readInput(cmd, destPath, true)
	if err != nil {
		return nil, err
	}

	res, err := merge.Merge(tmpl, dest, opts)
	if err != nil {
		return nil, err
	}
	merged := res.Text()
	return &mergeRun{
		cfg:      cfg,
		opts:     opts,
		dest:     dest,
		result:   res,
		merged:   merged,
		changed:  merged != withNewline(dest),
		destPath: destPath,
	}, nil
}

func newMergeCmd(g *globals) *cobra.Command {
	var (
		mf      mergeFlags
		write   bool
		output  string
		explain bool
		report  bool
	)

	cmd := &cobra.Command{
		Use:     "merge TEMPLATE DEST",
		Short:   MsgMergeShort,
		Long:    MsgMergeLong,
		Example: MsgMergeExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.merge")
			run, err := g.runMerge(cmd, &mf, args[0], args[1])
			if err != nil {
				return err
			}

			target := output
			if write {
				if args[1] == stdinPath {
					return errors.New(errors.ErrInvalidInput, MsgErrWriteStdin)
				}
				target = args[1]
			}

			if target != "" && !g.dryRun {
				if err := writeOutput(target, run.merged); err != nil {
					return err
				}
				logger.Info().Str("path", target).Bool("changed", run.changed).Msg("Merged document written")
			}

			if target == "" && !report && !explain {
				_, err := fmt.Fprint(cmd.OutOrStdout(), run.merged)
				return err
			}

			r, err := renderer(cmd, run.cfg)
			if err != nil {
				return err
			}
			rep := display.NewMergeReport("merge", run.result.MergeResult, run.changed)
			rep.Template = args[0]
			rep.Destination = args[1]
			rep.Output = target
			rep.DryRun = g.dryRun
			if explain {
				rep.WithLines(run.result.MergeResult)
			}
			return r.RenderMerge(rep)
		},
	}

	mf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWrite)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	cmd.Flags().BoolVar(&explain, "explain", false, MsgFlagExplain)
	cmd.Flags().BoolVar(&report, "report", false, MsgFlagReport)
	cmd.MarkFlagsMutuallyExclusive("write", "output")

	return cmd
}

func newDiffCmd(g *globals) *cobra.Command {
	var (
		mf      mergeFlags
		changes bool
	)

	cmd := &cobra.Command{
		Use:     "diff TEMPLATE DEST",
		Short:   MsgDiffShort,
		Long:    MsgDiffLong,
		GroupID: "core",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := g.runMerge(cmd, &mf, args[0], args[1])
			if err != nil {
				return err
			}

			rep, err := diffReport(run)
			if err != nil {
				return err
			}
			if !changes {
				rep.Changes = nil
			}

			r, err := renderer(cmd, run.cfg)
			if err != nil {
				return err
			}
			return r.RenderDiff(rep)
		},
	}

	mf.register(cmd.Flags())
	cmd.Flags().BoolVar(&changes, "changes", false, MsgFlagChanges)

	return cmd
}

// diffReport diffs the destination against the merge result and
// attributes each changed line to its key path.
func diffReport(run *mergeRun) (*display.DiffReport, error) {
	from, to := run.destPath, run.destPath+" (merged)"
	text, err := diffmap.Unified(withNewline(run.dest), run.merged, from, to)
	if err != nil {
		return nil, err
	}
	rep := &display.DiffReport{From: from, To: to, Diff: text}
	if text == "" {
		return rep, nil
	}

	after := analysis.New(run.merged, run.opts.AnalysisOptions())
	changes, err := diffmap.Map(text, run.result.Destination, after)
	if err != nil {
		return nil, err
	}
	rep.Changes = changes
	rep.Paths = diffmap.Summarize(changes)
	return rep, nil
}
