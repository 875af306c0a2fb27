package yamlmerge

import (
	"fmt"

	"github.com/arthur-debert/yamlmerge/pkg/config"
	"github.com/arthur-debert/yamlmerge/pkg/emit"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/navigator"
	"github.com/arthur-debert/yamlmerge/pkg/ui/display"
	"github.com/spf13/cobra"
)

// finishEdit prints the edited document, or writes it back to file and
// reports what was written.
func (g *globals) finishEdit(cmd *cobra.Command, cfg *config.Config, command, file, before string, res *emit.MergeResult, write bool) error {
	out := res.Text()
	changed := out != withNewline(before)

	if !write {
		_, err := fmt.Fprint(cmd.OutOrStdout(), out)
		return err
	}
	if file == stdinPath {
		return errors.New(errors.ErrInvalidInput, MsgErrWriteStdin)
	}
	if !g.dryRun && changed {
		if err := writeOutput(file, out); err != nil {
			return err
		}
		logger := logging.GetLogger("cmd." + command)
		logger.Info().Str("path", file).Msg("Document updated")
	}

	r, err := renderer(cmd, cfg)
	if err != nil {
		return err
	}
	rep := display.NewMergeReport(command, res, changed)
	rep.Destination = file
	rep.Output = file
	rep.DryRun = g.dryRun
	return r.RenderMerge(rep)
}

func newSetCmd(g *globals) *cobra.Command {
	var (
		comment string
		folded  bool
		write   bool
	)

	cmd := &cobra.Command{
		Use:     "set FILE PATH VALUE",
		Short:   MsgSetShort,
		Long:    MsgSetLong,
		Example: MsgSetExample,
		GroupID: "edit",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			path, err := navigator.ParsePath(args[1])
			if err != nil {
				return err
			}
			content, err := readInput(cmd, args[0], true)
			if err != nil {
				return err
			}

			opts := navigator.SetOptions{
				Comment:     comment,
				Style:       emit.Literal,
				FreezeToken: cfg.Freeze.Token,
			}
			if folded {
				opts.Style = emit.Folded
			}
			res, err := navigator.Set(content, path, args[2], opts)
			if err != nil {
				return err
			}
			return g.finishEdit(cmd, cfg, "set", args[0], content, res, write)
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", MsgFlagComment)
	cmd.Flags().BoolVar(&folded, "folded", false, MsgFlagFolded)
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWriteFile)

	return cmd
}

func newReplaceCmd(g *globals) *cobra.Command {
	var (
		mf    mergeFlags
		write bool
	)

	cmd := &cobra.Command{
		Use:     "replace FILE PATH [SOURCE]",
		Short:   MsgReplaceShort,
		Long:    MsgReplaceLong,
		GroupID: "edit",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := stdinPath
			if len(args) == 3 {
				source = args[2]
			}
			if source == stdinPath && args[0] == stdinPath {
				return errors.New(errors.ErrInvalidInput, MsgErrStdinTwice)
			}

			cfg, err := g.loadConfig(cmd, mf.overrides(cmd.Flags()))
			if err != nil {
				return err
			}
			opts, err := cfg.MergeOptions()
			if err != nil {
				return err
			}
			path, err := navigator.ParsePath(args[1])
			if err != nil {
				return err
			}
			content, err := readInput(cmd, args[0], false)
			if err != nil {
				return err
			}
			replacement, err := readInput(cmd, source, false)
			if err != nil {
				return err
			}

			res, err := navigator.Replace(content, path, replacement, opts)
			if err != nil {
				return err
			}
			return g.finishEdit(cmd, cfg, "replace", args[0], content, res, write)
		},
	}

	mf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&write, "write", "w", false, MsgFlagWriteFile)

	return cmd
}
