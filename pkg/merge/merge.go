// Package merge is the entry point of the merge engine: it analyses a
// template and a destination, resolves their statements and returns the
// destination text with the resolved differences applied.
package merge

import (
	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/emit"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/resolver"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Result is a successful merge.
type Result struct {
	*emit.MergeResult

	// Template and Destination are the analyses the merge ran on.
	Template    *analysis.Analysis
	Destination *analysis.Analysis
}

// Merge merges template into dest. It fails only when either input does
// not parse; the error then wraps an *errors.ParseFailure naming the side.
func Merge(template, dest string, opts Options) (*Result, error) {
	logger := logging.GetLogger("merge")
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	tmplA, destA := analyse(template, dest, opts.AnalysisOptions())
	if !tmplA.Valid() {
		return nil, errors.NewParseFailure(errors.SideTemplate, tmplA.Errors())
	}
	if !destA.Valid() {
		return nil, errors.NewParseFailure(errors.SideDestination, destA.Errors())
	}

	r := resolver.New(tmplA, destA, opts.ResolverOptions())
	mr := emit.ResultOf(r.ResolveDocument())

	ev := logger.Debug()
	for _, d := range types.AllDecisions {
		ev = ev.Int(d.String(), mr.Count(d))
	}
	ev.Int("lines", mr.Len()).Msg("Merge resolved")

	return &Result{
		MergeResult: mr,
		Template:    tmplA,
		Destination: destA,
	}, nil
}

// MergeText is Merge returning only the merged text.
func MergeText(template, dest string, opts Options) (string, error) {
	res, err := Merge(template, dest, opts)
	if err != nil {
		return "", err
	}
	return res.Text(), nil
}

// analyse runs both analyses concurrently. Analyses never fail; validity
// is checked by the caller so the template side is always reported first.
func analyse(template, dest string, opts analysis.Options) (*analysis.Analysis, *analysis.Analysis) {
	var tmplA, destA *analysis.Analysis
	var g errgroup.Group
	g.Go(func() error {
		tmplA = analysis.New(template, opts)
		return nil
	})
	g.Go(func() error {
		destA = analysis.New(dest, opts)
		return nil
	})
	_ = g.Wait()
	return tmplA, destA
}
