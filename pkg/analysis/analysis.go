package analysis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/comments"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/arthur-debert/yamlmerge/pkg/types"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Options configures an Analysis.
type Options struct {
	// FreezeToken is the word used in freeze markers. Defaults to
	// DefaultFreezeToken.
	FreezeToken string

	// Signature optionally overrides signature computation.
	Signature types.SignatureFunc
}

// Analysis is the parsed, statement-level view of one YAML source. It is
// immutable after New returns and safe for concurrent reads.
type Analysis struct {
	source     string
	lines      []string
	tracker    *comments.Tracker
	doc        *yaml.Node
	root       *types.NodeWrapper
	freeze     []*types.FreezeBlock
	statements []types.Statement
	errs       []errors.SyntaxError
	token      string
	sigFunc    types.SignatureFunc

	// bounds of the first document's body
	bodyEnd  int
	preamble types.Location
	trailer  types.Location

	logger zerolog.Logger
}

// New analyses source. It never fails: syntax errors are recorded and make
// the analysis invalid.
func New(source string, opts Options) *Analysis {
	token := opts.FreezeToken
	if token == "" {
		token = DefaultFreezeToken
	}

	a := &Analysis{
		source:  source,
		lines:   splitLines(source),
		token:   token,
		sigFunc: opts.Signature,
		logger:  logging.GetLogger("analysis"),
	}
	a.tracker = comments.NewTracker(a.lines)

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
		a.errs = syntaxErrors(err)
		a.logger.Debug().Err(err).Int("errors", len(a.errs)).Msg("Source failed to parse")
		return a
	}
	a.doc = &doc

	// Freeze blocks must be known before statements are integrated.
	a.freeze = a.extractFreezeBlocks()
	a.statements = a.integrate()

	a.logger.Trace().
		Int("lines", len(a.lines)).
		Int("statements", len(a.statements)).
		Int("freezeBlocks", len(a.freeze)).
		Int("comments", a.tracker.Count()).
		Msg("Source analysed")
	return a
}

// splitLines splits on "\n" and drops the empty element produced by a
// final newline.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.Split(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

var lineErrorRe = regexp.MustCompile(`line (\d+): (.+)`)

// syntaxErrors converts a yaml.v3 error into structured entries.
func syntaxErrors(err error) []errors.SyntaxError {
	var out []errors.SyntaxError
	for _, part := range strings.Split(err.Error(), "\n") {
		part = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(part), "yaml:"))
		if part == "" || strings.HasSuffix(part, "errors:") {
			continue
		}
		if m := lineErrorRe.FindStringSubmatch(part); m != nil {
			n, _ := strconv.Atoi(m[1])
			out = append(out, errors.SyntaxError{Line: n, Message: m[2]})
			continue
		}
		out = append(out, errors.SyntaxError{Message: part})
	}
	if len(out) == 0 {
		out = append(out, errors.SyntaxError{Message: err.Error()})
	}
	return out
}

// Valid reports whether the source parsed.
func (a *Analysis) Valid() bool { return len(a.errs) == 0 }

// Errors returns the recorded syntax errors.
func (a *Analysis) Errors() []errors.SyntaxError {
	return append([]errors.SyntaxError(nil), a.errs...)
}

// Source returns the original text.
func (a *Analysis) Source() string { return a.source }

// Lines returns the source lines without terminators.
func (a *Analysis) Lines() []string { return a.lines }

// LineCount returns the number of source lines.
func (a *Analysis) LineCount() int { return len(a.lines) }

// Line returns the 1-based line n, or "" when out of range.
func (a *Analysis) Line(n int) string {
	if n < 1 || n > len(a.lines) {
		return ""
	}
	return a.lines[n-1]
}

// Comments returns the comment tracker.
func (a *Analysis) Comments() *comments.Tracker { return a.tracker }

// Statements returns the top-level statements in line order.
func (a *Analysis) Statements() []types.Statement { return a.statements }

// FreezeBlocks returns every freeze block found, at any depth.
func (a *Analysis) FreezeBlocks() []*types.FreezeBlock { return a.freeze }

// Root returns the wrapped root node, or nil for an empty document.
func (a *Analysis) Root() *types.NodeWrapper { return a.root }

// Preamble is the range of lines before the first statement's leading
// comments. It is empty (End < Start) when there is none.
func (a *Analysis) Preamble() types.Location { return a.preamble }

// Trailer is the range of lines after the last statement. It is empty
// (End < Start) when there is none.
func (a *Analysis) Trailer() types.Location { return a.trailer }

// FreezeToken returns the marker token in use.
func (a *Analysis) FreezeToken() string { return a.token }

// Signature returns the statement's signature, honoring the override.
func (a *Analysis) Signature(s types.Statement) types.Signature {
	if a.sigFunc != nil {
		if res := a.sigFunc(s); !res.UseDefault {
			return res.Signature
		}
	}
	return DefaultSignature(s)
}

// DefaultSignature computes the built-in signature of a statement.
func DefaultSignature(s types.Statement) types.Signature {
	switch st := s.(type) {
	case *types.MappingEntry:
		return types.NewSignature(types.EntryTag, st.Name())
	case *types.FreezeBlock:
		return types.NewSignature(types.FreezeTag, st.NormalizedContent())
	case *types.WholeDocument:
		return types.NewSignature(types.DocumentTag, st.Root.KindName())
	default:
		return types.NewSignature(types.StreamTag)
	}
}

func (a *Analysis) isBlank(line int) bool {
	return strings.TrimSpace(a.Line(line)) == ""
}

var docSeparatorRe = regexp.MustCompile(`^(---|\.\.\.)(\s|$)`)

// documentEnd returns the last line belonging to the first document.
func (a *Analysis) documentEnd(from int) int {
	for l := from + 1; l <= len(a.lines); l++ {
		if docSeparatorRe.MatchString(a.lines[l-1]) {
			return l - 1
		}
	}
	return len(a.lines)
}
