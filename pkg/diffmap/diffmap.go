// Package diffmap produces unified diffs between two YAML sources and
// attributes each changed line to the key path that owns it.
package diffmap

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/yamlmerge/pkg/analysis"
	"github.com/arthur-debert/yamlmerge/pkg/errors"
	"github.com/arthur-debert/yamlmerge/pkg/logging"
	"github.com/pmezard/go-difflib/difflib"
)

// DefaultContext is the number of unchanged lines shown around each hunk.
const DefaultContext = 3

// Kind tells whether a diff line was added or removed.
type Kind string

const (
	Added   Kind = "added"
	Removed Kind = "removed"
)

// Change is one added or removed line. Line numbers refer to the "after"
// source for additions and to the "before" source for removals.
type Change struct {
	Kind    Kind     `json:"kind"`
	Line    int      `json:"line"`
	Content string   `json:"content"`
	Path    []string `json:"path"`
}

// PathKey joins the path with dots; the document level is "".
func (c Change) PathKey() string {
	return strings.Join(c.Path, ".")
}

// PathChange counts the changes under one key path.
type PathChange struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
}

// Unified returns the unified diff of a against b. Identical inputs give "".
func Unified(a, b, fromName, toName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: fromName,
		ToFile:   toName,
		Context:  DefaultContext,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to build diff")
	}
	return text, nil
}

var hunkRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// Map parses a unified diff and attributes each changed line to the path
// of the innermost statement owning it. Removed lines are resolved against
// before and added lines against after. Either analysis may be nil, which
// leaves the corresponding paths empty.
func Map(diffText string, before, after *analysis.Analysis) ([]Change, error) {
	logger := logging.GetLogger("diffmap")

	var changes []Change
	oldLine, newLine := 0, 0
	oldLeft, newLeft := 0, 0

	scanner := bufio.NewScanner(strings.NewReader(diffText))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if oldLeft == 0 && newLeft == 0 {
			if m := hunkRe.FindStringSubmatch(line); m != nil {
				oldLine, oldLeft = hunkRange(m[1], m[2])
				newLine, newLeft = hunkRange(m[3], m[4])
				continue
			}
			if line == "" || strings.HasPrefix(line, "---") || strings.HasPrefix(line, "+++") ||
				strings.HasPrefix(line, "diff ") || strings.HasPrefix(line, `\`) {
				continue
			}
			return nil, errors.Newf(errors.ErrInvalidInput, "unexpected line %d outside of a hunk", n).
				WithDetail("line", n)
		}

		if line == "" {
			// Some tools strip the single space of empty context lines.
			line = " "
		}
		switch line[0] {
		case ' ':
			oldLine++
			newLine++
			oldLeft--
			newLeft--
		case '-':
			changes = append(changes, Change{
				Kind:    Removed,
				Line:    oldLine,
				Content: line[1:],
				Path:    pathAt(before, oldLine),
			})
			oldLine++
			oldLeft--
		case '+':
			changes = append(changes, Change{
				Kind:    Added,
				Line:    newLine,
				Content: line[1:],
				Path:    pathAt(after, newLine),
			})
			newLine++
			newLeft--
		case '\\':
			// "\ No newline at end of file"
		default:
			return nil, errors.Newf(errors.ErrInvalidInput, "malformed diff line %d", n).
				WithDetail("line", n).
				WithDetail("content", line)
		}
		if oldLeft < 0 || newLeft < 0 {
			return nil, errors.Newf(errors.ErrInvalidInput, "hunk overruns its header at line %d", n).
				WithDetail("line", n)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "failed to read diff")
	}

	logger.Debug().Int("changes", len(changes)).Msg("Diff mapped")
	return changes, nil
}

// hunkRange decodes one side of a hunk header into the first line number
// and the line count. An empty range names the line before the hunk.
func hunkRange(start, count string) (int, int) {
	first, _ := strconv.Atoi(start)
	if count == "" {
		return first, 1
	}
	n, _ := strconv.Atoi(count)
	if n == 0 {
		first++
	}
	return first, n
}

func pathAt(a *analysis.Analysis, line int) []string {
	if a == nil {
		return nil
	}
	return a.PathAt(line)
}

// Summarize groups changes by path, ordered by path.
func Summarize(changes []Change) []PathChange {
	byPath := make(map[string]*PathChange)
	for _, c := range changes {
		key := c.PathKey()
		pc, ok := byPath[key]
		if !ok {
			pc = &PathChange{Path: key}
			byPath[key] = pc
		}
		if c.Kind == Added {
			pc.Added++
		} else {
			pc.Removed++
		}
	}
	out := make([]PathChange, 0, len(byPath))
	for _, pc := range byPath {
		out = append(out, *pc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
