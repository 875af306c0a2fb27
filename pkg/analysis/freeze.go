package analysis

import (
	"regexp"

	"github.com/arthur-debert/yamlmerge/pkg/types"
)

// DefaultFreezeToken is used when Options.FreezeToken is empty.
const DefaultFreezeToken = "yaml-merge"

func markerPatterns(token string) (start, end *regexp.Regexp) {
	quoted := regexp.QuoteMeta(token)
	start = regexp.MustCompile(`(?i)^\s*#\s*` + quoted + `:freeze\s*$`)
	end = regexp.MustCompile(`(?i)^\s*#\s*` + quoted + `:unfreeze\s*$`)
	return start, end
}

// extractFreezeBlocks pairs every start marker with the nearest following
// unmatched end marker. Unmatched markers are dropped, and so is any block
// that overlaps one accepted before it.
func (a *Analysis) extractFreezeBlocks() []*types.FreezeBlock {
	startRe, endRe := markerPatterns(a.token)

	var starts, ends []int
	for i, line := range a.lines {
		switch {
		case startRe.MatchString(line):
			starts = append(starts, i+1)
		case endRe.MatchString(line):
			ends = append(ends, i+1)
		}
	}

	used := make([]bool, len(ends))
	var blocks []*types.FreezeBlock
	lastEnd := 0
	for _, s := range starts {
		match := -1
		for j, e := range ends {
			if !used[j] && e > s {
				match = j
				break
			}
		}
		if match < 0 {
			a.logger.Debug().Int("line", s).Msg("Dropping freeze marker without matching unfreeze")
			continue
		}
		used[match] = true
		e := ends[match]
		if s <= lastEnd {
			a.logger.Debug().Int("start", s).Int("end", e).Msg("Dropping overlapping freeze block")
			continue
		}

		loc := types.Location{Start: s, End: e}
		fb, err := types.NewFreezeBlock(loc, a.lines[s-1:e])
		if err != nil {
			a.logger.Warn().Err(err).Msg("Skipping invalid freeze block")
			continue
		}
		blocks = append(blocks, fb)
		lastEnd = e
	}

	for j, e := range ends {
		if !used[j] {
			a.logger.Debug().Int("line", e).Msg("Dropping unfreeze marker without matching freeze")
		}
	}
	return blocks
}

// InFreeze reports whether loc overlaps any freeze block.
func (a *Analysis) InFreeze(loc types.Location) bool {
	for _, fb := range a.freeze {
		if fb.Body().Overlaps(loc) {
			return true
		}
	}
	return false
}
