package types

import "fmt"

// MergeDecision tags every emitted line with the reason it was emitted.
type MergeDecision int

const (
	KeptTemplate MergeDecision = iota
	KeptDestination
	Merged
	Added
	FreezeBlockDecision
)

// AllDecisions lists every decision in display order.
var AllDecisions = []MergeDecision{KeptDestination, KeptTemplate, Merged, Added, FreezeBlockDecision}

func (d MergeDecision) String() string {
	switch d {
	case KeptTemplate:
		return "kept_template"
	case KeptDestination:
		return "kept_destination"
	case Merged:
		return "merged"
	case Added:
		return "added"
	case FreezeBlockDecision:
		return "freeze_block"
	default:
		return fmt.Sprintf("MergeDecision(%d)", int(d))
	}
}

// MarshalText renders the decision by name in JSON reports.
func (d MergeDecision) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Match pairs a template statement with a destination statement that did
// not share a signature.
type Match struct {
	Template Statement
	Dest     Statement
	Score    float64
}
