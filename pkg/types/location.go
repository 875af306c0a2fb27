package types

import "fmt"

// Location is an inclusive, 1-based line range.
type Location struct {
	Start int
	End   int
}

// Valid reports whether the range is well formed.
func (l Location) Valid() bool {
	return l.Start >= 1 && l.Start <= l.End
}

// Contains reports whether line falls inside the range.
func (l Location) Contains(line int) bool {
	return line >= l.Start && line <= l.End
}

// Covers reports whether other lies entirely inside l.
func (l Location) Covers(other Location) bool {
	return other.Start >= l.Start && other.End <= l.End
}

// Overlaps reports whether the two ranges share at least one line.
func (l Location) Overlaps(other Location) bool {
	return l.Start <= other.End && other.Start <= l.End
}

// Len returns the number of lines in the range.
func (l Location) Len() int {
	if l.End < l.Start {
		return 0
	}
	return l.End - l.Start + 1
}

func (l Location) String() string {
	return fmt.Sprintf("%d-%d", l.Start, l.End)
}

// Comment is a single comment found in the source.
type Comment struct {
	Line     int    // 1-based line number
	Indent   int    // column of the comment marker, 0-based
	Text     string // comment text without the marker, trimmed
	Raw      string // the comment as written, starting at the marker
	FullLine bool   // true when nothing but whitespace precedes the marker
}
