package types

import (
	"fmt"
	"strings"
)

// Side identifies one of the two merge inputs.
type Side int

const (
	Destination Side = iota
	Template
)

func (s Side) String() string {
	switch s {
	case Template:
		return "template"
	case Destination:
		return "destination"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParseSide accepts "template"/"destination" and the short forms "t"/"d",
// "tmpl"/"dest".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "template", "tmpl", "t":
		return Template, nil
	case "destination", "dest", "d":
		return Destination, nil
	default:
		return Destination, fmt.Errorf("unknown side %q (want template or destination)", s)
	}
}

// Source records where an emitted line came from.
type Source int

const (
	FromDestination Source = iota
	FromTemplate
	Synthesized
)

func (s Source) String() string {
	switch s {
	case FromTemplate:
		return "template"
	case FromDestination:
		return "destination"
	case Synthesized:
		return "synthesized"
	default:
		return fmt.Sprintf("Source(%d)", int(s))
	}
}

// SourceOf maps a side to the matching line source.
func SourceOf(side Side) Source {
	if side == Template {
		return FromTemplate
	}
	return FromDestination
}

// MarshalText renders the source by name in JSON reports.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MarshalText renders the side by name in configuration files.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts any name ParseSide accepts.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}
