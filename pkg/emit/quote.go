package emit

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	leadingSigils = "&*!|>'\"%@`#,[]{}"
	punctuation   = ":#{}[],&*!|>'\"%@`"
)

var (
	keywords = map[string]bool{
		"true": true, "false": true,
		"yes": true, "no": true,
		"on": true, "off": true,
		"y": true, "n": true,
		"null": true, "~": true,
	}
	leadingZeroRe = regexp.MustCompile(`^[-+]?0[0-9_]+(\.[0-9]*)?$`)
)

// NeedsQuote reports whether s must be double-quoted to read back as the
// same string.
func NeedsQuote(s string) bool {
	if s == "" {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	if strings.ContainsAny(s[:1], leadingSigils) {
		return true
	}
	// "-", "?" and ":" are indicators only when alone or followed by a space.
	if len(s) >= 1 && strings.ContainsAny(s[:1], "-?:") && (len(s) == 1 || s[1] == ' ') {
		return true
	}
	if strings.HasPrefix(s, "---") || strings.HasPrefix(s, "...") {
		return true
	}
	if strings.ContainsAny(s, punctuation) || strings.ContainsAny(s, "\n\t\r") {
		return true
	}
	if keywords[strings.ToLower(s)] {
		return true
	}
	return leadingZeroRe.MatchString(s)
}

// Quote returns s double-quoted when NeedsQuote, otherwise unchanged.
func Quote(s string) string {
	if NeedsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}
