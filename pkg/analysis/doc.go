// Package analysis turns YAML source text into the ordered list of
// statements the resolver works on.
//
// An Analysis parses the text with gopkg.in/yaml.v3, classifies comments,
// extracts freeze blocks and then integrates mapping entries and freeze
// blocks into one list in ascending line order. Each statement knows its
// body lines and its leading region (the comments and blank lines above it
// that move with it), so the emitter can copy original text instead of
// re-serializing parsed values.
//
// # Freeze blocks
//
// A region between
//
//	# yaml-merge:freeze
//	...
//	# yaml-merge:unfreeze
//
// is protected: it is always taken from the destination. The token is
// configurable and marker matching is case-insensitive. A start marker
// pairs with the nearest following unmatched end marker; markers left
// without a partner are ignored.
//
// Construction never fails. Syntax errors are recorded and reported by
// Valid and Errors; the merge boundary turns them into a parse failure.
package analysis
