// Package types defines the data model shared by the merge engine: line
// locations and comments, structural signatures, wrapped YAML nodes, the
// closed Statement union (mapping entries, freeze blocks and whole
// documents), fuzzy match pairs and merge decisions.
package types
