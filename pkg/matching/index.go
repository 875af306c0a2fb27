// Package matching pairs template statements with destination statements,
// by signature and, optionally, by weighted similarity.
package matching

import "github.com/arthur-debert/yamlmerge/pkg/types"

// SignatureFunc computes a statement's signature.
type SignatureFunc func(types.Statement) types.Signature

// SignatureIndex maps signatures to the statements carrying them, in
// source order. Freeze blocks are never indexed.
type SignatureIndex struct {
	bySig map[types.Signature][]types.Statement
	sig   SignatureFunc
}

// NewSignatureIndex indexes stmts.
func NewSignatureIndex(stmts []types.Statement, sig SignatureFunc) *SignatureIndex {
	idx := &SignatureIndex{
		bySig: make(map[types.Signature][]types.Statement, len(stmts)),
		sig:   sig,
	}
	for _, s := range stmts {
		if s.Kind() == types.KindFreezeBlock {
			continue
		}
		key := sig(s)
		idx.bySig[key] = append(idx.bySig[key], s)
	}
	return idx
}

// Signature returns the signature the index computes for s.
func (i *SignatureIndex) Signature(s types.Statement) types.Signature {
	return i.sig(s)
}

// Lookup returns every statement with sig.
func (i *SignatureIndex) Lookup(sig types.Signature) []types.Statement {
	return i.bySig[sig]
}

// Has reports whether any statement carries sig.
func (i *SignatureIndex) Has(sig types.Signature) bool {
	return len(i.bySig[sig]) > 0
}

// Len returns the number of distinct signatures.
func (i *SignatureIndex) Len() int {
	return len(i.bySig)
}
