// Package minterm implements the AP-minterm indexer (spec.md §4.1): a
// bijection between the 2^|AP| complete assignments over an automaton's
// atomic propositions and contiguous integer indices [0, nc).
//
// Grounded on the teacher's alphabet-reduction layer (coregx-coregex's
// nfa.ByteClasses, nfa/alphabet.go), which plays the analogous role of
// partitioning a condition space into a small, index-addressable set of
// equivalence classes that every later stage (powerset successors, DFA
// states) iterates over instead of the raw condition space.
package minterm

import (
	"fmt"

	"github.com/seminaut/seminaut/automaton"
)

// Indexer enumerates all satisfying assignments of ⊤ over AP (i.e. every
// complete assignment, since ⊤ is satisfied everywhere) into an ordered
// list, and exposes conversions between minterm index and assignment.
type Indexer struct {
	numAP int
	nc    int // 2^numAP
}

// MaxAP bounds |AP| so that 2^|AP| never overflows the index space used by
// Label/Cube bitmasks (spec.md §7 "too many AP").
const MaxAP = 20

// New builds an indexer for an automaton with the given number of atomic
// propositions. Returns an error if 2^numAP would overflow the practical
// bit-array index space the rest of the engine relies on.
func New(numAP int) (*Indexer, error) {
	if numAP < 0 {
		return nil, fmt.Errorf("minterm: negative AP count %d", numAP)
	}
	if numAP > MaxAP {
		return nil, fmt.Errorf("%w: %d atomic propositions (max %d)", ErrTooManyAP, numAP, MaxAP)
	}
	return &Indexer{numAP: numAP, nc: 1 << uint(numAP)}, nil
}

// NumConds returns nc = 2^|AP|, the number of minterms.
func (ix *Indexer) NumConds() int { return ix.nc }

// CondOf returns the complete assignment (one bit per AP) for minterm index c.
// The mapping is the identity on the bit pattern: index c IS the assignment,
// which keeps index_of/cond_of O(1) and naturally keeps enumeration order
// reproducible (spec.md §9 "Determinism of enumeration").
func (ix *Indexer) CondOf(c int) uint64 { return uint64(c) }

// IndexOf returns the minterm index for a complete assignment. Defined only
// when assignment represents a full valuation over numAP variables (as all
// callers in this engine guarantee, since minterms are the only assignments
// ever passed in).
func (ix *Indexer) IndexOf(assignment uint64) int { return int(assignment) }

// LabelOf returns the single-minterm Label (a maximally specific cube) for
// minterm index c: each AP bit of c fixes the corresponding literal.
func (ix *Indexer) LabelOf(c int) automaton.Label {
	cube := automaton.Cube{}
	assignment := uint64(c)
	for i := 0; i < ix.numAP; i++ {
		bit := uint64(1) << uint(i)
		if assignment&bit != 0 {
			cube.Pos |= bit
		} else {
			cube.Neg |= bit
		}
	}
	return automaton.Label{Cubes: []automaton.Cube{cube}}
}

// Minterms returns every minterm index c for which label matches the
// complete assignment CondOf(c) — i.e. the decomposition of label into its
// constituent minterms, iterated in index order (spec.md §9 determinism).
func (ix *Indexer) Minterms(label automaton.Label) []int {
	var out []int
	for c := 0; c < ix.nc; c++ {
		if label.Eval(ix.CondOf(c)) {
			out = append(out, c)
		}
	}
	return out
}
