// Package powerset implements the powerset successor builder (spec.md
// §4.2): given a subset S of source states, an acceptance-mark restriction
// m, and an optional intersection filter F, it computes the per-minterm
// successor subsets, caching per-state bitvectors the way the teacher's
// lazy DFA caches per-state transition tables (dfa/lazy.Cache) instead of
// recomputing them on every determinization step.
package powerset

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/minterm"
)

// NoMark is passed as the mark restriction to mean "no restriction". It is
// negative, and like any mark >= the number of acceptance sets it selects
// the unrestricted successors, matching spec.md §4.2's "m exceeds the
// number of acceptance sets" escape hatch.
const NoMark = -1

// Builder computes and caches powerset successors over a fixed source
// automaton and minterm indexer.
type Builder struct {
	src *automaton.Automaton
	ix  *minterm.Indexer
	ns  int // number of source states

	// cache[mark+1][state] -> array of nc bitvectors (successors per minterm),
	// shifted by one so NoMark (-1) indexes slot 0.
	cache []map[automaton.StateID][]*bitset.BitSet
}

// New creates a powerset successor builder for src, with precomputed
// per-mark cache slots for mark in [0, k) plus the unrestricted slot.
func New(src *automaton.Automaton, ix *minterm.Indexer) *Builder {
	b := &Builder{
		src: src,
		ix:  ix,
		ns:  src.NumStates(),
	}
	b.cache = make([]map[automaton.StateID][]*bitset.BitSet, src.NumSets+1)
	for i := range b.cache {
		b.cache[i] = make(map[automaton.StateID][]*bitset.BitSet)
	}
	return b
}

func (b *Builder) slot(mark int) int {
	if mark < 0 || mark >= b.src.NumSets {
		return 0
	}
	return mark + 1
}

// perStateBVA computes (and caches) the array of nc bitvectors of
// mark-restricted successors of state s.
func (b *Builder) perStateBVA(s automaton.StateID, mark int) []*bitset.BitSet {
	slot := b.slot(mark)
	if bva, ok := b.cache[slot][s]; ok {
		return bva
	}
	nc := b.ix.NumConds()
	bva := make([]*bitset.BitSet, nc)
	for c := range bva {
		bva[c] = bitset.New(uint(b.ns))
	}
	restrict := mark >= 0 && mark < b.src.NumSets
	for _, e := range b.src.Out(s) {
		if restrict && !e.Acc.Has(mark) {
			continue
		}
		for _, c := range b.ix.Minterms(e.Cond) {
			bva[c].Set(uint(e.Dst))
		}
	}
	b.cache[slot][s] = bva
	return bva
}

// Successors computes, for each minterm index c, the set of source states
// reachable from S via one edge labelled with minterm c whose acceptance
// mark set contains mark (mark == NoMark means unrestricted), optionally
// intersected with filter (or its complement, when complementFilter is
// true). Returned in minterm-index order (spec.md §9 determinism).
func (b *Builder) Successors(S []automaton.StateID, mark int, filter *bitset.BitSet, complementFilter bool) [][]automaton.StateID {
	nc := b.ix.NumConds()
	out := make([][]automaton.StateID, nc)
	if len(S) == 0 {
		for c := range out {
			out[c] = nil
		}
		return out
	}

	acc := make([]*bitset.BitSet, nc)
	for c := range acc {
		acc[c] = bitset.New(uint(b.ns))
	}
	for _, s := range S {
		bva := b.perStateBVA(s, mark)
		for c := 0; c < nc; c++ {
			acc[c].InPlaceUnion(bva[c])
		}
	}

	if filter != nil {
		f := filter
		if complementFilter {
			f = filter.Clone()
			f.Flip()
		}
		for c := 0; c < nc; c++ {
			acc[c].InPlaceIntersection(f)
		}
	}

	for c := 0; c < nc; c++ {
		out[c] = decode(acc[c])
	}
	return out
}

// decode converts a bitvector into a sorted slice of StateID (bitset
// iteration is already in ascending order).
func decode(bv *bitset.BitSet) []automaton.StateID {
	var out []automaton.StateID
	for i, ok := bv.NextSet(0); ok; i, ok = bv.NextSet(i + 1) {
		out = append(out, automaton.StateID(i))
	}
	return out
}

// ToBitSet converts a state subset into a bitvector of the source's size.
func (b *Builder) ToBitSet(S []automaton.StateID) *bitset.BitSet {
	bv := bitset.New(uint(b.ns))
	for _, s := range S {
		bv.Set(uint(s))
	}
	return bv
}

// FromBitSet decodes a bitvector back into a sorted subset.
func FromBitSet(bv *bitset.BitSet) []automaton.StateID { return decode(bv) }
