package engine

import (
	"sort"

	"github.com/seminaut/seminaut/automaton"
)

// kind tags every result state with its semantic shape (spec.md §9 "Design
// Notes": Go has no sum types, so the C++ overload set on breakpoint_state
// vs. state_set becomes a kind tag switched on by value instead of a
// visitor).
type kind uint8

const (
	kindSimple kind = iota // first-component copy of a source state
	kindPS1                // first-component powerset state
	kindPS2                // second-component powerset state (weak SCC)
	kindBP                 // second-component breakpoint state
	kindReused             // reused copy of a source state (avoidable SCC)
)

// ssKey canonicalizes a sorted state-id subset into a comparable map key.
type ssKey string

func sortedCopy(ss []automaton.StateID) []automaton.StateID {
	out := append([]automaton.StateID(nil), ss...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func keyOfSet(ss []automaton.StateID) ssKey {
	sorted := sortedCopy(ss)
	b := make([]byte, len(sorted)*4)
	for i, s := range sorted {
		b[4*i] = byte(s)
		b[4*i+1] = byte(s >> 8)
		b[4*i+2] = byte(s >> 16)
		b[4*i+3] = byte(s >> 24)
	}
	return ssKey(b)
}

// BPState is the breakpoint triple (R, B, level) of spec.md §3: R is the
// candidate-future-runs set, B ⊆ R the subset still owing acceptance for
// the current level.
type BPState struct {
	R     []automaton.StateID
	B     []automaton.StateID
	Level int
}

type bpKey struct {
	r, b  ssKey
	level int
}

func keyOfBP(bp BPState) bpKey {
	return bpKey{r: keyOfSet(bp.R), b: keyOfSet(bp.B), level: bp.Level}
}
