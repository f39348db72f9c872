// Package driver selects construction strategies, degeneralizes between
// TGBA/TBA/SBA output shapes, invokes the optional pre/post simplification
// and NCSB-complementation stages, and implements the CLI-facing error
// taxonomy (spec.md §7), keeping the engine itself free of any of this
// policy (spec.md §2 item 8 "Driver").
package driver

import "github.com/seminaut/seminaut/automaton"

// OutputShape selects the result's acceptance shape (spec.md §6 `--ba` /
// `--tba` / `--tgba`).
type OutputShape int

const (
	TGBA OutputShape = iota
	TBA
	BA
)

// Degeneralize converts a generalized Büchi automaton (k acceptance sets)
// into an equivalent transition-based Büchi automaton (k=1) via the
// classical counting construction: a state is paired with a "next mark
// owed" counter, and an edge is accepting iff it satisfies the mark
// currently owed and that mark is the last of the k sets (wrapping the
// counter back to 0).
//
// k == 0 automata (all-accepting safety input, spec.md §8 scenario 3) are
// handled as a special case: since every run trivially satisfies an empty
// conjunction of Inf conditions, every edge is marked accepting.
func Degeneralize(src *automaton.Automaton) *automaton.Automaton {
	k := src.NumSets
	if k <= 1 {
		return copyAsBuchi(src, k == 0)
	}

	res := automaton.NewAutomaton(src.AP, 1, automaton.Buchi)
	// state id = StateID(u)*k + level
	idOf := func(u automaton.StateID, level int) automaton.StateID {
		return automaton.StateID(int(u)*k + level)
	}
	res.EnsureStates(src.NumStates() * k)

	for u := 0; u < src.NumStates(); u++ {
		for level := 0; level < k; level++ {
			for _, e := range src.Out(automaton.StateID(u)) {
				level2 := level
				var mark automaton.Mark
				if e.Acc.Has(level) {
					if level == k-1 {
						mark = mark.With(0)
					}
					level2 = (level + 1) % k
				}
				res.AddEdge(idOf(automaton.StateID(u), level), idOf(e.Dst, level2), e.Cond, mark)
			}
		}
	}
	res.SetInit(idOf(src.Init, 0))
	res.MergeParallelEdges()
	return res
}

func copyAsBuchi(src *automaton.Automaton, markAll bool) *automaton.Automaton {
	res := automaton.NewAutomaton(src.AP, 1, automaton.Buchi)
	res.EnsureStates(src.NumStates())
	for s := 0; s < src.NumStates(); s++ {
		for _, e := range src.Out(automaton.StateID(s)) {
			acc := e.Acc
			if markAll {
				acc = acc.With(0)
			}
			res.AddEdge(automaton.StateID(s), e.Dst, e.Cond, acc)
		}
	}
	res.SetInit(src.Init)
	return res
}

// ToStateBased converts a transition-based Büchi automaton (k<=1) into a
// state-based one: each state q is split into copies (q, owed) where owed
// records whether the transition that reached this copy was itself
// accepting. Every outgoing edge of an "owed" copy is marked, which is
// exactly the state-based acceptance condition re-expressed over edges
// (spec.md §6 `--ba`; the data model only has edge-level Mark, so "state
// acceptance" is encoded as "every outgoing edge of this copy carries the
// mark").
func ToStateBased(src *automaton.Automaton) *automaton.Automaton {
	tba := src
	if src.NumSets != 1 {
		tba = Degeneralize(src)
	}

	res := automaton.NewAutomaton(tba.AP, 1, automaton.Buchi)
	idOf := func(u automaton.StateID, owed int) automaton.StateID {
		return automaton.StateID(int(u)*2 + owed)
	}
	res.EnsureStates(tba.NumStates() * 2)

	for u := 0; u < tba.NumStates(); u++ {
		for _, e := range tba.Out(automaton.StateID(u)) {
			owedDst := 0
			if e.Acc.Has(0) {
				owedDst = 1
			}
			for _, owedSrc := range []int{0, 1} {
				var mark automaton.Mark
				if owedSrc == 1 {
					mark = mark.With(0)
				}
				res.AddEdge(idOf(automaton.StateID(u), owedSrc), idOf(e.Dst, owedDst), e.Cond, mark)
			}
		}
	}
	res.SetInit(idOf(tba.Init, 0))
	res.MergeParallelEdges()
	return res
}

// ApplyOutputShape converts the engine's result into the requested output
// shape for final emission.
func ApplyOutputShape(res *automaton.Automaton, shape OutputShape) *automaton.Automaton {
	switch shape {
	case TBA:
		if res.NumSets == 1 {
			return res
		}
		return Degeneralize(res)
	case BA:
		return ToStateBased(res)
	default: // TGBA
		return res
	}
}
