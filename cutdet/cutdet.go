// Package cutdet implements the cut-determinism checker (spec.md §4.4):
// decides whether an automaton is cut-deterministic and, if not, returns
// the states of its non-deterministic (first) component.
//
// Grounded on original_source/src/cutdet.cpp's IN_CUT/NOT_IN_CUT/UNKNOWN
// reverse-topological walk, expressed idiomatically over sccoracle.Oracle.
package cutdet

import (
	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/sccoracle"
)

type classification int

const (
	unknown classification = iota
	inCut
	notInCut
)

// Result is the outcome of a cut-determinism check.
type Result struct {
	IsCutDeterministic bool
	NonDetStates       map[automaton.StateID]bool
}

// Check walks SCCs in reverse topological order (the order sccoracle
// already produces them in) classifying each as IN_CUT or NOT_IN_CUT, per
// spec.md §4.4.
func Check(aut *automaton.Automaton, oracle *sccoracle.Oracle) Result {
	n := oracle.NumSCCs()
	class := make([]classification, n)
	reachableFromAcc := computeReachableFromAccepting(oracle, n)
	isCD := true
	nonDet := make(map[automaton.StateID]bool)

	for id := 0; id < n; id++ {
		scc := sccoracle.SCCID(id)
		states := oracle.StatesOf(scc)

		if reachableFromAcc[scc] {
			// Within IN_CUT SCCs, every state's outgoing labels (including
			// boundary edges) must be pairwise disjoint.
			if !determinsticAtEveryState(aut, states, oracle, scc, false) {
				isCD = false
			}
			class[scc] = inCut
		} else {
			internallyDet := oracle.IsDeterministicSCC(scc, true)
			if internallyDet && boundaryDeterministic(aut, states, oracle, scc) {
				class[scc] = inCut
			} else {
				class[scc] = notInCut
			}
		}

		if class[scc] != inCut {
			for _, s := range states {
				nonDet[s] = true
			}
		}
	}

	return Result{IsCutDeterministic: isCD, NonDetStates: nonDet}
}

// computeReachableFromAccepting marks every SCC that is itself accepting or
// downstream of one, per original_source/src/cutdet.cpp:45-50: the flag is
// pushed forward onto SuccSCCs (strictly lower ids, i.e. closer to the
// sink), so the walk must go source-to-sink (highest id first) for a
// successor's flag to already be set by the time that successor is
// visited.
func computeReachableFromAccepting(oracle *sccoracle.Oracle, n int) []bool {
	reachableFromAcc := make([]bool, n)
	for id := n - 1; id >= 0; id-- {
		scc := sccoracle.SCCID(id)
		if oracle.IsAccepting(scc) {
			reachableFromAcc[scc] = true
		}
		if reachableFromAcc[scc] {
			for _, succ := range oracle.SuccSCCs(scc) {
				reachableFromAcc[succ] = true
			}
		}
	}
	return reachableFromAcc
}

// determinsticAtEveryState checks label disjointness per state, optionally
// restricted to intra-SCC edges.
func determinsticAtEveryState(aut *automaton.Automaton, states []automaton.StateID, oracle *sccoracle.Oracle, scc sccoracle.SCCID, insideOnly bool) bool {
	for _, s := range states {
		seen := automaton.False()
		for _, e := range aut.Out(s) {
			if insideOnly && oracle.SCCOf(e.Dst) != scc {
				continue
			}
			if !automaton.Disjoint(e.Cond, seen) {
				return false
			}
			seen = automaton.Or(seen, e.Cond)
		}
	}
	return true
}

// boundaryDeterministic checks that, in addition to internal determinism,
// the SCC's boundary (exit) edges don't introduce nondeterminism together
// with its internal ones.
func boundaryDeterministic(aut *automaton.Automaton, states []automaton.StateID, oracle *sccoracle.Oracle, scc sccoracle.SCCID) bool {
	return determinsticAtEveryState(aut, states, oracle, scc, false)
}
