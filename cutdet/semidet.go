package cutdet

import (
	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/sccoracle"
)

// IsSemiDeterministic reports whether aut is semi-deterministic: every run
// reachable from some accepting run is deterministic (spec.md GLOSSARY).
// Implemented as: every SCC that is accepting, or reachable from an
// accepting SCC, is internally and boundary deterministic.
func IsSemiDeterministic(aut *automaton.Automaton) bool {
	oracle := sccoracle.Build(aut)
	n := oracle.NumSCCs()
	reachableFromAccepting := computeReachableFromAccepting(oracle, n)
	for id := 0; id < n; id++ {
		scc := sccoracle.SCCID(id)
		if !reachableFromAccepting[scc] {
			continue
		}
		if !determinsticAtEveryState(aut, oracle.StatesOf(scc), oracle, scc, false) {
			return false
		}
	}
	return true
}

// IsCutDeterministic reports whether aut is cut-deterministic.
func IsCutDeterministic(aut *automaton.Automaton) bool {
	oracle := sccoracle.Build(aut)
	return Check(aut, oracle).IsCutDeterministic
}
