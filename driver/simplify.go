package driver

import (
	"sort"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/internal/sparse"
)

// Simplify implements the driver-invoked pre/post-process stages (spec.md
// §2 item 8, SPEC_FULL.md §C.2): the engine itself does not simplify, but
// the driver still needs *something* behind `--preprocess`/`--postprocess`.
// No pack repo or ecosystem library does automaton simplification, so this
// is a minimal from-scratch pass, documented in DESIGN.md as stdlib-only by
// necessity:
//
//  1. prune states unreachable from Init (dead-state removal, any input);
//  2. for a deterministic, complete-enough safety monitor (NumSets == 0,
//     i.e. the acceptance condition is trivially "t"), run partition
//     refinement (Moore's algorithm) to merge bisimilar states — the
//     in-scope "minimized deterministic monitor" spec.md §8 names for
//     safety input.
func Simplify(aut *automaton.Automaton) *automaton.Automaton {
	aut = pruneUnreachable(aut)
	if aut.NumSets == 0 && isDeterministic(aut) {
		aut = minimizeByPartitionRefinement(aut)
	}
	return aut
}

// pruneUnreachable drops states unreachable from Init via a BFS whose
// visited-set is a sparse.SparseSet (internal/sparse, adapted from the
// teacher's NFA-simulation visited-state tracker) rather than a plain
// []bool: the set is cleared and rebuilt once per Simplify call, which is
// exactly the "known, bounded universe" case that data structure targets.
func pruneUnreachable(aut *automaton.Automaton) *automaton.Automaton {
	n := aut.NumStates()
	seen := sparse.NewSparseSet(uint32(n))
	order := []automaton.StateID{aut.Init}
	seen.Insert(uint32(aut.Init))
	for i := 0; i < len(order); i++ {
		for _, e := range aut.Out(order[i]) {
			if !seen.Contains(uint32(e.Dst)) {
				seen.Insert(uint32(e.Dst))
				order = append(order, e.Dst)
			}
		}
	}
	if len(order) == n {
		return aut
	}
	remap := make(map[automaton.StateID]automaton.StateID, len(order))
	for newID, old := range order {
		remap[old] = automaton.StateID(newID)
	}
	out := automaton.NewAutomaton(aut.AP, aut.NumSets, aut.Kind)
	out.EnsureStates(len(order))
	for _, old := range order {
		for _, e := range aut.Out(old) {
			if dst, ok := remap[e.Dst]; ok {
				out.AddEdge(remap[old], dst, e.Cond, e.Acc)
			}
		}
	}
	out.SetInit(remap[aut.Init])
	return out
}

func isDeterministic(aut *automaton.Automaton) bool {
	for s := 0; s < aut.NumStates(); s++ {
		seen := automaton.False()
		for _, e := range aut.Out(automaton.StateID(s)) {
			if !automaton.Disjoint(e.Cond, seen) {
				return false
			}
			seen = automaton.Or(seen, e.Cond)
		}
	}
	return true
}

// minimizeByPartitionRefinement merges bisimilar states of a deterministic
// safety monitor via Moore's algorithm: start with a single partition class
// (all states equivalent, since safety acceptance is uniform), then
// repeatedly split classes whose members transition to different classes
// under the same minterm, until the partition stabilizes.
//
// Each refinement round gives every state a byte-string signature (the
// class reached under each minterm in use) and regroups states by their
// (class, signature) pair through a map.
func minimizeByPartitionRefinement(aut *automaton.Automaton) *automaton.Automaton {
	n := aut.NumStates()
	if n == 0 {
		return aut
	}
	classOf := make([]int, n)     // current class id per state
	allMinterms := collectMinterms(aut)

	for {
		sig := make([]string, n)
		for s := 0; s < n; s++ {
			sig[s] = signatureOf(aut, automaton.StateID(s), classOf, allMinterms)
		}
		newClassOf, changed := refine(classOf, sig)
		classOf = newClassOf
		if !changed {
			break
		}
	}

	numClasses := 0
	for _, c := range classOf {
		if c+1 > numClasses {
			numClasses = c + 1
		}
	}
	// Representative state per class: the lowest-id member.
	rep := make([]automaton.StateID, numClasses)
	seen := make([]bool, numClasses)
	for s := 0; s < n; s++ {
		c := classOf[s]
		if !seen[c] {
			seen[c] = true
			rep[c] = automaton.StateID(s)
		}
	}

	out := automaton.NewAutomaton(aut.AP, aut.NumSets, aut.Kind)
	out.EnsureStates(numClasses)
	emitted := make(map[[3]uint64]bool)
	for c := 0; c < numClasses; c++ {
		for _, e := range aut.Out(rep[c]) {
			dstClass := automaton.StateID(classOf[e.Dst])
			key := [3]uint64{uint64(c), uint64(dstClass), uint64(e.Acc)}
			if emitted[key] {
				continue
			}
			emitted[key] = true
			out.AddEdge(automaton.StateID(c), dstClass, e.Cond, e.Acc)
		}
	}
	out.SetInit(automaton.StateID(classOf[aut.Init]))
	out.MergeParallelEdges()
	return out
}

// collectMinterms gathers the distinct minterm cubes actually used on any
// edge, kept as a fixed bitmask list so signatureOf has a stable iteration
// order across rounds.
func collectMinterms(aut *automaton.Automaton) []automaton.Label {
	seen := make(map[string]automaton.Label)
	var order []string
	for _, e := range aut.Edges {
		for _, c := range e.Cond.Cubes {
			k := cubeKey(c)
			if _, ok := seen[k]; !ok {
				seen[k] = automaton.Label{Cubes: []automaton.Cube{c}}
				order = append(order, k)
			}
		}
	}
	sort.Strings(order)
	out := make([]automaton.Label, len(order))
	for i, k := range order {
		out[i] = seen[k]
	}
	return out
}

func cubeKey(c automaton.Cube) string {
	b := make([]byte, 16)
	for i := 0; i < 8; i++ {
		b[i] = byte(c.Pos >> (8 * i))
		b[8+i] = byte(c.Neg >> (8 * i))
	}
	return string(b)
}

func signatureOf(aut *automaton.Automaton, s automaton.StateID, classOf []int, minterms []automaton.Label) string {
	b := make([]byte, 0, len(minterms)*4)
	for _, m := range minterms {
		dstClass := -1
		for _, e := range aut.Out(s) {
			if !automaton.Disjoint(e.Cond, m) {
				dstClass = classOf[e.Dst]
				break
			}
		}
		b = append(b, byte(dstClass), byte(dstClass>>8), byte(dstClass>>16), byte(dstClass>>24))
	}
	return string(b)
}

func refine(classOf []int, sig []string) ([]int, bool) {
	n := len(classOf)
	type groupKey struct {
		class int
		sig   string
	}
	ids := make(map[groupKey]int)
	newClassOf := make([]int, n)
	changed := false
	for s := 0; s < n; s++ {
		k := groupKey{classOf[s], sig[s]}
		id, ok := ids[k]
		if !ok {
			id = len(ids)
			ids[k] = id
		}
		newClassOf[s] = id
		if id != classOf[s] {
			changed = true
		}
	}
	return newClassOf, changed
}
