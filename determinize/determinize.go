// Package determinize implements the standalone first-component
// determinizer (spec.md §4.5): a powerset construction restricted to a
// supplied set of "to-determinize" source states, with bridge edges out to
// the untouched remainder.
package determinize

import (
	"sort"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/minterm"
	"github.com/seminaut/seminaut/powerset"
)

// psKey canonicalizes a powerset state (sorted state-id slice) into a
// comparable map key (a little-endian byte string of the sorted ids).
type psKey string

func keyOf(ss []automaton.StateID) psKey {
	sorted := append([]automaton.StateID(nil), ss...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, len(sorted)*4)
	for i, s := range sorted {
		b[4*i] = byte(s)
		b[4*i+1] = byte(s >> 8)
		b[4*i+2] = byte(s >> 16)
		b[4*i+3] = byte(s >> 24)
	}
	return psKey(b)
}

// Determinize runs the standalone first-component determinizer.
//
// 1. PS = {q0} becomes the result's initial state.
// 2. Powerset-explore from PS using Successors(·, NoMark, toDeterminize,
//    complement=false) so successors stay inside the to-determinize set.
// 3. Every source state not in toDeterminize is copied verbatim (edges and
//    acceptance preserved; an edge into toDeterminize targets the singleton
//    powerset state of its destination).
// 4. Bridge edges connect each first-component PS to the copied states: for
//    each minterm, the successors computed with toDeterminize as the
//    *complement* filter (destinations outside the set) become bridge edges,
//    one per destination.
func Determinize(src *automaton.Automaton, toDeterminize map[automaton.StateID]bool) (*automaton.Automaton, error) {
	ix, err := minterm.New(len(src.AP))
	if err != nil {
		return nil, err
	}
	pb := powerset.New(src, ix)

	res := automaton.NewAutomaton(src.AP, src.NumSets, src.Kind)

	toDetSlice := make([]automaton.StateID, 0, len(toDeterminize))
	for s := range toDeterminize {
		toDetSlice = append(toDetSlice, s)
	}
	sort.Slice(toDetSlice, func(i, j int) bool { return toDetSlice[i] < toDetSlice[j] })
	toDetBV := pb.ToBitSet(toDetSlice)

	ps2num := make(map[psKey]automaton.StateID)
	var order []psKey
	var content [][]automaton.StateID
	var ids []automaton.StateID

	stateOf := func(ss []automaton.StateID) automaton.StateID {
		k := keyOf(ss)
		if id, ok := ps2num[k]; ok {
			return id
		}
		id := res.AddState()
		ps2num[k] = id
		order = append(order, k)
		content = append(content, append([]automaton.StateID(nil), ss...))
		ids = append(ids, id)
		return id
	}

	// Copy every source state not in toDeterminize, preserving edges and
	// acceptance, reusing the same ids so bridge-edge destinations line up.
	res.EnsureStates(src.NumStates())
	for s := 0; s < src.NumStates(); s++ {
		sid := automaton.StateID(s)
		if toDeterminize[sid] {
			continue
		}
		for _, e := range src.Out(sid) {
			if toDeterminize[e.Dst] {
				// Destinations inside the determinized part exist in the
				// result only as powerset states: target the singleton {dst}.
				res.AddEdge(sid, stateOf([]automaton.StateID{e.Dst}), e.Cond, e.Acc)
				continue
			}
			res.AddEdge(sid, e.Dst, e.Cond, e.Acc)
		}
	}

	init := []automaton.StateID{src.Init}
	initID := stateOf(init)
	res.SetInit(initID)

	for i := 0; i < len(order); i++ {
		ss := content[i]
		from := ids[i]
		succs := pb.Successors(ss, powerset.NoMark, toDetBV, false)
		for c, succSet := range succs {
			if len(succSet) == 0 {
				continue
			}
			target := stateOf(succSet)
			res.AddEdge(from, target, ix.LabelOf(c), 0)
		}
		// Bridge edges: successors restricted to destinations OUTSIDE
		// toDeterminize, one edge per destination state (not merged into a
		// single PS target, since those destinations are copied 1:1).
		for _, u := range ss {
			for c := 0; c < ix.NumConds(); c++ {
				label := ix.LabelOf(c)
				for _, e := range src.Out(u) {
					if toDeterminize[e.Dst] {
						continue
					}
					if automaton.Disjoint(e.Cond, label) {
						continue
					}
					res.AddEdge(from, e.Dst, automaton.And(label, e.Cond), e.Acc)
				}
			}
		}
	}

	res.MergeParallelEdges()
	return res, nil
}
