package engine

import (
	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/internal/sparse"
	"github.com/seminaut/seminaut/sccoracle"
)

// removeUselessPrefixes implements the `jump_to_bottommost` pass (spec.md
// §4.6.5), flagged as a heuristic whose correctness is verified externally
// rather than proven here (see SPEC_FULL.md §D.1): retarget every BP state
// to the bottommost other BP state sharing the same R, when they live in
// different result-SCCs, then purge newly unreachable states.
func (e *Engine) removeUselessPrefixes() {
	resOracle := sccoracle.Build(e.res)

	groups := make(map[ssKey][]automaton.StateID)
	for id, bp := range e.bpOf {
		k := keyOfSet(bp.R)
		groups[k] = append(groups[k], id)
	}

	retarget := make(map[automaton.StateID]automaton.StateID)
	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		bottommost := ids[0]
		for _, id := range ids[1:] {
			if resOracle.SCCOf(id) < resOracle.SCCOf(bottommost) {
				bottommost = id
			}
		}
		for _, id := range ids {
			if id == bottommost {
				continue
			}
			if resOracle.SCCOf(id) != resOracle.SCCOf(bottommost) {
				retarget[id] = bottommost
			}
		}
	}

	if len(retarget) == 0 {
		return
	}

	resolve := func(s automaton.StateID) automaton.StateID {
		if t, ok := retarget[s]; ok {
			return t
		}
		return s
	}

	newEdges := make([]automaton.Edge, len(e.res.Edges))
	for i, edge := range e.res.Edges {
		newEdges[i] = automaton.Edge{Src: edge.Src, Dst: resolve(edge.Dst), Cond: edge.Cond, Acc: edge.Acc}
	}
	e.res.Edges = newEdges
	e.res.Rebuild(e.res.NumStates())
	e.res.SetInit(resolve(e.res.Init))

	e.pruneUnreachable()
}

// pruneUnreachable compacts the result automaton to states reachable from
// Init, renumbering ids in BFS order. Each surviving state keeps its
// component tag, but ids are not kept in first-component-then-second-
// component order: a state reached early through a cut edge can get a
// lower id than a first-component state reached later.
func (e *Engine) pruneUnreachable() {
	n := e.res.NumStates()
	seen := sparse.NewSparseSet(uint32(n))
	order := []automaton.StateID{e.res.Init}
	seen.Insert(uint32(e.res.Init))
	for i := 0; i < len(order); i++ {
		for _, edge := range e.res.Out(order[i]) {
			if !seen.Contains(uint32(edge.Dst)) {
				seen.Insert(uint32(edge.Dst))
				order = append(order, edge.Dst)
			}
		}
	}
	if len(order) == n {
		return
	}

	remap := make(map[automaton.StateID]automaton.StateID, len(order))
	for newID, old := range order {
		remap[old] = automaton.StateID(newID)
	}

	newAut := automaton.NewAutomaton(e.res.AP, e.res.NumSets, e.res.Kind)
	newAut.EnsureStates(len(order))
	for _, old := range order {
		for _, edge := range e.res.Out(old) {
			if dst, ok := remap[edge.Dst]; ok {
				newAut.AddEdge(remap[old], dst, edge.Cond, edge.Acc)
			}
		}
	}
	newAut.SetInit(remap[e.res.Init])
	e.res = newAut

	newComponentOf := make(map[automaton.StateID]int, len(remap))
	for old, comp := range e.componentOf {
		if newID, ok := remap[old]; ok {
			newComponentOf[newID] = comp
		}
	}
	e.componentOf = newComponentOf
}
