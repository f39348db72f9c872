package engine

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/powerset"
)

// buildFirstComponent implements spec.md §4.6.2.
func (e *Engine) buildFirstComponent() {
	if !e.opts.CutDet {
		e.buildFirstComponentSemiDet()
		return
	}
	e.buildFirstComponentCutDet()
}

// buildFirstComponentSemiDet copies all source states and edges into the
// result 1:1 (stripping acceptance marks), optionally pruning edges whose
// endpoints lie in an avoidable SCC.
func (e *Engine) buildFirstComponentSemiDet() {
	e.res.EnsureStates(e.src.NumStates())
	for s := 0; s < e.src.NumStates(); s++ {
		sid := automaton.StateID(s)
		for _, edge := range e.src.Out(sid) {
			if e.opts.wantsBsccAvoid() && (e.oracle.AvoidState(sid) || e.oracle.AvoidState(edge.Dst)) {
				continue
			}
			e.res.AddEdge(sid, edge.Dst, edge.Cond, 0)
		}
	}
	e.res.SetInit(e.src.Init)
}

// buildFirstComponentCutDet performs on-the-fly powerset exploration
// starting from PS = {q0}, restricted to the non-avoided states.
func (e *Engine) buildFirstComponentCutDet() {
	var nonAvoided []automaton.StateID
	for s := 0; s < e.src.NumStates(); s++ {
		sid := automaton.StateID(s)
		if !(e.opts.wantsBsccAvoid() && e.oracle.AvoidState(sid)) {
			nonAvoided = append(nonAvoided, sid)
		}
	}
	var filter *bitset.BitSet
	if e.opts.wantsBsccAvoid() {
		filter = e.pb.ToBitSet(nonAvoided)
	}

	initID := e.ps1State([]automaton.StateID{e.src.Init})
	e.res.SetInit(initID)

	for i := automaton.StateID(0); int(i) < e.res.NumStates(); i++ {
		if e.kindOf[i] != kindPS1 {
			continue
		}
		content := e.content1[i]
		succs := e.pb.Successors(content, powerset.NoMark, filter, false)
		for c, succSet := range succs {
			if len(succSet) == 0 {
				continue
			}
			target := e.ps1State(succSet)
			e.res.AddEdge(i, target, e.ix.LabelOf(c), 0)
		}
	}
}

// ps1State returns the result-state id for a first-component powerset
// state, allocating and enqueueing it if new.
func (e *Engine) ps1State(ss []automaton.StateID) automaton.StateID {
	k := keyOfSet(ss)
	if id, ok := e.ps2num1[k]; ok {
		return id
	}
	id := e.res.AddState()
	sorted := sortedCopy(ss)
	e.ps2num1[k] = id
	e.content1[id] = sorted
	e.kindOf[id] = kindPS1
	for _, s := range sorted {
		e.containing[s] = append(e.containing[s], id)
	}
	return id
}

// containingPS1 returns the PS1 ids that contain src state u, sorted, used
// by cut-edge enumeration's "from iterates over every first-component PS
// that contains u" rule (spec.md §4.6.3).
func (e *Engine) containingPS1(u automaton.StateID) []automaton.StateID {
	ids := append([]automaton.StateID(nil), e.containing[u]...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
