package engine

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/powerset"
	"github.com/seminaut/seminaut/sccoracle"
)

// cutCondition implements spec.md §4.6.3's cut_condition(e).
func (e *Engine) cutCondition(edge automaton.Edge) bool {
	uSCC := e.oracle.SCCOf(edge.Src)
	vSCC := e.oracle.SCCOf(edge.Dst)
	topMark := e.src.NumSets - 1

	if e.opts.wantsBsccAvoid() && e.oracle.Avoid(uSCC) {
		return false
	}
	if e.opts.wantsBsccAvoid() && e.oracle.Avoid(vSCC) {
		return true
	}
	if !e.oracle.IsAccepting(vSCC) {
		return false
	}
	if e.opts.CutAlways {
		return true
	}
	if topMark >= 0 && edge.Acc.Has(topMark) {
		return true
	}
	if e.opts.CutOnSCCEntry && uSCC != vSCC {
		return true
	}
	return false
}

// createAllCutTransitions implements spec.md §4.6.3.
func (e *Engine) createAllCutTransitions() {
	for _, edge := range e.src.Edges {
		if !e.cutCondition(edge) {
			continue
		}
		if e.opts.CutDet {
			for _, from := range e.containingPS1(edge.Src) {
				e.addCutTransition(from, edge)
			}
		} else {
			e.addCutTransition(edge.Src, edge)
		}
	}
}

// addCutTransition implements spec.md §4.6.3's per-selected-edge handling.
func (e *Engine) addCutTransition(from automaton.StateID, edge automaton.Edge) {
	vSCC := e.oracle.SCCOf(edge.Dst)
	var sccStates []automaton.StateID
	if e.opts.SCCAware {
		sccStates = e.oracle.StatesOf(vSCC)
	}

	if e.opts.ReuseSCC && e.oracle.Avoid(vSCC) {
		target := e.reuseState(edge.Dst)
		e.res.AddEdge(from, target, edge.Cond, 0)
		return
	}

	if !e.opts.PowersetOnCut {
		var target automaton.StateID
		if e.opts.PowersetForWeak && e.oracle.IsWeak(vSCC) && !(e.opts.ReuseSCC && e.oracle.Avoid(vSCC)) {
			target = e.ps2State([]automaton.StateID{edge.Dst})
		} else {
			target = e.bpState(BPState{R: []automaton.StateID{edge.Dst}, B: nil, Level: 0})
		}
		e.res.AddEdge(from, target, edge.Cond, 0)
		return
	}

	// powerset_on_cut: compute, from {u}, the powerset successors
	// restricted to scc_states and labelled by cond, one edge per minterm
	// sub-condition of cond.
	e.addPowersetOnCutEdges(from, edge, sccStates)
}

func (e *Engine) addPowersetOnCutEdges(from automaton.StateID, edge automaton.Edge, sccStates []automaton.StateID) {
	var filter *bitset.BitSet
	if e.opts.SCCAware {
		filter = e.pb.ToBitSet(sccStates)
	}
	succs := e.pb.Successors([]automaton.StateID{edge.Src}, powerset.NoMark, filter, false)
	for c, succSet := range succs {
		if len(succSet) == 0 {
			continue
		}
		minLabel := e.ix.LabelOf(c)
		if automaton.Disjoint(minLabel, edge.Cond) {
			continue
		}
		subCond := automaton.And(minLabel, edge.Cond)
		vSCC := e.oracle.SCCOf(edge.Dst)
		var target automaton.StateID
		if e.opts.PowersetForWeak && e.oracle.IsWeak(vSCC) && !(e.opts.ReuseSCC && e.oracle.Avoid(vSCC)) {
			target = e.ps2State(succSet)
		} else {
			target = e.bpState(BPState{R: succSet, B: nil, Level: 0})
		}
		e.res.AddEdge(from, target, subCond, 0)
	}
}

// reuseState returns (allocating if needed) the result-state id reused for
// source state s, seeding it as a kindReused frontier entry.
func (e *Engine) reuseState(s automaton.StateID) automaton.StateID {
	if id, ok := e.old2new2[s]; ok {
		return id
	}
	id := e.res.AddState()
	e.old2new2[s] = id
	e.new2old2[id] = s
	e.kindOf[id] = kindReused
	e.componentOf[id] = 1
	return id
}

// ps2State returns the result-state id for a second-component powerset
// state (weak-SCC handling).
func (e *Engine) ps2State(ss []automaton.StateID) automaton.StateID {
	k := keyOfSet(ss)
	if id, ok := e.ps2num2[k]; ok {
		return id
	}
	id := e.res.AddState()
	sorted := sortedCopy(ss)
	e.ps2num2[k] = id
	e.content2[id] = sorted
	e.kindOf[id] = kindPS2
	e.componentOf[id] = 1
	return id
}

// bpState returns the result-state id for a breakpoint state, allocating it
// if new. spec.md §3's invariant (R != empty, B subseteq R, 0<=level<k) is
// asserted here since every BP ever constructed passes through this
// function.
func (e *Engine) bpState(bp BPState) automaton.StateID {
	if len(bp.R) == 0 {
		panic("engine: breakpoint state with empty R")
	}
	bp.R = sortedCopy(bp.R)
	bp.B = sortedCopy(bp.B)
	for i, j := 0, 0; i < len(bp.B); i++ {
		for j < len(bp.R) && bp.R[j] < bp.B[i] {
			j++
		}
		if j == len(bp.R) || bp.R[j] != bp.B[i] {
			panic("engine: breakpoint state with B not a subset of R")
		}
	}
	if bp.Level < 0 || (e.src.NumSets > 0 && bp.Level >= e.src.NumSets) {
		panic("engine: breakpoint state with level out of range")
	}
	k := keyOfBP(bp)
	if id, ok := e.bp2num[k]; ok {
		return id
	}
	id := e.res.AddState()
	e.bp2num[k] = id
	e.bpOf[id] = bp
	e.kindOf[id] = kindBP
	e.componentOf[id] = 1
	return id
}

// SCCOf re-exports the oracle's classification for highlight/debug use.
func (e *Engine) SCCOf(s automaton.StateID) sccoracle.SCCID { return e.oracle.SCCOf(s) }
