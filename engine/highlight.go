package engine

import "github.com/seminaut/seminaut/automaton"

// Highlight is the `--highlight` annotation (spec.md §6, SPEC_FULL.md
// §C.1): per-state and per-edge component tags (0 = first component, 1 =
// second component), mirroring original_source/src/seminator.hpp's
// highlight_components/highlight_cut.
type Highlight struct {
	StateComponent []int
	EdgeIsCut      []bool
}

// ComputeHighlight derives highlight metadata for a result automaton built
// by this Engine, using the component tags recorded during Build and
// flagging an edge as a cut edge when it crosses from the first component
// into the second.
func (e *Engine) ComputeHighlight() Highlight {
	n := e.res.NumStates()
	h := Highlight{
		StateComponent: make([]int, n),
		EdgeIsCut:      make([]bool, len(e.res.Edges)),
	}
	for s := automaton.StateID(0); int(s) < n; s++ {
		h.StateComponent[s] = e.componentOf[s]
	}
	for i, edge := range e.res.Edges {
		h.EdgeIsCut[i] = h.StateComponent[edge.Src] == 0 && h.StateComponent[edge.Dst] == 1
	}
	return h
}
