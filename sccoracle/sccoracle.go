// Package sccoracle decomposes an automaton into strongly connected
// components and answers the structural questions the engine needs of them
// (spec.md §4.3): scc_of, states_of, is_accepting, is_weak,
// is_deterministic_scc, and the derived avoid predicate.
//
// The decomposition itself (Tarjan's algorithm) is a natural extension of
// the traversal/topological-sort idiom katalvlaran-lvlath's dfs package
// documents (depth-first coloring, post-order collection, reverse
// topological consumption) — no pack repo ships a ready-made SCC routine,
// so this one is grounded on that traversal style rather than copied from
// any single file.
package sccoracle

import (
	"sort"

	"github.com/bits-and-blooms/bitset"

	"github.com/seminaut/seminaut/automaton"
)

// SCCID indexes strongly connected components in reverse topological order:
// SCC 0 is a "bottom" component (no outgoing edges to other SCCs) and every
// edge between two SCCs leads from a higher index to a lower one, never the
// other way round —
// matching spot::scc_info's convention that the pack's original source
// (original_source/src/bscc.hpp) assumes throughout.
type SCCID int

// Oracle answers structural queries about an automaton's SCC decomposition.
type Oracle struct {
	aut *automaton.Automaton

	sccOf   []SCCID
	states  [][]automaton.StateID
	accept  []bool
	weak    []bool // inherently weak: every cycle in the SCC carries the same mark set
	detIn   []bool // deterministic considering only intra-SCC edges
	detFull []bool // deterministic considering intra + boundary edges
	succs   [][]SCCID
	avoidV  []bool
}

// Build computes the SCC decomposition and all derived predicates.
func Build(aut *automaton.Automaton) *Oracle {
	o := &Oracle{aut: aut}
	o.tarjan()
	o.classify()
	o.computeAvoid()
	return o
}

// SCCOf returns the SCC containing state s.
func (o *Oracle) SCCOf(s automaton.StateID) SCCID { return o.sccOf[s] }

// StatesOf returns the states of an SCC.
func (o *Oracle) StatesOf(scc SCCID) []automaton.StateID { return o.states[scc] }

// NumSCCs returns the number of SCCs.
func (o *Oracle) NumSCCs() int { return len(o.states) }

// IsAccepting reports whether scc contains a cycle (more than one state, or
// a self-loop) and the marks of its internal edges together cover all k
// acceptance sets (any cycle suffices when k is 0). A singleton SCC with no
// self-loop is never accepting.
func (o *Oracle) IsAccepting(scc SCCID) bool { return o.accept[scc] }

// IsWeak reports whether scc is inherently weak: every edge inside the SCC
// carries the same acceptance marks (so every cycle through it is uniformly
// accepting or uniformly rejecting).
func (o *Oracle) IsWeak(scc SCCID) bool { return o.weak[scc] }

// IsDeterministicSCC reports whether, for every state of scc, the
// disjunction of its outgoing edge labels is pairwise-disjoint (spec.md
// §4.3). insideOnly restricts the edges considered to those whose
// destination is also in scc.
func (o *Oracle) IsDeterministicSCC(scc SCCID, insideOnly bool) bool {
	return isDeterministicSCC(o.aut, o.states[scc], o.sccOf, scc, insideOnly)
}

func isDeterministicSCC(aut *automaton.Automaton, states []automaton.StateID, sccOf []SCCID, scc SCCID, insideOnly bool) bool {
	for _, s := range states {
		seen := automaton.False()
		for _, e := range aut.Out(s) {
			if insideOnly && sccOf[e.Dst] != scc {
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

// Avoid reports whether scc should be avoided when building a cut-
// deterministic first component: it is deterministic AND every SCC
// reachable from it (including itself) is avoidable. Computed bottom-up in
// computeAvoid (spec.md §4.3).
func (o *Oracle) Avoid(scc SCCID) bool { return o.avoidV[scc] }

// AvoidState is Avoid(SCCOf(s)).
func (o *Oracle) AvoidState(s automaton.StateID) bool { return o.avoidV[o.sccOf[s]] }

// SuccSCCs returns the distinct SCCs with an edge from scc to them
// (excluding scc itself).
func (o *Oracle) SuccSCCs(scc SCCID) []SCCID { return o.succs[scc] }

// tarjan computes o.sccOf, o.states and o.succs (SCC-id in reverse
// topological order: id 0 has no successor SCCs that are not itself).
func (o *Oracle) tarjan() {
	n := o.aut.NumStates()
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	visited := make([]bool, n)
	var stack []automaton.StateID
	counter := 0
	var order [][]automaton.StateID // components in discovery-completion order (Tarjan's natural reverse-topo order)

	type frame struct {
		s        automaton.StateID
		edgeIdx  int
		children []automaton.Edge
	}

	var visit func(start automaton.StateID)
	visit = func(start automaton.StateID) {
		var work []*frame
		push := func(s automaton.StateID) {
			visited[s] = true
			index[s] = counter
			low[s] = counter
			counter++
			stack = append(stack, s)
			onStack[s] = true
			work = append(work, &frame{s: s, children: o.aut.Out(s)})
		}
		push(start)
		for len(work) > 0 {
			top := work[len(work)-1]
			if top.edgeIdx < len(top.children) {
				e := top.children[top.edgeIdx]
				top.edgeIdx++
				if !visited[e.Dst] {
					push(e.Dst)
				} else if onStack[e.Dst] {
					if index[e.Dst] < low[top.s] {
						low[top.s] = index[e.Dst]
					}
				}
				continue
			}
			// done with top
			work = work[:len(work)-1]
			if len(work) > 0 {
				parent := work[len(work)-1]
				if low[top.s] < low[parent.s] {
					low[parent.s] = low[top.s]
				}
			}
			if low[top.s] == index[top.s] {
				var comp []automaton.StateID
				for {
					n := len(stack) - 1
					s := stack[n]
					stack = stack[:n]
					onStack[s] = false
					comp = append(comp, s)
					if s == top.s {
						break
					}
				}
				order = append(order, comp)
			}
		}
	}

	for s := automaton.StateID(0); int(s) < n; s++ {
		if !visited[s] {
			visit(s)
		}
	}

	// Tarjan emits components in an order where a component's successors
	// are always emitted before it (reverse topological order already),
	// matching the spec's SCC-id convention directly.
	o.states = order
	o.sccOf = make([]SCCID, n)
	for id, comp := range order {
		for _, s := range comp {
			o.sccOf[s] = SCCID(id)
		}
	}

	succSet := make([]map[SCCID]bool, len(order))
	for i := range succSet {
		succSet[i] = make(map[SCCID]bool)
	}
	for _, e := range o.aut.Edges {
		su, sv := o.sccOf[e.Src], o.sccOf[e.Dst]
		if su != sv {
			succSet[su][sv] = true
		}
	}
	o.succs = make([][]SCCID, len(order))
	for i, set := range succSet {
		for scc := range set {
			o.succs[i] = append(o.succs[i], scc)
		}
		sort.Slice(o.succs[i], func(a, b int) bool { return o.succs[i][a] < o.succs[i][b] })
	}
}

// classify fills accept, weak, detIn and detFull for every SCC.
//
// IsAccepting approximates spot's scc_info::is_accepting: the union of
// acceptance marks over the SCC's internal edges must cover every one of
// the k sets, and the SCC must actually contain a cycle (more than one
// state, or a self-loop). This is the standard necessary condition used for
// generalized-Büchi SCCs when a full model-checking-grade acceptance
// formula evaluator isn't available (see DESIGN.md).
//
// IsWeak approximates spot's "inherently weak" by a sufficient condition:
// every internal edge carries the same mark set, so no cycle can straddle
// acceptance levels.
func (o *Oracle) classify() {
	n := len(o.states)
	o.accept = make([]bool, n)
	o.weak = make([]bool, n)
	o.detIn = make([]bool, n)
	o.detFull = make([]bool, n)
	var fullMark automaton.Mark
	for i := 0; i < o.aut.NumSets; i++ {
		fullMark = fullMark.With(i)
	}
	for id := range o.states {
		scc := SCCID(id)
		members := make(map[automaton.StateID]bool, len(o.states[id]))
		for _, s := range o.states[id] {
			members[s] = true
		}
		var markUnion automaton.Mark
		hasCycle := len(o.states[id]) > 1
		weak := true
		var firstAcc automaton.Mark
		haveFirst := false
		for _, s := range o.states[id] {
			for _, e := range o.aut.Out(s) {
				if !members[e.Dst] {
					continue
				}
				if e.Dst == s {
					hasCycle = true
				}
				markUnion = markUnion.Union(e.Acc)
				if !haveFirst {
					firstAcc, haveFirst = e.Acc, true
				} else if e.Acc != firstAcc {
					weak = false
				}
			}
		}
		o.accept[scc] = hasCycle && (o.aut.NumSets == 0 || markUnion.Contains(fullMark))
		o.weak[scc] = weak
		o.detIn[scc] = isDeterministicSCC(o.aut, o.states[id], o.sccOf, scc, true)
		o.detFull[scc] = isDeterministicSCC(o.aut, o.states[id], o.sccOf, scc, false)
	}
}

// computeAvoid computes Avoid bottom-up (reverse topological order, which
// is exactly the SCC-id order this oracle uses).
func (o *Oracle) computeAvoid() {
	n := len(o.states)
	o.avoidV = make([]bool, n)
	for id := 0; id < n; id++ {
		scc := SCCID(id)
		if !o.detFull[scc] {
			continue
		}
		allAvoidable := true
		for _, succ := range o.succs[scc] {
			if !o.avoidV[succ] {
				allAvoidable = false
				break
			}
		}
		o.avoidV[scc] = allAvoidable
	}
}

// StatesBitSet returns the given states as a bitset of length n.
func (o *Oracle) StatesBitSet(states []automaton.StateID, n int) *bitset.BitSet {
	bv := bitset.New(uint(n))
	for _, s := range states {
		bv.Set(uint(s))
	}
	return bv
}
