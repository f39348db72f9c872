// Package automaton defines the graph data model shared by the source and
// result sides of the semi/cut-determinization engine: states, edges,
// boolean edge labels over atomic propositions, and generalized-Büchi
// acceptance mark sets.
//
// The representation favours dense integer indexing over pointer graphs,
// the same tradeoff the teacher engine (coregx-coregex's NFA/DFA layer)
// makes for its state tables: "map lookups were 42% of CPU time" applies
// just as well to an automaton with tens of thousands of states.
package automaton

import (
	"fmt"

	"github.com/seminaut/seminaut/internal/conv"
)

// StateID uniquely identifies a state within an Automaton.
type StateID uint32

// InvalidState marks an uninitialized or absent state reference.
const InvalidState StateID = 0xFFFFFFFF

// Mark is an acceptance mark set, one bit per generalized-Büchi acceptance
// set index. k (the number of acceptance sets) is assumed small enough to
// fit a machine word for any automaton this engine is asked to transform;
// §7 ("Too many AP") is the analogous overflow guard for the alphabet; no
// such guard exists for k, and nothing checks that set indices stay below 64.
type Mark uint64

// Has reports whether set i is present in the mark set.
func (m Mark) Has(i int) bool { return m&(1<<uint(i)) != 0 }

// With returns m with set i added.
func (m Mark) With(i int) Mark { return m | (1 << uint(i)) }

// Without returns m with set i removed.
func (m Mark) Without(i int) Mark { return m &^ (1 << uint(i)) }

// Union returns the set union of two mark sets.
func (m Mark) Union(o Mark) Mark { return m | o }

// Contains reports whether m contains every mark in sub.
func (m Mark) Contains(sub Mark) bool { return m&sub == sub }

// Edge is a labelled transition (src, dst, cond, acc). cond is a boolean
// function over the automaton's atomic propositions (see Label);
// acc is the set of acceptance marks the edge carries.
type Edge struct {
	Src  StateID
	Dst  StateID
	Cond Label
	Acc  Mark
}

// AcceptanceKind distinguishes generalized-Büchi (TGBA) input acceptance
// from the Büchi (possibly state-based) acceptance the engine emits.
type AcceptanceKind uint8

const (
	// GeneralizedBuchi: accept iff every mark 0..k-1 is seen infinitely often.
	GeneralizedBuchi AcceptanceKind = iota
	// Buchi: accept iff mark 0 is seen infinitely often (k == 1 shorthand
	// of GeneralizedBuchi, kept distinct so callers can tell transition-
	// Büchi results apart without inspecting NumSets).
	Buchi
)

// Automaton is a directed, edge-labelled graph: the source TGBA on input,
// or the semi/cut-deterministic Büchi automaton on output.
type Automaton struct {
	AP      []string // atomic proposition names, index-stable
	NumSets int      // k, number of acceptance sets (1 for output Büchi)
	Kind    AcceptanceKind
	Init    StateID

	// out holds, for each state, the indices into Edges of its outgoing
	// edges. AddState and AddEdge keep it up to date incrementally;
	// Rebuild recomputes it from Edges.
	Edges []Edge
	out   [][]int

	// Names are optional per-state debug labels (spec.md §3: "Names
	// id -> string are kept for debugging output").
	Names []string

	numStates int
}

// NewAutomaton creates an empty automaton over the given atomic propositions.
func NewAutomaton(ap []string, numSets int, kind AcceptanceKind) *Automaton {
	return &Automaton{
		AP:      append([]string(nil), ap...),
		NumSets: numSets,
		Kind:    kind,
		Init:    InvalidState,
	}
}

// NumStates returns the number of states allocated so far.
func (a *Automaton) NumStates() int { return a.numStates }

// AddState allocates a fresh state and returns its id. IDs are assigned in
// strictly increasing order (spec.md §5 "Ordering").
func (a *Automaton) AddState() StateID {
	id := StateID(conv.IntToUint32(a.numStates))
	a.numStates++
	a.out = append(a.out, nil)
	a.Names = append(a.Names, "")
	return id
}

// EnsureStates grows the automaton to at least n states, without touching
// existing ones. Used by the engine to reserve first-component ids before
// cut-edge enumeration (spec.md §4.6.1 step 3).
func (a *Automaton) EnsureStates(n int) {
	for a.numStates < n {
		a.AddState()
	}
}

// SetName attaches a debug label to a state.
func (a *Automaton) SetName(s StateID, name string) {
	for int(s) >= len(a.Names) {
		a.Names = append(a.Names, "")
	}
	a.Names[s] = name
}

// SetInit sets the initial state.
func (a *Automaton) SetInit(s StateID) { a.Init = s }

// AddEdge appends an edge and indexes it under its source state.
func (a *Automaton) AddEdge(src, dst StateID, cond Label, acc Mark) {
	idx := len(a.Edges)
	a.Edges = append(a.Edges, Edge{Src: src, Dst: dst, Cond: cond, Acc: acc})
	for int(src) >= len(a.out) {
		a.out = append(a.out, nil)
	}
	a.out[src] = append(a.out[src], idx)
}

// Out returns the outgoing edges of state s, in the order they were added.
func (a *Automaton) Out(s StateID) []Edge {
	idxs := a.out[s]
	if idxs == nil {
		return nil
	}
	edges := make([]Edge, len(idxs))
	for i, idx := range idxs {
		edges[i] = a.Edges[idx]
	}
	return edges
}

// OutIndices returns the indices into a.Edges of state s's outgoing edges.
func (a *Automaton) OutIndices(s StateID) []int { return a.out[s] }

// Rebuild recomputes the out index from scratch. Needed after bulk edge
// removal/rewrite passes (e.g. §4.6.5 "remove useless prefixes") that
// replace a.Edges wholesale instead of calling AddEdge.
func (a *Automaton) Rebuild(numStates int) {
	a.numStates = numStates
	a.out = make([][]int, numStates)
	for idx, e := range a.Edges {
		a.out[e.Src] = append(a.out[e.Src], idx)
	}
}

// MergeParallelEdges canonicalizes parallel edges with equal (src, dst, acc)
// by disjoining their labels, per spec.md §5's final merge pass.
func (a *Automaton) MergeParallelEdges() {
	type key struct {
		src, dst StateID
		acc      Mark
	}
	order := make([]key, 0, len(a.Edges))
	merged := make(map[key]Label)
	for _, e := range a.Edges {
		k := key{e.Src, e.Dst, e.Acc}
		if cur, ok := merged[k]; ok {
			merged[k] = Or(cur, e.Cond)
		} else {
			order = append(order, k)
			merged[k] = e.Cond
		}
	}
	newEdges := make([]Edge, 0, len(order))
	for _, k := range order {
		newEdges = append(newEdges, Edge{Src: k.src, Dst: k.dst, Cond: merged[k], Acc: k.acc})
	}
	a.Edges = newEdges
	a.Rebuild(a.numStates)
}

// String implements a compact debug representation, e.g. for test failures.
func (a *Automaton) String() string {
	return fmt.Sprintf("Automaton{states=%d edges=%d ap=%v k=%d init=%d}",
		a.numStates, len(a.Edges), a.AP, a.NumSets, a.Init)
}
