package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddStateOrdering(t *testing.T) {
	a := NewAutomaton([]string{"p", "q"}, 1, GeneralizedBuchi)
	s0 := a.AddState()
	s1 := a.AddState()
	s2 := a.AddState()
	assert.Equal(t, StateID(0), s0)
	assert.Equal(t, StateID(1), s1)
	assert.Equal(t, StateID(2), s2)
	assert.Equal(t, 3, a.NumStates())
}

func TestEnsureStatesGrowsOnly(t *testing.T) {
	a := NewAutomaton(nil, 0, Buchi)
	a.AddState()
	a.EnsureStates(3)
	require.Equal(t, 3, a.NumStates())
	a.EnsureStates(1) // shrinking request is a no-op
	assert.Equal(t, 3, a.NumStates())
}

func TestAddEdgeAndOut(t *testing.T) {
	a := NewAutomaton([]string{"p"}, 1, GeneralizedBuchi)
	a.EnsureStates(2)
	a.AddEdge(0, 1, Lit(0, true), Mark(0).With(0))
	out := a.Out(0)
	require.Len(t, out, 1)
	assert.Equal(t, StateID(1), out[0].Dst)
	assert.True(t, out[0].Acc.Has(0))
	assert.Empty(t, a.Out(1))
}

func TestMarkOperations(t *testing.T) {
	var m Mark
	m = m.With(0).With(2)
	assert.True(t, m.Has(0))
	assert.False(t, m.Has(1))
	assert.True(t, m.Has(2))

	m2 := m.Without(0)
	assert.False(t, m2.Has(0))
	assert.True(t, m2.Has(2))

	union := Mark(0).With(0).Union(Mark(0).With(1))
	assert.True(t, union.Contains(Mark(0).With(0)))
	assert.True(t, union.Contains(Mark(0).With(1)))
	assert.False(t, union.Contains(Mark(0).With(2)))
}

func TestRebuildRecomputesOut(t *testing.T) {
	a := NewAutomaton(nil, 0, Buchi)
	a.EnsureStates(3)
	a.AddEdge(0, 1, True(), 0)
	a.AddEdge(1, 2, True(), 0)

	// Simulate a bulk edge rewrite (as removeUselessPrefixes does): replace
	// Edges wholesale, then Rebuild to restore the out index.
	a.Edges = []Edge{{Src: 0, Dst: 2, Cond: True(), Acc: 0}}
	a.Rebuild(a.NumStates())

	assert.Len(t, a.Out(0), 1)
	assert.Equal(t, StateID(2), a.Out(0)[0].Dst)
	assert.Empty(t, a.Out(1))
}

func TestMergeParallelEdgesDisjoinsLabels(t *testing.T) {
	a := NewAutomaton([]string{"p"}, 1, GeneralizedBuchi)
	a.EnsureStates(2)
	a.AddEdge(0, 1, Lit(0, true), 0)
	a.AddEdge(0, 1, Lit(0, false), 0)
	a.MergeParallelEdges()

	out := a.Out(0)
	require.Len(t, out, 1)
	// p | !p is satisfied by both assignments.
	assert.True(t, out[0].Cond.Eval(0))
	assert.True(t, out[0].Cond.Eval(1))
}

func TestMergeParallelEdgesKeepsDistinctAcceptance(t *testing.T) {
	a := NewAutomaton([]string{"p"}, 2, GeneralizedBuchi)
	a.EnsureStates(2)
	a.AddEdge(0, 1, Lit(0, true), Mark(0).With(0))
	a.AddEdge(0, 1, Lit(0, true), Mark(0).With(1))
	a.MergeParallelEdges()

	out := a.Out(0)
	assert.Len(t, out, 2, "edges with different acceptance marks must not merge")
}

func TestSetNameAndString(t *testing.T) {
	a := NewAutomaton([]string{"p"}, 1, Buchi)
	a.AddState()
	a.SetName(0, "q0")
	assert.Equal(t, "q0", a.Names[0])
	assert.Contains(t, a.String(), "states=1")
}
