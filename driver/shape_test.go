package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaut/seminaut/automaton"
)

func TestDegeneralizeCountsThroughBothMarks(t *testing.T) {
	src := automaton.NewAutomaton(nil, 2, automaton.GeneralizedBuchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), automaton.Mark(0).With(0).With(1))
	src.SetInit(0)

	deg := Degeneralize(src)
	require.Equal(t, 1, deg.NumSets)
	require.Equal(t, automaton.Buchi, deg.Kind)
	require.Equal(t, 2, deg.NumStates())

	initOut := deg.Out(deg.Init)
	require.Len(t, initOut, 1)
	assert.False(t, initOut[0].Acc.Has(0), "first mark consumed is not the last of the cycle")

	otherOut := deg.Out(initOut[0].Dst)
	require.Len(t, otherOut, 1)
	assert.True(t, otherOut[0].Acc.Has(0), "wrapping past the last mark emits the Büchi acceptance bit")
	assert.Equal(t, deg.Init, otherOut[0].Dst)
}

func TestDegeneralizeTrivialAcceptanceMarksEverything(t *testing.T) {
	src := automaton.NewAutomaton(nil, 0, automaton.GeneralizedBuchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), 0)
	src.SetInit(0)

	deg := Degeneralize(src)
	require.Equal(t, 1, deg.NumSets)
	out := deg.Out(deg.Init)
	require.Len(t, out, 1)
	assert.True(t, out[0].Acc.Has(0), "a trivially-accepting safety automaton must mark every transition")
}

func TestDegeneralizePassthroughForAlreadyBuchi(t *testing.T) {
	src := automaton.NewAutomaton(nil, 1, automaton.GeneralizedBuchi)
	src.EnsureStates(2)
	src.AddEdge(0, 1, automaton.True(), 0)
	src.AddEdge(1, 1, automaton.True(), automaton.Mark(0).With(0))
	src.SetInit(0)

	deg := Degeneralize(src)
	assert.Equal(t, src.NumStates(), deg.NumStates())
	out0 := deg.Out(deg.Init)
	require.Len(t, out0, 1)
	assert.False(t, out0[0].Acc.Has(0))
	out1 := deg.Out(out0[0].Dst)
	require.Len(t, out1, 1)
	assert.True(t, out1[0].Acc.Has(0))
}

func TestToStateBasedMarksOwedTransitions(t *testing.T) {
	src := automaton.NewAutomaton(nil, 1, automaton.Buchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), automaton.Mark(0).With(0))
	src.SetInit(0)

	ba := ToStateBased(src)
	require.Equal(t, 1, ba.NumSets)
	// Reachable from init (owed=0) there must be a cycle back through an
	// owed=1 copy whose own outgoing edges are marked.
	seenMarked := false
	for s := 0; s < ba.NumStates(); s++ {
		for _, e := range ba.Out(automaton.StateID(s)) {
			if e.Acc.Has(0) {
				seenMarked = true
			}
		}
	}
	assert.True(t, seenMarked)
}

func TestApplyOutputShapeTGBAIsIdentity(t *testing.T) {
	src := automaton.NewAutomaton(nil, 2, automaton.GeneralizedBuchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), 0)
	src.SetInit(0)
	out := ApplyOutputShape(src, TGBA)
	assert.Same(t, src, out)
}

func TestApplyOutputShapeTBADegeneralizesWhenNeeded(t *testing.T) {
	src := automaton.NewAutomaton(nil, 2, automaton.GeneralizedBuchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), automaton.Mark(0).With(0).With(1))
	src.SetInit(0)
	out := ApplyOutputShape(src, TBA)
	assert.Equal(t, 1, out.NumSets)
}

func TestApplyOutputShapeBA(t *testing.T) {
	src := automaton.NewAutomaton(nil, 1, automaton.Buchi)
	src.AddState()
	src.AddEdge(0, 0, automaton.True(), automaton.Mark(0).With(0))
	src.SetInit(0)
	out := ApplyOutputShape(src, BA)
	assert.Equal(t, 1, out.NumSets)
	assert.Greater(t, out.NumStates(), src.NumStates())
}
