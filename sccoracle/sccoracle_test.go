package sccoracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaut/seminaut/automaton"
)

// cycleWithTail builds: an accepting 2-state cycle {0,1} (mark 0 on both
// transitions), with state 1 also exiting to a bottom, non-accepting,
// deterministic sink state 2.
func cycleWithTail() *automaton.Automaton {
	a := automaton.NewAutomaton([]string{"p"}, 1, automaton.GeneralizedBuchi)
	a.EnsureStates(3)
	a.AddEdge(0, 1, automaton.Lit(0, true), automaton.Mark(0).With(0))
	a.AddEdge(1, 0, automaton.Lit(0, false), automaton.Mark(0).With(0))
	a.AddEdge(1, 2, automaton.Lit(0, true), 0)
	a.AddEdge(2, 2, automaton.True(), 0)
	a.SetInit(0)
	return a
}

func TestSCCDecompositionBottomFirst(t *testing.T) {
	o := Build(cycleWithTail())
	require.Equal(t, 2, o.NumSCCs())

	sccOfState2 := o.SCCOf(2)
	sccOfState0 := o.SCCOf(0)
	assert.Equal(t, sccOfState0, o.SCCOf(1), "0 and 1 must share an SCC")
	assert.NotEqual(t, sccOfState0, sccOfState2)

	// SCC ids are reverse-topological: the sink {2} has a strictly lower id
	// than the cycle {0,1} that reaches it.
	assert.Less(t, int(sccOfState2), int(sccOfState0))
}

func TestIsAccepting(t *testing.T) {
	o := Build(cycleWithTail())
	assert.True(t, o.IsAccepting(o.SCCOf(0)), "the {0,1} cycle carries mark 0 on every internal edge")
	assert.False(t, o.IsAccepting(o.SCCOf(2)), "the self-loop on 2 carries no acceptance mark")
}

func TestIsWeak(t *testing.T) {
	o := Build(cycleWithTail())
	assert.True(t, o.IsWeak(o.SCCOf(0)))
	assert.True(t, o.IsWeak(o.SCCOf(2)))
}

func TestSuccSCCs(t *testing.T) {
	o := Build(cycleWithTail())
	succs := o.SuccSCCs(o.SCCOf(0))
	require.Len(t, succs, 1)
	assert.Equal(t, o.SCCOf(2), succs[0])
	assert.Empty(t, o.SuccSCCs(o.SCCOf(2)), "the sink has no successor SCC")
}

func TestStatesOf(t *testing.T) {
	o := Build(cycleWithTail())
	assert.ElementsMatch(t, []automaton.StateID{0, 1}, o.StatesOf(o.SCCOf(0)))
	assert.ElementsMatch(t, []automaton.StateID{2}, o.StatesOf(o.SCCOf(2)))
}

func TestAvoidPropagatesBottomUp(t *testing.T) {
	o := Build(cycleWithTail())
	// Every SCC here is deterministic, so avoid should hold everywhere,
	// bottom SCC first.
	assert.True(t, o.Avoid(o.SCCOf(2)))
	assert.True(t, o.Avoid(o.SCCOf(0)))
}

func TestAvoidFalseForNondeterministicSCC(t *testing.T) {
	a := automaton.NewAutomaton(nil, 0, automaton.Buchi)
	a.AddState()
	a.AddEdge(0, 0, automaton.True(), 0)
	a.AddEdge(0, 0, automaton.True(), 0) // two overlapping self-loops: nondeterministic
	a.SetInit(0)

	o := Build(a)
	scc := o.SCCOf(0)
	assert.False(t, o.IsDeterministicSCC(scc, false))
	assert.False(t, o.Avoid(scc))
}

func TestIsDeterministicSCCInsideOnly(t *testing.T) {
	o := Build(cycleWithTail())
	scc := o.SCCOf(0)
	assert.True(t, o.IsDeterministicSCC(scc, true))
	assert.True(t, o.IsDeterministicSCC(scc, false))
}
