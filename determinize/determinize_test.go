package determinize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaut/seminaut/automaton"
)

// nondetIntoTwoSinks: state 0 nondeterministically chooses between an
// accepting sink (1) and a non-accepting sink (2); only state 0 is asked to
// be determinized, so 1 and 2 must be carried over as bridge targets.
func nondetIntoTwoSinks() *automaton.Automaton {
	a := automaton.NewAutomaton([]string{"p"}, 1, automaton.GeneralizedBuchi)
	a.EnsureStates(3)
	a.AddEdge(0, 1, automaton.True(), 0)
	a.AddEdge(0, 2, automaton.True(), 0)
	a.AddEdge(1, 1, automaton.True(), automaton.Mark(0).With(0))
	a.AddEdge(2, 2, automaton.True(), 0)
	a.SetInit(0)
	return a
}

func TestDeterminizeBridgesUntouchedStates(t *testing.T) {
	src := nondetIntoTwoSinks()
	res, err := Determinize(src, map[automaton.StateID]bool{0: true})
	require.NoError(t, err)

	// States 1 and 2 keep their original ids and edges.
	out1 := res.Out(1)
	require.Len(t, out1, 1)
	assert.Equal(t, automaton.StateID(1), out1[0].Dst)
	assert.True(t, out1[0].Acc.Has(0))

	out2 := res.Out(2)
	require.Len(t, out2, 1)
	assert.Equal(t, automaton.StateID(2), out2[0].Dst)
	assert.False(t, out2[0].Acc.Has(0))

	// The new powerset initial state bridges to both original sinks.
	initOut := res.Out(res.Init)
	dsts := make(map[automaton.StateID]bool)
	for _, e := range initOut {
		dsts[e.Dst] = true
	}
	assert.True(t, dsts[1])
	assert.True(t, dsts[2])
}

// nondetSelfContained: states 0 and 1 are both in the to-determinize set and
// only transition among themselves, so subset construction actually merges
// their nondeterministic branching into fresh powerset states rather than
// bridging it out verbatim.
func nondetSelfContained() *automaton.Automaton {
	a := automaton.NewAutomaton(nil, 1, automaton.GeneralizedBuchi)
	a.EnsureStates(2)
	a.AddEdge(0, 0, automaton.True(), 0)
	a.AddEdge(0, 1, automaton.True(), 0)
	a.AddEdge(1, 1, automaton.True(), automaton.Mark(0).With(0))
	a.SetInit(0)
	return a
}

func TestDeterminizeResultIsDeterministicOnDeterminizedStates(t *testing.T) {
	src := nondetSelfContained()
	res, err := Determinize(src, map[automaton.StateID]bool{0: true, 1: true})
	require.NoError(t, err)

	seen := make(map[automaton.StateID]bool)
	var walk func(s automaton.StateID)
	walk = func(s automaton.StateID) {
		if seen[s] {
			return
		}
		seen[s] = true
		acc := automaton.False()
		for _, e := range res.Out(s) {
			assert.True(t, automaton.Disjoint(e.Cond, acc), "determinized state's outgoing labels must be pairwise disjoint")
			acc = automaton.Or(acc, e.Cond)
			walk(e.Dst)
		}
	}
	walk(res.Init)
	// Both source states were folded into the powerset exploration, so no
	// bridge edges exist and the init state's outgoing edges must be non-empty.
	assert.NotEmpty(t, res.Out(res.Init))
}

func TestDeterminizeEmptyToDeterminizeIsIdentityShaped(t *testing.T) {
	src := nondetIntoTwoSinks()
	res, err := Determinize(src, map[automaton.StateID]bool{})
	require.NoError(t, err)
	// With nothing to determinize, init {0} itself becomes the sole new
	// powerset state, bridging out exactly like state 0 did originally.
	assert.Equal(t, 2, len(res.Out(res.Init)))
}
