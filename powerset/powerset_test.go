package powerset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaut/seminaut/automaton"
	"github.com/seminaut/seminaut/minterm"
)

func smallAutomaton() *automaton.Automaton {
	a := automaton.NewAutomaton([]string{"p"}, 1, automaton.GeneralizedBuchi)
	a.EnsureStates(2)
	a.AddEdge(0, 1, automaton.Lit(0, true), 0)
	a.AddEdge(0, 0, automaton.Lit(0, false), 0)
	a.AddEdge(1, 1, automaton.True(), automaton.Mark(0).With(0))
	a.SetInit(0)
	return a
}

func TestSuccessorsUnrestricted(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)

	succs := b.Successors([]automaton.StateID{0}, NoMark, nil, false)
	require.Len(t, succs, 2)
	// minterm 0 = !p -> state 0; minterm 1 = p -> state 1
	assert.ElementsMatch(t, []automaton.StateID{0}, succs[0])
	assert.ElementsMatch(t, []automaton.StateID{1}, succs[1])
}

func TestSuccessorsMarkRestricted(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)

	// Mark 0 restricts to edges carrying acceptance mark 0: only state 1's
	// self-loop qualifies, and it is labelled True, so it fires under both
	// minterms.
	succs := b.Successors([]automaton.StateID{0, 1}, 0, nil, false)
	require.Len(t, succs, 2)
	assert.ElementsMatch(t, []automaton.StateID{1}, succs[0])
	assert.ElementsMatch(t, []automaton.StateID{1}, succs[1])
}

func TestSuccessorsEmptySetIsEmpty(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)
	succs := b.Successors(nil, NoMark, nil, false)
	for _, s := range succs {
		assert.Empty(t, s)
	}
}

func TestSuccessorsFilterComplement(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)

	filter := b.ToBitSet([]automaton.StateID{1})
	succs := b.Successors([]automaton.StateID{0}, NoMark, filter, true) // complement: exclude state 1
	for c, s := range succs {
		if c == 1 {
			assert.Empty(t, s, "state 1 excluded by complemented filter")
		} else {
			assert.ElementsMatch(t, []automaton.StateID{0}, s)
		}
	}
}

func TestToBitSetFromBitSetRoundTrip(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)

	bv := b.ToBitSet([]automaton.StateID{0, 1})
	decoded := FromBitSet(bv)
	assert.ElementsMatch(t, []automaton.StateID{0, 1}, decoded)
}

func TestSuccessorsAreCached(t *testing.T) {
	aut := smallAutomaton()
	ix, err := minterm.New(1)
	require.NoError(t, err)
	b := New(aut, ix)

	first := b.Successors([]automaton.StateID{0}, NoMark, nil, false)
	second := b.Successors([]automaton.StateID{0}, NoMark, nil, false)
	assert.Equal(t, first, second)
}
