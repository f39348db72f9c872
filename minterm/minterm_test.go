package minterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seminaut/seminaut/automaton"
)

func TestNewRejectsTooManyAP(t *testing.T) {
	_, err := New(MaxAP + 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTooManyAP)
}

func TestNewRejectsNegative(t *testing.T) {
	_, err := New(-1)
	require.Error(t, err)
}

func TestNumCondsAndCondOfIdentity(t *testing.T) {
	ix, err := New(3)
	require.NoError(t, err)
	assert.Equal(t, 8, ix.NumConds())
	for c := 0; c < ix.NumConds(); c++ {
		assert.Equal(t, uint64(c), ix.CondOf(c))
		assert.Equal(t, c, ix.IndexOf(ix.CondOf(c)))
	}
}

func TestLabelOfMatchesExactlyOneAssignment(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	for c := 0; c < ix.NumConds(); c++ {
		lbl := ix.LabelOf(c)
		for a := uint64(0); a < 4; a++ {
			want := a == uint64(c)
			assert.Equal(t, want, lbl.Eval(a), "minterm %d vs assignment %d", c, a)
		}
	}
}

func TestMintermsDecomposesLabel(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	p := automaton.Lit(0, true)
	ms := ix.Minterms(p)
	// p holds for assignments 01 and 11, i.e. minterm indices 1 and 3.
	assert.ElementsMatch(t, []int{1, 3}, ms)
}

func TestMintermsTrueCoversEverything(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	ms := ix.Minterms(automaton.True())
	assert.Len(t, ms, ix.NumConds())
}

func TestMintermsFalseCoversNothing(t *testing.T) {
	ix, err := New(2)
	require.NoError(t, err)
	ms := ix.Minterms(automaton.False())
	assert.Empty(t, ms)
}
