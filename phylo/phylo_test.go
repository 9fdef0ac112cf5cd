package phylo_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/phylo"
)

func TestParseNewick(t *testing.T) {
	tree, err := phylo.ParseNewick(" ((hs:0.1, mm:0.2)anc:0.05,bt:0.3); ")
	require.NoError(t, err)
	assert.Equal(t, []string{"hs", "mm", "bt"}, tree.LeafNames())
	assert.Equal(t, 5, tree.Len())

	i, ok := tree.LeafIndex("bt")
	require.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = tree.LeafIndex("anc")
	assert.False(t, ok, "internal nodes are not leaves")

	assert.InDelta(t, 0.2, tree.Leaves()[1].Length, 1e-12)
	assert.Equal(t, "anc", tree.Leaves()[0].Parent.Name)
	assert.Equal(t, "((hs:0.1,mm:0.2)anc:0.05,bt:0.3);", tree.String())
}

func TestParseNewickErrors(t *testing.T) {
	for _, text := range []string{"", "(a,b", "(a,b))", "(a:x,b)", "(a,)", "(a:-1,b)"} {
		_, err := phylo.ParseNewick(text)
		assert.ErrorIs(t, err, phylo.ErrNewickSyntax, text)
	}
	_, err := phylo.ParseNewick("(a,a);")
	assert.ErrorIs(t, err, phylo.ErrDuplicateLeaf)
}

func TestTransitionMatrix(t *testing.T) {
	evo, err := phylo.NewExonEvo(0.2, 0.05)
	require.NoError(t, err)

	p0 := evo.P(0)
	assert.InDelta(t, 1, p0[0][0], 1e-12)
	assert.InDelta(t, 0, p0[0][1], 1e-12)

	p := evo.P(0.7)
	for x := 0; x < 2; x++ {
		assert.InDelta(t, 1, p[x][0]+p[x][1], 1e-12, "rows sum to one")
	}
	// Long branches forget the start state.
	inf := evo.P(1e6)
	pi := evo.Stationary()
	assert.InDelta(t, pi[1], inf[0][1], 1e-9)
	assert.InDelta(t, pi[1], inf[1][1], 1e-9)

	_, err = phylo.NewExonEvo(0, 1)
	assert.ErrorIs(t, err, phylo.ErrBadRate)
}

func TestLogLikelihood(t *testing.T) {
	tree, err := phylo.ParseNewick("((a:0.1,b:0.1):0.2,c:0.3);")
	require.NoError(t, err)
	evo, err := phylo.NewExonEvo(0.3, 0.1)
	require.NoError(t, err)

	_, err = evo.LogLikelihood([]int8{1, 1, 1})
	require.ErrorIs(t, err, phylo.ErrNotPrepared)

	evo.ComputeLogPMatrices(tree)
	_, err = evo.LogLikelihood([]int8{1, 1})
	require.ErrorIs(t, err, phylo.ErrLeafCount)

	// Probabilities of all fully observed patterns sum to one.
	total := 0.0
	for mask := 0; mask < 8; mask++ {
		states := []int8{int8(mask & 1), int8(mask >> 1 & 1), int8(mask >> 2 & 1)}
		ll, err := evo.LogLikelihood(states)
		require.NoError(t, err)
		total += math.Exp(ll)
	}
	assert.InDelta(t, 1, total, 1e-9)

	// All unknown marginalises to probability one.
	ll, err := evo.LogLikelihood([]int8{phylo.Unknown, phylo.Unknown, phylo.Unknown})
	require.NoError(t, err)
	assert.InDelta(t, 0, ll, 1e-12)

	// A single observed leaf gives its stationary probability.
	ll, err = evo.LogLikelihood([]int8{phylo.Present, phylo.Unknown, phylo.Unknown})
	require.NoError(t, err)
	assert.InDelta(t, math.Log(evo.Stationary()[1]), ll, 1e-9)

	// Sister species agreeing is more likely than disagreeing.
	agree, _ := evo.LogLikelihood([]int8{1, 1, phylo.Unknown})
	disagree, _ := evo.LogLikelihood([]int8{1, 0, phylo.Unknown})
	assert.Greater(t, agree, disagree)
	assert.Contains(t, evo.String(), "mu=0.3")
}
