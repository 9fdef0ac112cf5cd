package ortho_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/ortho"
)

func graphWithExon(t *testing.T, species int) (*genegraph.Graph, int) {
	t.Helper()
	g, err := genegraph.New(species, "sp", genegraph.Interval{Start: 1, End: 500})
	require.NoError(t, err)
	ex, err := g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: genegraph.Interval{Start: 10, End: 50}, Score: 1})
	require.NoError(t, err)
	_, err = g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindIntergenic, Interval: genegraph.Interval{Start: 51, End: 60}})
	require.NoError(t, err)
	g.Connect()
	return g, ex
}

func TestAddAssignsIDsAndSortsMembers(t *testing.T) {
	set := ortho.NewSet(3)
	c, err := set.Add([]ortho.NodeRef{{Species: 2, Node: 5}, {Species: 0, Node: 2}}, 1.5, 0.3)
	require.NoError(t, err)
	assert.Equal(t, 0, c.ID)
	assert.Equal(t, []ortho.NodeRef{{Species: 0, Node: 2}, {Species: 2, Node: 5}}, c.Members)
	assert.Equal(t, ortho.Excluded, c.Label)

	c2, err := set.Add([]ortho.NodeRef{{Species: 1, Node: 2}}, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, c2.ID)
	assert.Equal(t, 2, set.Len())
	assert.Same(t, c2, set.Cluster(1))
	assert.Nil(t, set.Cluster(2))

	id, ok := set.ClusterOf(ortho.NodeRef{Species: 2, Node: 5})
	require.True(t, ok)
	assert.Equal(t, 0, id)
	_, ok = set.ClusterOf(ortho.NodeRef{Species: 2, Node: 6})
	assert.False(t, ok)
}

func TestAddRejectsInvalidMembers(t *testing.T) {
	set := ortho.NewSet(2)
	_, err := set.Add(nil, 0, 0)
	assert.ErrorIs(t, err, ortho.ErrEmptyCluster)

	_, err = set.Add([]ortho.NodeRef{{Species: 2, Node: 3}}, 0, 0)
	assert.ErrorIs(t, err, ortho.ErrUnknownSpecies)

	_, err = set.Add([]ortho.NodeRef{{Species: 0, Node: 3}, {Species: 0, Node: 4}}, 0, 0)
	assert.ErrorIs(t, err, ortho.ErrDuplicateSpecies)

	_, err = set.Add([]ortho.NodeRef{{Species: 0, Node: genegraph.SinkIndex}}, 0, 0)
	assert.ErrorIs(t, err, ortho.ErrSentinelMember)

	_, err = set.Add([]ortho.NodeRef{{Species: 0, Node: 3}}, 0, 0)
	require.NoError(t, err)
	_, err = set.Add([]ortho.NodeRef{{Species: 0, Node: 3}, {Species: 1, Node: 3}}, 0, 0)
	assert.ErrorIs(t, err, ortho.ErrDoubleMembership)

	// Failed adds leave no trace.
	assert.Equal(t, 1, set.Len())
	_, ok := set.ClusterOf(ortho.NodeRef{Species: 1, Node: 3})
	assert.False(t, ok)
}

func TestValidateAgainstGraphs(t *testing.T) {
	g0, ex0 := graphWithExon(t, 0)
	g1, _ := graphWithExon(t, 1)

	set := ortho.NewSet(3)
	_, err := set.Add([]ortho.NodeRef{{Species: 0, Node: ex0}, {Species: 2, Node: 7}}, 1, 0)
	require.NoError(t, err)
	// Species 2 is absent, its member is ignored.
	require.NoError(t, set.Validate([]*genegraph.Graph{g0, g1, nil}))

	// Intergenic node of species 1 is not an exon.
	_, err = set.Add([]ortho.NodeRef{{Species: 1, Node: 3}}, 1, 0)
	require.NoError(t, err)
	require.ErrorIs(t, set.Validate([]*genegraph.Graph{g0, g1, nil}), ortho.ErrUnknownNode)
}

func TestPatternsAndPresence(t *testing.T) {
	set := ortho.NewSet(4)
	c, err := set.Add([]ortho.NodeRef{{Species: 0, Node: 2}, {Species: 1, Node: 2}, {Species: 3, Node: 4}}, 1, 0)
	require.NoError(t, err)

	present := []bool{true, true, true, false}
	assert.Equal(t, "11--", c.Uniform(4, present, ortho.Included).Key())
	assert.Equal(t, "00--", c.Uniform(4, present, ortho.Excluded).Key())
	assert.Equal(t, "11-1", c.Uniform(4, nil, ortho.Included).Key(), "nil mask means all present")

	chosen := func(r ortho.NodeRef) bool { return r.Species == 0 }
	p := c.Observe(4, present, chosen)
	assert.Equal(t, "10--", p.Key())
	in, ex, ab := p.Counts()
	assert.Equal(t, []int{1, 1, 2}, []int{in, ex, ab})

	q := p.With(1, ortho.Included)
	assert.Equal(t, "11--", q.Key())
	assert.Equal(t, "10--", p.Key(), "With must not mutate the receiver")

	assert.Len(t, c.PresentMembers(present), 2)
	assert.Equal(t, []bool{true, false}, ortho.Present([]*genegraph.Graph{{}, nil}))
}

func TestMembershipString(t *testing.T) {
	assert.Equal(t, "included", ortho.Included.String())
	assert.Equal(t, "excluded", ortho.Excluded.String())
	assert.Equal(t, "absent", ortho.Absent.String())
}
