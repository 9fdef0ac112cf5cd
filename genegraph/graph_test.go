package genegraph_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/compgene/genegraph"
)

type GraphSuite struct {
	suite.Suite
	g *genegraph.Graph
}

func (s *GraphSuite) SetupTest() {
	g, err := genegraph.New(0, "hs", genegraph.Interval{Start: 1, End: 1000})
	s.Require().NoError(err)
	s.g = g
}

func (s *GraphSuite) add(kind genegraph.Kind, start, end int, score float64) int {
	idx, err := s.g.AddNode(genegraph.NodeSpec{
		Kind:     kind,
		Interval: genegraph.Interval{Start: start, End: end},
		Score:    score,
		Source:   genegraph.SourceSampled,
	})
	s.Require().NoError(err)
	return idx
}

func (s *GraphSuite) TestNewHasSentinelsAndEmptyPathEdge() {
	require := require.New(s.T())
	require.Equal(2, s.g.Len())
	require.Equal(genegraph.KindSource, s.g.Node(genegraph.SourceIndex).Kind)
	require.Equal(genegraph.KindSink, s.g.Node(genegraph.SinkIndex).Kind)
	require.NotNil(s.g.Edge(genegraph.SourceIndex, genegraph.SinkIndex), "source→sink must exist")
	require.Nil(s.g.Node(2))
	require.Nil(s.g.Node(-1))
}

func (s *GraphSuite) TestNewRejectsBadSpan() {
	_, err := genegraph.New(0, "hs", genegraph.Interval{Start: 10, End: 5})
	s.Require().ErrorIs(err, genegraph.ErrBadInterval)
}

func (s *GraphSuite) TestAddNodeValidation() {
	require := require.New(s.T())

	_, err := s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindSource, Interval: genegraph.Interval{Start: 1, End: 2}})
	require.ErrorIs(err, genegraph.ErrSentinelKind)

	_, err = s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: genegraph.Interval{Start: 20, End: 10}})
	require.ErrorIs(err, genegraph.ErrBadInterval)

	_, err = s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: genegraph.Interval{Start: 990, End: 1010}})
	require.ErrorIs(err, genegraph.ErrOutOfRange)

	require.Equal(2, s.g.Len(), "rejected nodes must not be stored")
}

func (s *GraphSuite) TestAddNodeMergePolicy() {
	require := require.New(s.T())
	iv := genegraph.Interval{Start: 10, End: 20}

	a, err := s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: iv, Score: 1, Source: genegraph.SourceSampled})
	require.NoError(err)

	// Higher score wins and takes over the source.
	b, err := s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: iv, Score: 2, Source: genegraph.SourceCandidate})
	require.NoError(err)
	require.Equal(a, b)
	n := s.g.Node(a)
	require.Equal(2.0, n.Base)
	require.Equal(genegraph.SourceCandidate, n.Source)
	require.Equal(2, n.Evidence)

	// Equal score with more evidence decides the source.
	_, err = s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: iv, Score: 2, Evidence: 3, Source: genegraph.SourceSampled})
	require.NoError(err)
	require.Equal(genegraph.SourceSampled, n.Source)
	require.Equal(5, n.Evidence)

	// Lower score only adds evidence.
	_, err = s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindExon, Interval: iv, Score: 0.5, Source: genegraph.SourceCandidate})
	require.NoError(err)
	require.Equal(2.0, n.Base)
	require.Equal(genegraph.SourceSampled, n.Source)
	require.Equal(6, n.Evidence)

	// Same interval, different kind: separate node.
	c, err := s.g.AddNode(genegraph.NodeSpec{Kind: genegraph.KindIntergenic, Interval: iv})
	require.NoError(err)
	require.NotEqual(a, c)
}

func (s *GraphSuite) TestCompatibleSpliceRules() {
	require := require.New(s.T())
	e1 := s.add(genegraph.KindExon, 10, 20, 1)
	e2 := s.add(genegraph.KindExon, 50, 60, 1) // gap 29 ≥ 20
	e3 := s.add(genegraph.KindExon, 30, 40, 1) // gap 9 < 20
	in := s.add(genegraph.KindIntron, 21, 49, 0)
	ig := s.add(genegraph.KindIntergenic, 61, 100, 0)

	require.True(s.g.Compatible(e1, e2))
	require.False(s.g.Compatible(e1, e3), "implicit intron too short")
	require.False(s.g.Compatible(e2, e1), "edges follow sequence order")
	require.True(s.g.Compatible(e1, in))
	require.True(s.g.Compatible(in, e2))
	require.False(s.g.Compatible(in, e3), "intron must abut the next exon")
	require.True(s.g.Compatible(e2, ig))
	require.True(s.g.Compatible(ig, genegraph.SinkIndex))
	require.False(s.g.Compatible(genegraph.SourceIndex, in), "genes cannot start with an intron")
	require.False(s.g.Compatible(in, genegraph.SinkIndex), "genes cannot end with an intron")
	require.True(s.g.Compatible(genegraph.SourceIndex, e1))
	require.False(s.g.Compatible(genegraph.SinkIndex, e1))
	require.False(s.g.Compatible(e1, e1))
}

func (s *GraphSuite) TestAddEdgeAccumulatesAndValidates() {
	require := require.New(s.T())
	e1 := s.add(genegraph.KindExon, 10, 20, 1)
	e2 := s.add(genegraph.KindExon, 50, 60, 1)
	e3 := s.add(genegraph.KindExon, 30, 40, 1)

	require.NoError(s.g.AddEdge(e1, e2, 0.5))
	require.NoError(s.g.AddEdge(e1, e2, 0.25))
	require.InDelta(0.75, s.g.Edge(e1, e2).Weight, 1e-12)
	require.Len(s.g.Node(e1).Out(), 1)
	require.Len(s.g.Node(e2).In(), 1)

	require.ErrorIs(s.g.AddEdge(e1, e3, 1), genegraph.ErrIncompatibleEdge)
	require.ErrorIs(s.g.AddEdge(e1, 99, 1), genegraph.ErrNodeNotFound)
}

func (s *GraphSuite) TestConnectKeepsSampledWeights() {
	require := require.New(s.T())
	e1 := s.add(genegraph.KindExon, 10, 20, 1)
	e2 := s.add(genegraph.KindExon, 50, 60, 1)
	require.NoError(s.g.AddEdge(e1, e2, 2))

	s.g.Connect()
	require.InDelta(2.0, s.g.Edge(e1, e2).Weight, 1e-12)
	require.NotNil(s.g.Edge(genegraph.SourceIndex, e1))
	require.NotNil(s.g.Edge(e2, genegraph.SinkIndex))
	require.Len(s.g.Node(e1).Out(), 2, "e1→e2 and e1→sink")

	// Idempotent.
	s.g.Connect()
	require.Len(s.g.Node(e1).Out(), 2)
	require.NoError(s.g.Validate())
}

func (s *GraphSuite) TestPressure() {
	require := require.New(s.T())
	e1 := s.add(genegraph.KindExon, 10, 20, 1)

	require.NoError(s.g.SetPressure(e1, 0.5))
	require.InDelta(1.5, s.g.Node(e1).Score(), 1e-12)
	require.ErrorIs(s.g.SetPressure(genegraph.SourceIndex, 1), genegraph.ErrSentinelKind)
	require.ErrorIs(s.g.SetPressure(42, 1), genegraph.ErrNodeNotFound)

	s.g.ResetPressure()
	require.InDelta(1.0, s.g.Node(e1).Score(), 1e-12)
}

func (s *GraphSuite) TestFindAndExonsOrder() {
	require := require.New(s.T())
	late := s.add(genegraph.KindExon, 500, 600, 1)
	early := s.add(genegraph.KindExon, 10, 20, 1)
	s.add(genegraph.KindIntron, 21, 40, 0)

	idx, ok := s.g.Find(genegraph.KindExon, genegraph.Interval{Start: 500, End: 600})
	require.True(ok)
	require.Equal(late, idx)
	_, ok = s.g.Find(genegraph.KindIntron, genegraph.Interval{Start: 500, End: 600})
	require.False(ok)

	require.Equal([]int{early, late}, s.g.Exons())
}

func TestGraphSuite(t *testing.T) {
	suite.Run(t, new(GraphSuite))
}
