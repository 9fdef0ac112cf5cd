package pressure

import (
	"fmt"
	"math"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/ortho"
)

// Scorer applies selective-pressure contributions to candidate graphs.
type Scorer struct {
	// OmegaWeight scales −ln(omega) of a cluster. Default 1.
	OmegaWeight float64

	// OrphanPenalty is subtracted from exons that belong to no cluster.
	// Default 0: exons of species without orthologs in the range keep their
	// base score.
	OrphanPenalty float64
}

// NewScorer returns a Scorer with the default weights.
func NewScorer() *Scorer { return &Scorer{OmegaWeight: 1} }

// Stats summarises one Apply call.
type Stats struct {
	Clusters int // clusters with at least two present members
	Nodes    int // member nodes that received a contribution
	Orphans  int // exon nodes that received the orphan penalty
}

// Contribution returns the additive node score of each of the members
// present members of cluster c. With an omega estimate it is
// OmegaWeight·(−ln omega); without one the cluster's plausibility is shared
// among its members.
func (s *Scorer) Contribution(c *ortho.Cluster, members int) float64 {
	if c.Omega > 0 {
		return s.OmegaWeight * -math.Log(c.Omega)
	}
	if members == 0 {
		return 0
	}
	return c.Plausibility / float64(members)
}

// Apply resets the pressure of every node, then adds the contribution of
// each cluster with at least two present members to those members, and the
// orphan penalty to unclustered exons. graphs is indexed by species; nil
// graphs are absent species.
func (s *Scorer) Apply(graphs []*genegraph.Graph, set *ortho.Set) (Stats, error) {
	var st Stats
	present := ortho.Present(graphs)

	// 1. Clear previous contributions
	for _, g := range graphs {
		if g != nil {
			g.ResetPressure()
		}
	}

	// 2. Cluster contributions
	for _, c := range set.Clusters() {
		members := c.PresentMembers(present)
		if len(members) < 2 {
			continue
		}
		st.Clusters++
		v := s.Contribution(c, len(members))
		for _, ref := range members {
			if err := graphs[ref.Species].SetPressure(ref.Node, v); err != nil {
				return st, fmt.Errorf("pressure: cluster %d member %s: %w", c.ID, ref, err)
			}
			st.Nodes++
		}
	}

	// 3. Orphan exons
	if s.OrphanPenalty == 0 {
		return st, nil
	}
	for sp, g := range graphs {
		if g == nil {
			continue
		}
		for _, i := range g.Exons() {
			if _, ok := set.ClusterOf(ortho.NodeRef{Species: sp, Node: i}); ok {
				continue
			}
			if err := g.SetPressure(i, -s.OrphanPenalty); err != nil {
				return st, err
			}
			st.Orphans++
		}
	}

	return st, nil
}
