package ortho

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/compgene/genegraph"
)

// Set is the collection of clusters of one gene range.
type Set struct {
	numSpecies int
	clusters   []*Cluster
	byNode     map[NodeRef]int
}

// NewSet returns an empty set for numSpecies species.
func NewSet(numSpecies int) *Set {
	return &Set{
		numSpecies: numSpecies,
		byNode:     make(map[NodeRef]int),
	}
}

// NumSpecies returns the number of species patterns are sized for.
func (s *Set) NumSpecies() int { return s.numSpecies }

// Len returns the number of clusters.
func (s *Set) Len() int { return len(s.clusters) }

// Clusters returns the clusters in ID order. The slice must not be modified.
func (s *Set) Clusters() []*Cluster { return s.clusters }

// Cluster returns the cluster with the given ID or nil.
func (s *Set) Cluster(id int) *Cluster {
	if id < 0 || id >= len(s.clusters) {
		return nil
	}
	return s.clusters[id]
}

// ClusterOf returns the ID of the cluster that ref belongs to.
func (s *Set) ClusterOf(ref NodeRef) (int, bool) {
	id, ok := s.byNode[ref]
	return id, ok
}

// Add validates members and appends a new cluster. The cluster's ID is
// assigned by the set; Members are stored sorted by species.
//
// Complexity: O(m log m) for m members.
func (s *Set) Add(members []NodeRef, plausibility, omega float64) (*Cluster, error) {
	if len(members) == 0 {
		return nil, ErrEmptyCluster
	}
	refs := append([]NodeRef(nil), members...)
	sort.Slice(refs, func(a, b int) bool { return refs[a].Species < refs[b].Species })

	for i, ref := range refs {
		if ref.Species < 0 || ref.Species >= s.numSpecies {
			return nil, fmt.Errorf("%w: %d", ErrUnknownSpecies, ref.Species)
		}
		if i > 0 && refs[i-1].Species == ref.Species {
			return nil, fmt.Errorf("%w: species %d", ErrDuplicateSpecies, ref.Species)
		}
		if ref.Node == genegraph.SourceIndex || ref.Node == genegraph.SinkIndex || ref.Node < 0 {
			return nil, fmt.Errorf("%w: %s", ErrSentinelMember, ref)
		}
		if id, ok := s.byNode[ref]; ok {
			return nil, fmt.Errorf("%w: %s in cluster %d", ErrDoubleMembership, ref, id)
		}
	}

	c := &Cluster{
		ID:           len(s.clusters),
		Members:      refs,
		Label:        Excluded,
		Plausibility: plausibility,
		Omega:        omega,
	}
	s.clusters = append(s.clusters, c)
	for _, ref := range refs {
		s.byNode[ref] = c.ID
	}

	return c, nil
}

// Validate checks that every member of a present species is an exon node of
// that species' graph. graphs is indexed by species; a nil graph marks an
// absent species whose members are ignored.
func (s *Set) Validate(graphs []*genegraph.Graph) error {
	for _, c := range s.clusters {
		for _, ref := range c.Members {
			g := graphAt(graphs, ref.Species)
			if g == nil {
				continue
			}
			n := g.Node(ref.Node)
			if n == nil || n.Kind != genegraph.KindExon {
				return fmt.Errorf("%w: cluster %d member %s", ErrUnknownNode, c.ID, ref)
			}
		}
	}
	return nil
}

// Present returns the presence mask of graphs: present[s] is true iff
// graphs[s] is non-nil.
func Present(graphs []*genegraph.Graph) []bool {
	out := make([]bool, len(graphs))
	for i, g := range graphs {
		out[i] = g != nil
	}
	return out
}

// PresentMembers returns the members of c whose species is present.
func (c *Cluster) PresentMembers(present []bool) []NodeRef {
	out := make([]NodeRef, 0, len(c.Members))
	for _, ref := range c.Members {
		if isPresent(present, ref.Species) {
			out = append(out, ref)
		}
	}
	return out
}

func graphAt(graphs []*genegraph.Graph, s int) *genegraph.Graph {
	if s < 0 || s >= len(graphs) {
		return nil
	}
	return graphs[s]
}
