package ortho

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for cluster set operations.
var (
	ErrEmptyCluster     = errors.New("ortho: cluster has no members")
	ErrUnknownSpecies   = errors.New("ortho: unknown species")
	ErrDuplicateSpecies = errors.New("ortho: more than one member per species")
	ErrSentinelMember   = errors.New("ortho: sentinel cannot be a cluster member")
	ErrDoubleMembership = errors.New("ortho: node already belongs to a cluster")
	ErrUnknownNode      = errors.New("ortho: member is not an exon of its graph")
)

// Membership is the inclusion state of one species in one cluster.
type Membership int8

const (
	Absent Membership = iota
	Excluded
	Included
)

// String returns the membership name.
func (m Membership) String() string {
	switch m {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "absent"
	}
}

// symbol is the one-character form used in pattern keys.
func (m Membership) symbol() byte {
	switch m {
	case Included:
		return '1'
	case Excluded:
		return '0'
	default:
		return '-'
	}
}

// NodeRef is an index handle to a node of one species graph.
type NodeRef struct {
	Species int
	Node    int
}

// String renders the handle as "species:node".
func (r NodeRef) String() string { return fmt.Sprintf("%d:%d", r.Species, r.Node) }

// Pattern holds one Membership per species.
type Pattern []Membership

// Key returns a compact string form, e.g. "10-1", usable as a map key.
func (p Pattern) Key() string {
	var b strings.Builder
	b.Grow(len(p))
	for _, m := range p {
		b.WriteByte(m.symbol())
	}
	return b.String()
}

// Counts returns how many species are included, excluded and absent.
func (p Pattern) Counts() (included, excluded, absent int) {
	for _, m := range p {
		switch m {
		case Included:
			included++
		case Excluded:
			excluded++
		default:
			absent++
		}
	}
	return included, excluded, absent
}

// Clone returns an independent copy.
func (p Pattern) Clone() Pattern {
	out := make(Pattern, len(p))
	copy(out, p)
	return out
}

// With returns a copy of p with species s set to m.
func (p Pattern) With(s int, m Membership) Pattern {
	out := p.Clone()
	out[s] = m
	return out
}

// Cluster is one orthologous exon group.
type Cluster struct {
	// ID is the position of the cluster in its Set; optimizers visit
	// clusters in ID order.
	ID int

	// Members holds at most one node per species, ordered by species.
	Members []NodeRef

	// Label is the consensus decision for the cluster.
	Label Membership

	// Plausibility is the externally computed evolutionary score.
	Plausibility float64

	// Omega is the dN/dS estimate of the codon model; 0 means not estimated.
	Omega float64
}

// Uniform returns the pattern where every present member species has
// membership m and every other species is Absent.
func (c *Cluster) Uniform(numSpecies int, present []bool, m Membership) Pattern {
	p := make(Pattern, numSpecies)
	for _, ref := range c.Members {
		if isPresent(present, ref.Species) {
			p[ref.Species] = m
		}
	}
	return p
}

// Observe returns the actual pattern of the cluster given which member nodes
// are chosen. Members of absent species are Absent.
func (c *Cluster) Observe(numSpecies int, present []bool, chosen func(NodeRef) bool) Pattern {
	p := make(Pattern, numSpecies)
	for _, ref := range c.Members {
		if !isPresent(present, ref.Species) {
			continue
		}
		if chosen(ref) {
			p[ref.Species] = Included
		} else {
			p[ref.Species] = Excluded
		}
	}
	return p
}

// isPresent treats a nil mask as "all species present".
func isPresent(present []bool, s int) bool {
	if present == nil {
		return true
	}
	return s >= 0 && s < len(present) && present[s]
}
