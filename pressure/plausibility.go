package pressure

import (
	"fmt"

	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/phylo"
)

// Plausibility returns the score contribution of cluster c when its member
// species follow pattern p. Implementations must be safe for concurrent use
// and deterministic.
type Plausibility interface {
	Score(c *ortho.Cluster, p ortho.Pattern) float64
}

// PlausibilityFunc adapts a function to Plausibility.
type PlausibilityFunc func(c *ortho.Cluster, p ortho.Pattern) float64

// Score calls f(c, p).
func (f PlausibilityFunc) Score(c *ortho.Cluster, p ortho.Pattern) float64 { return f(c, p) }

// Majority awards the cluster's external plausibility when more present
// species include the exon than exclude it, and nothing otherwise.
type Majority struct{}

// Score implements Plausibility.
func (Majority) Score(c *ortho.Cluster, p ortho.Pattern) float64 {
	in, ex, _ := p.Counts()
	if in > ex {
		return c.Plausibility
	}
	return 0
}

// Sum adds the scores of its parts.
type Sum []Plausibility

// Score implements Plausibility.
func (s Sum) Score(c *ortho.Cluster, p ortho.Pattern) float64 {
	total := 0.0
	for _, part := range s {
		total += part.Score(c, p)
	}
	return total
}

// Phylo scores a pattern as Factor times its log-likelihood under the exon
// gain/loss model. Absent species and species missing from the tree are
// marginalised.
type Phylo struct {
	Factor float64

	evo    *phylo.ExonEvo
	leaves int
	leafOf []int // species index → leaf index, -1 when not in the tree
}

// NewPhylo binds the model to the species order used by patterns. The
// model's tree must already be prepared with ComputeLogPMatrices.
func NewPhylo(evo *phylo.ExonEvo, factor float64, species []string) (*Phylo, error) {
	tree := evo.Tree()
	if tree == nil {
		return nil, phylo.ErrNotPrepared
	}
	p := &Phylo{Factor: factor, evo: evo, leaves: len(tree.Leaves()), leafOf: make([]int, len(species))}
	matched := 0
	for i, name := range species {
		p.leafOf[i] = -1
		if leaf, ok := tree.LeafIndex(name); ok {
			p.leafOf[i] = leaf
			matched++
		}
	}
	if matched == 0 {
		return nil, fmt.Errorf("pressure: no species of %v in tree %s", species, tree)
	}
	return p, nil
}

// Score implements Plausibility. It panics when the model was prepared
// with a different tree after NewPhylo.
func (p *Phylo) Score(_ *ortho.Cluster, pat ortho.Pattern) float64 {
	states := make([]int8, p.leaves)
	for i := range states {
		states[i] = phylo.Unknown
	}
	for s, m := range pat {
		if s >= len(p.leafOf) || p.leafOf[s] < 0 {
			continue
		}
		switch m {
		case ortho.Included:
			states[p.leafOf[s]] = phylo.Present
		case ortho.Excluded:
			states[p.leafOf[s]] = phylo.Lost
		}
	}
	ll, err := p.evo.LogLikelihood(states)
	if err != nil {
		panic(fmt.Sprintf("pressure: phylo score: %v", err))
	}
	return p.Factor * ll
}
