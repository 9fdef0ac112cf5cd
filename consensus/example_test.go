package consensus_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/compgene/consensus"
	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pressure"
)

// ExampleOptimizer_Optimize reconciles two species that disagree on an
// orthologous exon worth more than the cost of including it.
func ExampleOptimizer_Optimize() {
	build := func(species int, x, y float64) *genegraph.Graph {
		g, _, _ := genegraph.Build(species, "sp", genegraph.Interval{Start: 1, End: 1000}, nil, []genegraph.ExonCandidate{
			{Interval: genegraph.Interval{Start: 100, End: 200}, Score: x},
			{Interval: genegraph.Interval{Start: 150, End: 260}, Score: y},
		})
		return g
	}
	graphs := []*genegraph.Graph{build(0, 3, 1), build(1, 1, 3)}

	set := ortho.NewSet(2)
	_, _ = set.Add([]ortho.NodeRef{{Species: 0, Node: 2}, {Species: 1, Node: 2}}, 10, 0)

	cfg := consensus.DefaultConfig()
	cfg.Strategy = consensus.StrategyDualDecomposition
	opt, _ := consensus.New(cfg)
	res, err := opt.Optimize(context.Background(), consensus.Problem{
		Graphs:       graphs,
		Clusters:     set,
		Plausibility: pressure.Majority{},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	for s, p := range res.Paths {
		fmt.Println("species", s, "exon", graphs[s].Node(p.Nodes[0]).Interval)
	}
	fmt.Println(res.Labels[0], res.Iterations, res.Converged)
	// Output:
	// species 0 exon 100..200
	// species 1 exon 100..200
	// included 4 true
}
