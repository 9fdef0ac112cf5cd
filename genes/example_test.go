package genes_test

import (
	"fmt"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/genes"
	"github.com/katalvlaran/compgene/pathsolver"
)

// ExampleExtractor_Extract cuts a best path into genes.
func ExampleExtractor_Extract() {
	g, _, _ := genegraph.Build(0, "hs", genegraph.Interval{Start: 1, End: 1000}, nil, []genegraph.ExonCandidate{
		{Interval: genegraph.Interval{Start: 40, End: 120}, Score: 2},
		{Interval: genegraph.Interval{Start: 200, End: 260}, Score: 1.5},
	})
	best, _ := pathsolver.BestPath(g)

	x := genes.NewExtractor()
	for _, gene := range x.Extract([]*genegraph.Graph{g}, []pathsolver.Path{best})[0] {
		fmt.Println(gene.Name(), gene.Start, gene.End, gene.Exons())
	}
	// Output:
	// g1 40 260 2
}
