package pathsolver_test

import (
	"fmt"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/pathsolver"
)

// ExampleBestPath picks the two-exon gene over the weaker single exon.
func ExampleBestPath() {
	g, _, err := genegraph.Build(0, "hs", genegraph.Interval{Start: 1, End: 500}, nil, []genegraph.ExonCandidate{
		{Interval: genegraph.Interval{Start: 10, End: 50}, Score: 2},
		{Interval: genegraph.Interval{Start: 40, End: 120}, Score: 2.5},
		{Interval: genegraph.Interval{Start: 200, End: 260}, Score: 1},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	p, err := pathsolver.BestPath(g)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, i := range p.Nodes {
		fmt.Println(g.Node(i).Interval)
	}
	fmt.Printf("score %.1f\n", p.Score)
	// Output:
	// 40..120
	// 200..260
	// score 3.5
}
