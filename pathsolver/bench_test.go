package pathsolver_test

import (
	"testing"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/pathsolver"
)

func benchGraph(b *testing.B, n int) *genegraph.Graph {
	b.Helper()
	cands := make([]genegraph.ExonCandidate, n)
	for i := range cands {
		start := 10 + i*60
		cands[i] = genegraph.ExonCandidate{
			Interval: genegraph.Interval{Start: start, End: start + 30 + i%40},
			Score:    float64(i%5) - 1.5,
		}
	}
	g, _, err := genegraph.Build(0, "hs", genegraph.Interval{Start: 1, End: n*60 + 200}, nil, cands)
	if err != nil {
		b.Fatal(err)
	}
	return g
}

func BenchmarkBestPath300(b *testing.B) {
	g := benchGraph(b, 300)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pathsolver.BestPath(g); err != nil {
			b.Fatal(err)
		}
	}
}
