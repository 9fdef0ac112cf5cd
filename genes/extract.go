package genes

import (
	"fmt"
	"sync"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/pathsolver"
)

// Feature is one exon or intron of a gene.
type Feature struct {
	Kind  string  `yaml:"kind"`
	Start int     `yaml:"start"`
	End   int     `yaml:"end"`
	Score float64 `yaml:"score"`
}

// Gene is one predicted gene structure.
type Gene struct {
	ID       int       `yaml:"id"`
	Species  int       `yaml:"-"`
	Start    int       `yaml:"start"`
	End      int       `yaml:"end"`
	Score    float64   `yaml:"score"`
	Features []Feature `yaml:"features"`
}

// Name returns the conventional gene name "g<ID>".
func (g Gene) Name() string { return fmt.Sprintf("g%d", g.ID) }

// Exons returns the number of exon features.
func (g Gene) Exons() int {
	n := 0
	for _, f := range g.Features {
		if f.Kind == genegraph.KindExon.String() {
			n++
		}
	}
	return n
}

// Extractor assigns gene identifiers. It is safe for concurrent use.
type Extractor struct {
	mu   sync.Mutex
	next map[int]int // species → last assigned id
}

// NewExtractor returns an extractor whose counters start at 1.
func NewExtractor() *Extractor {
	return &Extractor{next: make(map[int]int)}
}

// Issued returns how many identifiers were assigned for species so far.
func (x *Extractor) Issued(species int) int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.next[species]
}

// Extract converts the path of every species into genes. The result is
// indexed like paths; absent species and empty paths yield no genes.
func (x *Extractor) Extract(graphs []*genegraph.Graph, paths []pathsolver.Path) [][]Gene {
	x.mu.Lock()
	defer x.mu.Unlock()

	out := make([][]Gene, len(paths))
	for s, p := range paths {
		if p.Absent || s >= len(graphs) || graphs[s] == nil {
			continue
		}
		for _, seg := range Segments(graphs[s], p.Nodes) {
			gene, ok := build(graphs[s], seg)
			if !ok {
				continue
			}
			x.next[s]++
			gene.ID = x.next[s]
			gene.Species = s
			out[s] = append(out[s], gene)
		}
	}
	return out
}

// Segments splits nodes at intergenic nodes. Intergenic nodes belong to no
// segment; empty segments are dropped.
func Segments(g *genegraph.Graph, nodes []int) [][]int {
	var (
		out [][]int
		cur []int
	)
	for _, i := range nodes {
		if g.Node(i).Kind == genegraph.KindIntergenic {
			if len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			continue
		}
		cur = append(cur, i)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// build validates one segment and converts it into a gene.
func build(g *genegraph.Graph, seg []int) (Gene, bool) {
	first, last := g.Node(seg[0]), g.Node(seg[len(seg)-1])
	if first.Kind != genegraph.KindExon || last.Kind != genegraph.KindExon {
		return Gene{}, false
	}
	gene := Gene{Start: first.Interval.Start, End: last.Interval.End}
	for k, i := range seg {
		n := g.Node(i)
		if n.Kind == genegraph.KindIntron {
			// flanked by exons on both sides
			if g.Node(seg[k-1]).Kind != genegraph.KindExon || g.Node(seg[k+1]).Kind != genegraph.KindExon {
				return Gene{}, false
			}
		}
		gene.Score += n.Score()
		gene.Features = append(gene.Features, Feature{
			Kind:  n.Kind.String(),
			Start: n.Interval.Start,
			End:   n.Interval.End,
			Score: n.Score(),
		})
	}
	return gene, true
}

// SampledExon describes one exon node of a candidate graph.
type SampledExon struct {
	Start    int     `yaml:"start"`
	End      int     `yaml:"end"`
	Score    float64 `yaml:"score"`
	Evidence int     `yaml:"evidence"`
	Source   string  `yaml:"source"`
}

// SampledExons lists the exon nodes of g ordered by start.
func SampledExons(g *genegraph.Graph) []SampledExon {
	if g == nil {
		return nil
	}
	idx := g.Exons()
	out := make([]SampledExon, 0, len(idx))
	for _, i := range idx {
		n := g.Node(i)
		out = append(out, SampledExon{
			Start:    n.Interval.Start,
			End:      n.Interval.End,
			Score:    n.Base,
			Evidence: n.Evidence,
			Source:   n.Source.String(),
		})
	}
	return out
}
