package pathsolver

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/compgene/genegraph"
)

// BestPath returns the maximum-score path of g.
//
// Steps:
//  1. Validate graph and options.
//  2. Compute the topological order.
//  3. Relax every node's incoming edges in that order.
//  4. Walk predecessors back from the sink.
func BestPath(g *genegraph.Graph, opts ...Option) (Path, error) {
	// 1) Build and validate options
	if g == nil {
		return Path{}, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Adjustments != nil && len(cfg.Adjustments) < g.Len() {
		return Path{}, fmt.Errorf("%w: %d < %d", ErrAdjustmentLength, len(cfg.Adjustments), g.Len())
	}

	// 2) Topological order
	order, err := g.TopologicalOrder()
	if err != nil {
		return Path{}, err
	}

	// 3) Dynamic programming
	r := &runner{
		g:    g,
		opts: cfg,
		best: make([]float64, g.Len()),
		pred: make([]int, g.Len()),
	}
	r.run(order)

	// 4) Reconstruct
	return r.path(), nil
}

// runner holds the DP state of one solve.
type runner struct {
	g    *genegraph.Graph
	opts Options
	best []float64
	pred []int
}

// nodeScore returns the score of node v under the options.
func (r *runner) nodeScore(v int) float64 {
	return nodeScore(r.g.Node(v), r.opts)
}

func nodeScore(n *genegraph.Node, opts Options) float64 {
	if n.IsSentinel() {
		return 0
	}
	s := n.Score()
	if opts.BaseOnly {
		s = n.Base
	}
	if opts.Adjustments != nil {
		s += opts.Adjustments[n.Index]
	}
	return s
}

func (r *runner) run(order []int) {
	neg := math.Inf(-1)
	for i := range r.best {
		r.best[i] = neg
		r.pred[i] = -1
	}
	r.best[genegraph.SourceIndex] = 0

	for _, v := range order {
		if v == genegraph.SourceIndex || (r.opts.Forbidden[v] && !r.g.Node(v).IsSentinel()) {
			continue
		}
		bestVal, bestPred := neg, -1
		for _, e := range r.g.Node(v).In() {
			u := e.From
			if math.IsInf(r.best[u], -1) {
				continue
			}
			cand := r.best[u] + e.Weight
			switch {
			case bestPred < 0 || cand > bestVal+Epsilon:
				bestVal, bestPred = cand, u
			case cand >= bestVal-Epsilon && r.g.Before(u, bestPred):
				bestVal, bestPred = cand, u
			}
		}
		if bestPred < 0 {
			continue
		}
		r.best[v] = bestVal + r.nodeScore(v)
		r.pred[v] = bestPred
	}
}

func (r *runner) path() Path {
	p := Path{Species: r.g.Species(), Score: r.best[genegraph.SinkIndex]}
	for v := r.pred[genegraph.SinkIndex]; v > genegraph.SourceIndex; v = r.pred[v] {
		p.Nodes = append(p.Nodes, v)
	}
	for i, j := 0, len(p.Nodes)-1; i < j; i, j = i+1, j-1 {
		p.Nodes[i], p.Nodes[j] = p.Nodes[j], p.Nodes[i]
	}
	return p
}

// ScoreOf recomputes the score of the node sequence nodes (sentinels
// excluded) under opts: node scores plus the weights of the traversed edges.
func ScoreOf(g *genegraph.Graph, nodes []int, opts ...Option) (float64, error) {
	if g == nil {
		return 0, ErrNilGraph
	}
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Adjustments != nil && len(cfg.Adjustments) < g.Len() {
		return 0, fmt.Errorf("%w: %d < %d", ErrAdjustmentLength, len(cfg.Adjustments), g.Len())
	}

	total := 0.0
	prev := genegraph.SourceIndex
	for _, v := range append(append([]int(nil), nodes...), genegraph.SinkIndex) {
		e := g.Edge(prev, v)
		if e == nil {
			return 0, fmt.Errorf("%w: no edge %d→%d", ErrNotAPath, prev, v)
		}
		total += e.Weight + nodeScore(g.Node(v), cfg)
		prev = v
	}
	return total, nil
}

// SolveAll runs BestPath for every species concurrently, at most workers at
// a time (workers ≤ 0 means unlimited). graphs is indexed by species; nil
// graphs yield an Absent path. optsFor, when non-nil, supplies per-species
// options.
func SolveAll(ctx context.Context, graphs []*genegraph.Graph, workers int, optsFor func(species int) []Option) ([]Path, error) {
	paths := make([]Path, len(graphs))
	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for s, g := range graphs {
		if g == nil {
			paths[s] = Path{Species: s, Absent: true}
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var opts []Option
			if optsFor != nil {
				opts = optsFor(s)
			}
			p, err := BestPath(g, opts...)
			if err != nil {
				return fmt.Errorf("pathsolver: species %d: %w", s, err)
			}
			p.Species = s
			paths[s] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
