package consensus

import (
	"context"
	"fmt"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
	"github.com/katalvlaran/compgene/pressure"
)

// Optimizer runs one of the consensus strategies.
type Optimizer struct {
	cfg Config
	log logger.Logger
}

// New validates cfg and returns an Optimizer.
func New(cfg Config, opts ...Option) (*Optimizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := &Optimizer{cfg: cfg, log: logger.NewDiscardLogger()}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Config returns the optimizer configuration.
func (o *Optimizer) Config() Config { return o.cfg }

// run is the per-call state shared by both strategies.
type run struct {
	*Optimizer
	ctx    context.Context
	ev     *evaluator
	graphs []*genegraph.Graph
	set    *ortho.Set
}

// Optimize reconciles the paths of p. The strategy is chosen once per call.
//
// Steps:
//  1. Normalise the problem (empty set, default plausibility).
//  2. Obtain initial paths.
//  3. Short-circuit when there are no clusters.
//  4. Dispatch to the configured strategy.
func (o *Optimizer) Optimize(ctx context.Context, p Problem) (*Result, error) {
	// 1) Normalise
	set := p.Clusters
	if set == nil {
		set = ortho.NewSet(len(p.Graphs))
	}
	if set.NumSpecies() != len(p.Graphs) {
		return nil, fmt.Errorf("%w: set %d, graphs %d", ErrSpeciesMismatch, set.NumSpecies(), len(p.Graphs))
	}
	plaus := p.Plausibility
	if plaus == nil {
		plaus = pressure.Majority{}
	}
	r := &run{
		Optimizer: o,
		ctx:       ctx,
		ev:        newEvaluator(p.Graphs, set, plaus),
		graphs:    p.Graphs,
		set:       set,
	}

	// 2) Initial paths
	initial, err := r.initialPaths(p.Initial)
	if err != nil {
		return nil, err
	}

	// 3) Nothing to reconcile
	if set.Len() == 0 {
		obj, err := r.ev.objective(initial)
		if err != nil {
			return nil, err
		}
		o.log.Debug("no clusters, keeping independent paths")
		return &Result{
			Strategy:  o.cfg.Strategy,
			Paths:     initial,
			Labels:    []ortho.Membership{},
			Objective: obj,
			Converged: true,
			Trace:     []float64{obj},
		}, nil
	}

	// 4) Dispatch
	var res *Result
	switch o.cfg.Strategy {
	case StrategyDualDecomposition:
		res, err = r.dualDecomposition()
	default:
		res, err = r.localMove(initial)
	}
	if err != nil {
		return nil, err
	}
	r.ev.dump(o.log)
	o.log.Info("optimization finished",
		logger.String("strategy", o.cfg.Strategy.String()),
		logger.Int("clusters", set.Len()),
		logger.Int("iterations", res.Iterations),
		logger.Int("flips", res.Flips),
		logger.Int("unresolved", len(res.Unresolved)),
		logger.Bool("converged", res.Converged),
		logger.Float64("objective", res.Objective))

	return res, nil
}

// initialPaths validates the supplied paths or computes independent ones.
func (r *run) initialPaths(given []pathsolver.Path) ([]pathsolver.Path, error) {
	if given == nil {
		paths, err := r.solve(r.graphs, nil, nil)
		if err != nil {
			return nil, err
		}
		return r.ev.withScores(paths)
	}
	if len(given) != len(r.graphs) {
		return nil, fmt.Errorf("%w: %d paths for %d species", ErrInitialPaths, len(given), len(r.graphs))
	}
	out := make([]pathsolver.Path, len(given))
	for s, p := range given {
		if (r.graphs[s] == nil) != p.Absent {
			return nil, fmt.Errorf("%w: species %d presence differs", ErrInitialPaths, s)
		}
		out[s] = p
		out[s].Species = s
		out[s].Nodes = append([]int(nil), p.Nodes...)
	}
	return r.ev.withScores(out)
}

// solve runs the independent solver on graphs with per-species adjustment
// vectors and forbidden sets; either slice and any entry may be nil.
func (r *run) solve(graphs []*genegraph.Graph, adj [][]float64, forbidden []map[int]bool) ([]pathsolver.Path, error) {
	return pathsolver.SolveAll(r.ctx, graphs, r.cfg.Workers, func(s int) []pathsolver.Option {
		var opts []pathsolver.Option
		if adj != nil && adj[s] != nil {
			opts = append(opts, pathsolver.WithAdjustments(adj[s]))
		}
		if forbidden != nil && forbidden[s] != nil {
			opts = append(opts, pathsolver.WithForbidden(forbidden[s]))
		}
		return opts
	})
}

// only returns a graph slice holding just the listed species.
func (r *run) only(species map[int]bool) []*genegraph.Graph {
	out := make([]*genegraph.Graph, len(r.graphs))
	for s := range species {
		out[s] = r.graphs[s]
	}
	return out
}
