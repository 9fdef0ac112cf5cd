package consensus

import (
	"math"
	"sort"

	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
)

// dualDecomposition runs the subgradient method on the relaxed agreement
// constraints.
//
// For fixed multipliers λ the Lagrangian separates into one longest-path
// problem per species (member nodes of coupled clusters gain λ_c) and a
// closed-form choice of the consensus label y_c per cluster:
//
//	y_c = 1  iff  w_c − m_c·λ_c > ε,  w_c = P_c(all in) − P_c(all out)
//
// Values within ε of zero are decided by the majority of the species
// decisions; an even split selects exclusion.
func (r *run) dualDecomposition() (*Result, error) {
	ev := r.ev
	clusters := r.set.Clusters()
	res := &Result{Strategy: StrategyDualDecomposition}

	// 1) Consensus gains, member counts and the constant dual term
	w := make([]float64, len(clusters))
	m := make([]int, len(clusters))
	constant := 0.0
	single := make([][]float64, len(r.graphs))
	for _, c := range clusters {
		members := c.PresentMembers(ev.present)
		m[c.ID] = len(members)
		out := ev.uniform(c, ortho.Excluded)
		constant += out
		if len(members) == 0 {
			continue
		}
		w[c.ID] = ev.uniform(c, ortho.Included) - out
		if len(members) == 1 {
			ref := members[0]
			if single[ref.Species] == nil {
				single[ref.Species] = make([]float64, r.graphs[ref.Species].Len())
			}
			single[ref.Species][ref.Node] += w[c.ID]
		}
	}

	lambda := make([]float64, len(clusters))
	bestDual := math.Inf(1)
	bestPrimal := math.Inf(-1)
	var bestPaths []pathsolver.Path
	var bestAdj [][]float64

	// 2) Subgradient iterations
	for t := 1; t <= r.cfg.MaxIterations; t++ {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations = t

		adj := r.multiplierAdjustments(lambda, single, m)
		solved, err := r.solve(r.graphs, adj, nil)
		if err != nil {
			return nil, err
		}
		sets := pathSets(solved)

		dual := constant
		for _, p := range solved {
			if !p.Absent {
				dual += p.Score
			}
		}
		agree := true
		subgrad := make([]float64, len(clusters))
		y := make([]bool, len(clusters))
		for _, c := range clusters {
			if m[c.ID] < 2 {
				continue
			}
			in := 0
			for _, ref := range c.PresentMembers(ev.present) {
				if sets[ref.Species][ref.Node] {
					in++
				}
			}
			reduced := w[c.ID] - float64(m[c.ID])*lambda[c.ID]
			switch {
			case reduced > pathsolver.Epsilon:
				y[c.ID] = true
			case reduced < -pathsolver.Epsilon:
				y[c.ID] = false
			default:
				y[c.ID] = 2*in > m[c.ID]
			}
			if reduced > 0 {
				dual += reduced
			}
			target := 0
			if y[c.ID] {
				target = m[c.ID]
			}
			if in != target {
				agree = false
			}
			subgrad[c.ID] = float64(in - target)
		}
		bestDual = math.Min(bestDual, dual)
		res.DualTrace = append(res.DualTrace, bestDual)

		scored, err := ev.withScores(solved)
		if err != nil {
			return nil, err
		}
		primal, err := ev.objective(scored)
		if err != nil {
			return nil, err
		}
		res.Trace = append(res.Trace, primal)
		if bestPaths == nil || primal > bestPrimal+pathsolver.Epsilon {
			bestPrimal, bestPaths, bestAdj = primal, scored, adj
		}
		r.log.Debug("dual decomposition iteration",
			logger.Int("iteration", t),
			logger.Float64("dual", dual),
			logger.Float64("best_dual", bestDual),
			logger.Float64("primal", primal),
			logger.Bool("agree", agree))

		if agree {
			res.Converged = true
			res.Paths = scored
			res.Objective = primal
			res.Labels = r.unanimousLabels(scored)
			r.storeLabels(res.Labels)
			return res, nil
		}

		alpha := r.cfg.StepSize * r.cfg.DecayFactor / (r.cfg.DecayFactor + float64(t-1))
		for _, c := range clusters {
			if m[c.ID] >= 2 {
				lambda[c.ID] -= alpha * subgrad[c.ID]
			}
		}
	}

	// 3) Cap reached: best primal, disagreeing clusters excluded
	paths, unresolved, err := r.excludeUnresolved(bestPaths, bestAdj)
	if err != nil {
		return nil, err
	}
	obj, err := ev.objective(paths)
	if err != nil {
		return nil, err
	}
	if len(unresolved) > 0 {
		r.log.Warn("clusters unresolved at iteration cap, excluded",
			logger.Int("iterations", res.Iterations),
			logger.Any("clusters", unresolved))
	}
	res.Paths = paths
	res.Objective = obj
	res.Unresolved = unresolved
	res.Labels = r.unanimousLabels(paths)
	r.storeLabels(res.Labels)

	return res, nil
}

// multiplierAdjustments builds per-species node adjustments: λ_c on member
// nodes of coupled clusters plus the fixed single-member terms.
func (r *run) multiplierAdjustments(lambda []float64, single [][]float64, m []int) [][]float64 {
	adj := make([][]float64, len(r.graphs))
	for s, g := range r.graphs {
		if g == nil {
			continue
		}
		adj[s] = make([]float64, g.Len())
		copy(adj[s], single[s])
	}
	for _, c := range r.set.Clusters() {
		if m[c.ID] < 2 {
			continue
		}
		for _, ref := range c.PresentMembers(r.ev.present) {
			adj[ref.Species][ref.Node] += lambda[c.ID]
		}
	}
	return adj
}

// disagreeing returns the coupled clusters whose present members are not
// unanimous in paths, and per species the member nodes to forbid.
func (r *run) disagreeing(paths []pathsolver.Path) ([]int, []map[int]bool) {
	sets := pathSets(paths)
	var ids []int
	forbidden := make([]map[int]bool, len(r.graphs))
	for _, c := range r.set.Clusters() {
		members := c.PresentMembers(r.ev.present)
		in := 0
		for _, ref := range members {
			if sets[ref.Species][ref.Node] {
				in++
			}
		}
		if in == 0 || in == len(members) {
			continue
		}
		ids = append(ids, c.ID)
		for _, ref := range members {
			if forbidden[ref.Species] == nil {
				forbidden[ref.Species] = make(map[int]bool)
			}
			forbidden[ref.Species][ref.Node] = true
		}
	}
	return ids, forbidden
}

// excludeUnresolved applies the exclude policy: species owning a member of a
// disagreeing cluster are re-solved with those members forbidden, until no
// cluster disagrees. Forbidden sets only grow, so the loop terminates.
func (r *run) excludeUnresolved(paths []pathsolver.Path, adj [][]float64) ([]pathsolver.Path, []int, error) {
	var unresolved []int
	forbidden := make([]map[int]bool, len(r.graphs))
	for {
		ids, more := r.disagreeing(paths)
		if len(ids) == 0 {
			break
		}
		unresolved = append(unresolved, ids...)
		affected := make(map[int]bool)
		for s, nodes := range more {
			for n := range nodes {
				if forbidden[s] == nil {
					forbidden[s] = make(map[int]bool)
				}
				forbidden[s][n] = true
				affected[s] = true
			}
		}
		solved, err := r.solve(r.only(affected), adj, forbidden)
		if err != nil {
			return nil, nil, err
		}
		merged := append([]pathsolver.Path(nil), paths...)
		for s := range affected {
			merged[s] = solved[s]
		}
		if paths, err = r.ev.withScores(merged); err != nil {
			return nil, nil, err
		}
	}
	sort.Ints(unresolved)
	return paths, unresolved, nil
}

// unanimousLabels labels a cluster Included iff all its present members are
// on their species' paths; clusters without present members are Absent.
func (r *run) unanimousLabels(paths []pathsolver.Path) []ortho.Membership {
	sets := pathSets(paths)
	labels := make([]ortho.Membership, r.set.Len())
	for _, c := range r.set.Clusters() {
		members := c.PresentMembers(r.ev.present)
		if len(members) == 0 {
			labels[c.ID] = ortho.Absent
			continue
		}
		labels[c.ID] = ortho.Included
		for _, ref := range members {
			if !sets[ref.Species][ref.Node] {
				labels[c.ID] = ortho.Excluded
				break
			}
		}
	}
	return labels
}
