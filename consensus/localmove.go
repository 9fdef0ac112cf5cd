package consensus

import (
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
)

// localMove runs coordinate ascent over cluster labels.
//
// Steps:
//  1. Initialise labels by majority vote of the initial paths.
//  2. Fill the plausibility cache with the consensus patterns.
//  3. Settle the species touched by included clusters on those labels.
//  4. Flip passes in cluster-ID order until a pass accepts nothing or the
//     pass cap is reached.
//  5. Exclude clusters whose members still disagree with each other and
//     relabel from the final paths.
func (r *run) localMove(initial []pathsolver.Path) (*Result, error) {
	ev := r.ev
	res := &Result{Strategy: StrategyLocalMove}

	// 1) Initial labels
	labels := r.majorityLabels(initial)

	// 2) Pruning step
	ev.precompute()

	paths := initial
	obj, err := ev.objective(paths)
	if err != nil {
		return nil, err
	}
	res.Trace = append(res.Trace, obj)

	// 3) Settle
	touched := make(map[int]bool)
	for _, c := range r.set.Clusters() {
		if labels[c.ID] != ortho.Included {
			continue
		}
		for _, ref := range c.PresentMembers(ev.present) {
			touched[ref.Species] = true
		}
	}
	if len(touched) > 0 {
		cand, candObj, err := r.resolve(paths, labels, touched)
		if err != nil {
			return nil, err
		}
		if candObj >= obj && !samePaths(cand, paths) {
			paths, obj = cand, candObj
			res.Trace = append(res.Trace, obj)
		}
	}

	// 4) Flip passes
	for pass := 1; pass <= r.cfg.MaxIterations; pass++ {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations = pass
		accepted := 0
		for _, c := range r.set.Clusters() {
			if labels[c.ID] == ortho.Absent {
				continue
			}
			affected := make(map[int]bool)
			for _, ref := range c.PresentMembers(ev.present) {
				affected[ref.Species] = true
			}
			trial := append([]ortho.Membership(nil), labels...)
			trial[c.ID] = flip(labels[c.ID])

			cand, candObj, err := r.resolve(paths, trial, affected)
			if err != nil {
				return nil, err
			}
			if candObj <= obj+pathsolver.Epsilon {
				continue
			}
			r.log.Debug("label flip accepted",
				logger.Int("pass", pass),
				logger.Int("cluster", c.ID),
				logger.String("label", trial[c.ID].String()),
				logger.Float64("objective", candObj))
			labels, paths, obj = trial, cand, candObj
			accepted++
			res.Trace = append(res.Trace, obj)
		}
		res.Flips += accepted
		if accepted == 0 {
			res.Converged = true
			break
		}
	}

	// 5) Consistency with the final paths
	paths, unresolved, err := r.excludeUnresolved(paths, r.labelAdjustments(labels, r.presentSpecies()))
	if err != nil {
		return nil, err
	}
	if len(unresolved) > 0 {
		if obj, err = ev.objective(paths); err != nil {
			return nil, err
		}
		r.log.Warn("clusters unresolved after local moves, excluded",
			logger.Int("passes", res.Iterations),
			logger.Any("clusters", unresolved))
	}

	res.Paths = paths
	res.Labels = r.unanimousLabels(paths)
	res.Objective = obj
	res.Unresolved = unresolved
	r.storeLabels(res.Labels)

	return res, nil
}

// majorityLabels labels each cluster by the majority of its present members
// in paths; ties are Included, clusters without present members Absent.
func (r *run) majorityLabels(paths []pathsolver.Path) []ortho.Membership {
	sets := pathSets(paths)
	labels := make([]ortho.Membership, r.set.Len())
	for _, c := range r.set.Clusters() {
		members := c.PresentMembers(r.ev.present)
		if len(members) == 0 {
			labels[c.ID] = ortho.Absent
			continue
		}
		in := 0
		for _, ref := range members {
			if sets[ref.Species][ref.Node] {
				in++
			}
		}
		if 2*in >= len(members) {
			labels[c.ID] = ortho.Included
		} else {
			labels[c.ID] = ortho.Excluded
		}
	}
	return labels
}

// labelAdjustments returns, for every species in species, the node
// adjustments P_c(L with s in) − P_c(L with s out) induced by labels.
func (r *run) labelAdjustments(labels []ortho.Membership, species map[int]bool) [][]float64 {
	adj := make([][]float64, len(r.graphs))
	for s := range species {
		adj[s] = make([]float64, r.graphs[s].Len())
	}
	for _, c := range r.set.Clusters() {
		if labels[c.ID] == ortho.Absent {
			continue
		}
		base := c.Uniform(r.ev.n, r.ev.present, labels[c.ID])
		for _, ref := range c.PresentMembers(r.ev.present) {
			if !species[ref.Species] {
				continue
			}
			in := r.ev.plausibility(c, base.With(ref.Species, ortho.Included))
			out := r.ev.plausibility(c, base.With(ref.Species, ortho.Excluded))
			adj[ref.Species][ref.Node] += in - out
		}
	}
	return adj
}

// resolve re-solves species under labels and returns the merged paths with
// their objective.
func (r *run) resolve(paths []pathsolver.Path, labels []ortho.Membership, species map[int]bool) ([]pathsolver.Path, float64, error) {
	adj := r.labelAdjustments(labels, species)
	solved, err := r.solve(r.only(species), adj, nil)
	if err != nil {
		return nil, 0, err
	}
	merged := append([]pathsolver.Path(nil), paths...)
	for s := range species {
		merged[s] = solved[s]
	}
	merged, err = r.ev.withScores(merged)
	if err != nil {
		return nil, 0, err
	}
	obj, err := r.ev.objective(merged)
	if err != nil {
		return nil, 0, err
	}
	return merged, obj, nil
}

// presentSpecies returns the species that have a graph.
func (r *run) presentSpecies() map[int]bool {
	out := make(map[int]bool, len(r.graphs))
	for s, g := range r.graphs {
		if g != nil {
			out[s] = true
		}
	}
	return out
}

// storeLabels writes the final labels back to the clusters.
func (r *run) storeLabels(labels []ortho.Membership) {
	for _, c := range r.set.Clusters() {
		c.Label = labels[c.ID]
	}
}

func samePaths(a, b []pathsolver.Path) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
