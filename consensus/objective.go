package consensus

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/patrickmn/go-cache"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
	"github.com/katalvlaran/compgene/pressure"
)

// evaluator computes the joint objective of one run. Plausibility values
// are memoised in a cache that lives as long as the evaluator.
type evaluator struct {
	graphs  []*genegraph.Graph
	set     *ortho.Set
	plaus   pressure.Plausibility
	present []bool
	n       int

	cache  *cache.Cache
	hits   int
	misses int
}

func newEvaluator(graphs []*genegraph.Graph, set *ortho.Set, plaus pressure.Plausibility) *evaluator {
	return &evaluator{
		graphs:  graphs,
		set:     set,
		plaus:   plaus,
		present: ortho.Present(graphs),
		n:       len(graphs),
		// No expiration and no janitor: the cache dies with the run.
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// plausibility returns P_c(p), consulting the cache first.
func (e *evaluator) plausibility(c *ortho.Cluster, p ortho.Pattern) float64 {
	key := strconv.Itoa(c.ID) + "/" + p.Key()
	if v, ok := e.cache.Get(key); ok {
		e.hits++
		return v.(float64)
	}
	e.misses++
	v := e.plaus.Score(c, p)
	e.cache.Set(key, v, cache.NoExpiration)
	return v
}

// precompute fills the cache with the consensus patterns of every cluster
// and all single-species deviations from them.
func (e *evaluator) precompute() {
	for _, c := range e.set.Clusters() {
		for _, m := range []ortho.Membership{ortho.Included, ortho.Excluded} {
			base := c.Uniform(e.n, e.present, m)
			e.plausibility(c, base)
			for _, ref := range c.PresentMembers(e.present) {
				e.plausibility(c, base.With(ref.Species, flip(m)))
			}
		}
	}
}

// uniform returns P_c of the pattern where every present member has m.
func (e *evaluator) uniform(c *ortho.Cluster, m ortho.Membership) float64 {
	return e.plausibility(c, c.Uniform(e.n, e.present, m))
}

// observe returns the actual pattern of c under paths.
func (e *evaluator) observe(c *ortho.Cluster, sets []map[int]bool) ortho.Pattern {
	return c.Observe(e.n, e.present, func(r ortho.NodeRef) bool { return sets[r.Species][r.Node] })
}

// pathSets converts paths into node sets, nil for absent species.
func pathSets(paths []pathsolver.Path) []map[int]bool {
	out := make([]map[int]bool, len(paths))
	for i, p := range paths {
		if !p.Absent {
			out[i] = p.Set()
		}
	}
	return out
}

// objective returns J for paths. Path scores are recomputed without any
// optimizer adjustment.
func (e *evaluator) objective(paths []pathsolver.Path) (float64, error) {
	total := 0.0
	for s, g := range e.graphs {
		if g == nil {
			continue
		}
		v, err := pathsolver.ScoreOf(g, paths[s].Nodes)
		if err != nil {
			return 0, fmt.Errorf("consensus: species %d: %w", s, err)
		}
		total += v
	}
	sets := pathSets(paths)
	for _, c := range e.set.Clusters() {
		total += e.plausibility(c, e.observe(c, sets))
	}
	return total, nil
}

// withScores returns paths whose Score is the unadjusted path score.
func (e *evaluator) withScores(paths []pathsolver.Path) ([]pathsolver.Path, error) {
	out := make([]pathsolver.Path, len(paths))
	for s, p := range paths {
		out[s] = p
		if p.Absent || e.graphs[s] == nil {
			continue
		}
		v, err := pathsolver.ScoreOf(e.graphs[s], p.Nodes)
		if err != nil {
			return nil, err
		}
		out[s].Score = v
	}
	return out, nil
}

// dump logs the cache content at debug level, sorted by key.
func (e *evaluator) dump(log logger.Logger) {
	if !log.Enabled(logger.LogLevelDebug) {
		return
	}
	items := e.cache.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		log.Debug("plausibility cache entry",
			logger.String("key", k),
			logger.Float64("value", items[k].Object.(float64)))
	}
	log.Debug("plausibility cache stats",
		logger.Int("entries", len(keys)),
		logger.Int("hits", e.hits),
		logger.Int("misses", e.misses))
}

func flip(m ortho.Membership) ortho.Membership {
	if m == ortho.Included {
		return ortho.Excluded
	}
	return ortho.Included
}
