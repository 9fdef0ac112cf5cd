package pathsolver

import "errors"

// Sentinel errors for path search.
var (
	ErrNilGraph         = errors.New("pathsolver: graph is nil")
	ErrAdjustmentLength = errors.New("pathsolver: adjustment vector shorter than node count")
	ErrNotAPath         = errors.New("pathsolver: nodes do not form a path")
)

// Epsilon is the tolerance under which two path values are considered tied.
const Epsilon = 1e-9

// Path is the chosen node sequence of one species, sentinels excluded.
// An empty Nodes slice means "no gene"; Absent marks a species without a
// graph in the current gene range.
type Path struct {
	Species int
	Nodes   []int
	Score   float64
	Absent  bool
}

// Contains reports whether node lies on the path.
func (p Path) Contains(node int) bool {
	for _, n := range p.Nodes {
		if n == node {
			return true
		}
	}
	return false
}

// Set returns the path's nodes as a set.
func (p Path) Set() map[int]bool {
	out := make(map[int]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		out[n] = true
	}
	return out
}

// Equal reports whether both paths visit the same nodes in the same order.
func (p Path) Equal(o Path) bool {
	if p.Species != o.Species || p.Absent != o.Absent || len(p.Nodes) != len(o.Nodes) {
		return false
	}
	for i := range p.Nodes {
		if p.Nodes[i] != o.Nodes[i] {
			return false
		}
	}
	return true
}

// Options configures a solve.
type Options struct {
	// Adjustments holds a per-node additive score, indexed by node index.
	// nil means no adjustment.
	Adjustments []float64

	// Forbidden nodes may not be used.
	Forbidden map[int]bool

	// BaseOnly ignores the selective-pressure part of node scores.
	BaseOnly bool
}

// Option is a functional option for BestPath and ScoreOf.
type Option func(*Options)

// DefaultOptions returns options for a plain solve.
func DefaultOptions() Options { return Options{} }

// WithAdjustments adds adj[v] to the score of every node v.
func WithAdjustments(adj []float64) Option {
	return func(o *Options) {
		o.Adjustments = adj
	}
}

// WithForbidden removes the given nodes from the search. Sentinels cannot be
// forbidden.
func WithForbidden(nodes map[int]bool) Option {
	return func(o *Options) {
		o.Forbidden = nodes
	}
}

// WithBaseOnly scores nodes by their base evidence only.
func WithBaseOnly() Option {
	return func(o *Options) {
		o.BaseOnly = true
	}
}
