package phylo

import (
	"fmt"
	"math"
)

// Leaf states for LogLikelihood.
const (
	Unknown int8 = -1 // marginalised
	Lost    int8 = 0
	Present int8 = 1
)

// ExonEvo is the two-state exon gain/loss model.
type ExonEvo struct {
	Mu     float64 // loss rate, 1 → 0
	Lambda float64 // gain rate, 0 → 1

	tree *Tree
	logP [][2][2]float64 // per node id: log P(branch length)
}

// NewExonEvo returns a model with loss rate mu and gain rate lambda.
func NewExonEvo(mu, lambda float64) (*ExonEvo, error) {
	if !(mu > 0) || !(lambda > 0) {
		return nil, fmt.Errorf("%w: mu=%g lambda=%g", ErrBadRate, mu, lambda)
	}
	return &ExonEvo{Mu: mu, Lambda: lambda}, nil
}

// Stationary returns the equilibrium distribution (absent, present).
func (e *ExonEvo) Stationary() [2]float64 {
	r := e.Mu + e.Lambda
	return [2]float64{e.Mu / r, e.Lambda / r}
}

// P returns the transition matrix for branch length t: P[x][y] is the
// probability of state y after time t given state x.
func (e *ExonEvo) P(t float64) [2][2]float64 {
	pi := e.Stationary()
	d := math.Exp(-(e.Mu + e.Lambda) * t)
	return [2][2]float64{
		{pi[0] + pi[1]*d, pi[1] * (1 - d)},
		{pi[0] * (1 - d), pi[1] + pi[0]*d},
	}
}

// ComputeLogPMatrices binds the model to tree and precomputes the log
// transition matrix of every branch.
func (e *ExonEvo) ComputeLogPMatrices(tree *Tree) {
	e.tree = tree
	e.logP = make([][2][2]float64, tree.Len())
	for _, n := range tree.nodes {
		p := e.P(n.Length)
		for x := 0; x < 2; x++ {
			for y := 0; y < 2; y++ {
				e.logP[n.id][x][y] = math.Log(p[x][y])
			}
		}
	}
}

// Tree returns the bound tree, nil before ComputeLogPMatrices.
func (e *ExonEvo) Tree() *Tree { return e.tree }

// LogLikelihood returns log P(states) where states holds one entry per
// leaf in Tree.Leaves order: Present, Lost or Unknown.
func (e *ExonEvo) LogLikelihood(states []int8) (float64, error) {
	if e.tree == nil {
		return 0, ErrNotPrepared
	}
	if len(states) != len(e.tree.leaves) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrLeafCount, len(states), len(e.tree.leaves))
	}
	leafPos := make(map[*Node]int, len(e.tree.leaves))
	for i, l := range e.tree.leaves {
		leafPos[l] = i
	}

	root := e.prune(e.tree.Root, states, leafPos)
	pi := e.Stationary()
	return logSumExp(math.Log(pi[0])+root[0], math.Log(pi[1])+root[1]), nil
}

// prune returns log P(leaves below n | state of n) for both states.
func (e *ExonEvo) prune(n *Node, states []int8, leafPos map[*Node]int) [2]float64 {
	if n.IsLeaf() {
		switch states[leafPos[n]] {
		case Present:
			return [2]float64{math.Inf(-1), 0}
		case Lost:
			return [2]float64{0, math.Inf(-1)}
		default:
			return [2]float64{0, 0}
		}
	}
	var out [2]float64
	for _, c := range n.Children {
		sub := e.prune(c, states, leafPos)
		lp := e.logP[c.id]
		for x := 0; x < 2; x++ {
			out[x] += logSumExp(lp[x][0]+sub[0], lp[x][1]+sub[1])
		}
	}
	return out
}

// String prints the model parameters.
func (e *ExonEvo) String() string {
	pi := e.Stationary()
	return fmt.Sprintf("exon gain/loss model: mu=%g lambda=%g pi=(%.4f, %.4f)", e.Mu, e.Lambda, pi[0], pi[1])
}

func logSumExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}
