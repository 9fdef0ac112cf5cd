// Package pathsolver finds the maximum-score source→sink path of a candidate
// graph. It is the independent per-species solver: the baseline prediction
// and the subproblem shared by both consensus optimizers.
//
// Recurrence over the topological order:
//
//	best[source] = 0
//	best[v]      = score(v) + adj(v) + max_u (best[u] + w(u,v))
//
// where score(v) is Base+Pressure (Base only with WithBaseOnly), adj(v) an
// optional per-node perturbation and sentinels score 0. Forbidden nodes are
// unreachable.
//
// Determinism: among predecessors whose values are equal within Epsilon,
// the one with the earliest interval start wins, then the lower creation
// index. Repeated runs on an unchanged graph therefore return identical
// paths.
//
// Complexity:
//
//   - Time:   O(V + E)
//   - Memory: O(V)
//
// Errors:
//
//   - ErrNilGraph           graph is nil
//   - ErrAdjustmentLength   adjustment vector shorter than the node count
//   - ErrNotAPath           ScoreOf got a node sequence without edges
package pathsolver
