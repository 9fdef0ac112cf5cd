// Package consensus reconciles the per-species best paths with the orthology
// clusters of a gene range.
//
// Both strategies maximise the same joint objective
//
//	J = Σ_s score_s(path_s) + Σ_c P_c(pattern_c)
//
// where score_s is the path score under the current node scores (base plus
// selective pressure), pattern_c is the inclusion pattern of cluster c's
// member nodes in the chosen paths and P_c the plausibility function.
// Plausibility values are memoised per run in an in-memory cache keyed by
// cluster and pattern; the cache is created fresh for every Optimize call.
//
// Strategies:
//
//   - StrategyLocalMove: coordinate ascent over cluster labels. Labels start
//     from the majority vote of the initial paths. Each pass visits the
//     clusters in ID order, flips one label, re-solves the species that own
//     a member of that cluster with label-derived node adjustments and keeps
//     the flip only if J increases. Stops after a pass without accepted
//     flips or after MaxIterations passes; clusters whose members still
//     disagree are then excluded like in dual decomposition.
//   - StrategyDualDecomposition: Lagrangian relaxation of the agreement
//     constraint x_{s,c} = y_c with one multiplier per cluster. Species are
//     solved concurrently under the multipliers, the consensus label y_c is
//     chosen in closed form and the multipliers follow a diminishing
//     subgradient step α_t = StepSize · F/(F + t − 1). Stops when every
//     coupled cluster is unanimous (zero duality gap) or after
//     MaxIterations iterations; then the best primal assignment is emitted
//     and clusters that still disagree are excluded.
//
// Errors:
//
//   - ErrUnknownStrategy   strategy name not recognised
//   - ErrBadConfig         non-positive iteration cap, decay factor or step size
//   - ErrSpeciesMismatch   cluster set sized for a different species count
//   - ErrInitialPaths      initial paths do not match the graphs
package consensus
