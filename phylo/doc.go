// Package phylo provides the phylogenetic model behind the plausibility of
// orthology clusters: a rooted species tree read from Newick text and a
// two-state exon gain/loss continuous-time Markov chain evaluated on it with
// Felsenstein's pruning algorithm.
//
// What:
//
//   - Tree: rooted tree with branch lengths; leaves carry species names.
//   - ExonEvo: rates mu (loss, 1→0) and lambda (gain, 0→1). Transition
//     probabilities have the closed form
//
//     P(t) = Π + e^{-(mu+lambda)t} (I − Π), Π rows = (mu, lambda)/(mu+lambda)
//
//     and are precomputed in log space once per branch.
//   - LogLikelihood: log P(observed leaf states) with unknown leaves
//     marginalised.
//
// Complexity:
//
//   - ParseNewick:   O(len(text))
//   - LogLikelihood: O(L) for L leaves, after ComputeLogPMatrices
//
// Errors:
//
//   - ErrNewickSyntax    malformed Newick text
//   - ErrDuplicateLeaf   two leaves share a name
//   - ErrBadRate         non-positive rate
//   - ErrNotPrepared     LogLikelihood before ComputeLogPMatrices
//   - ErrLeafCount       state vector length differs from the leaf count
package phylo
