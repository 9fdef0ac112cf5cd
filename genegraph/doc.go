// Package genegraph implements the per-species candidate graph: a weighted
// directed acyclic graph of candidate gene-structure states for one species
// inside one gene range.
//
// What:
//
//   - Nodes are candidate exons, introns or intergenic states with a closed
//     sequence interval [Start, End], a base score from sampling evidence and
//     an additive selective-pressure contribution.
//   - Two sentinels frame every graph: the source (index 0) and the sink
//     (index 1). A source→sink edge always exists and stands for "no gene".
//   - Edges only join order-compatible, non-overlapping intervals under the
//     splice rules below, so the graph is acyclic by construction.
//
// Splice rules (a → b, a.End < b.Start):
//
//	exon       → exon        gap ≥ MinIntronLength (implicit intron)
//	exon       → intron      intervals abut
//	intron     → exon        intervals abut
//	exon       → intergenic  intervals abut
//	intergenic → exon        intervals abut
//	source     → exon | intergenic | sink
//	exon | intergenic → sink
//
// Build merges sampled transcripts and independently identified exon
// candidates into one graph. States with identical kind and interval collapse
// into one node: the higher score wins, evidence counts add up, and on equal
// scores the contributor with more evidence decides the node's Source.
//
// Complexity:
//
//   - Build:            O(T + N²) for T sampled states and N distinct nodes
//   - TopologicalOrder: O(V + E)
//
// Errors:
//
//   - ErrNoEvidence        no transcript and no exon candidate (species absent)
//   - ErrBadInterval       empty or inverted interval
//   - ErrOutOfRange        interval outside the gene range
//   - ErrSentinelKind      attempt to add a sentinel through AddNode
//   - ErrNodeNotFound      edge endpoint index out of range
//   - ErrIncompatibleEdge  endpoints violate the splice rules
//   - ErrCycleDetected     cycle found while ordering
package genegraph
