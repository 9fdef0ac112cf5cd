// Package ortho models orthology clusters: groups of candidate exons, at most
// one per species, that are believed to derive from the same ancestral exon.
//
// What:
//
//   - A Cluster references its member nodes through NodeRef index handles
//     (species id + node index). Clusters never hold pointers into the
//     per-species graphs, so graphs and clusters have independent lifetimes.
//   - A Pattern is the per-species inclusion state of one cluster: Included,
//     Excluded, or Absent when the species has no member or no sequence.
//   - A Set holds all clusters of one gene range together with the reverse
//     node → cluster index.
//
// Invariants enforced by Set.Add:
//
//   - at most one member node per species and cluster;
//   - at most one cluster per node;
//   - members are never sentinels.
//
// Errors:
//
//   - ErrEmptyCluster      cluster without members
//   - ErrUnknownSpecies    member species outside [0, NumSpecies)
//   - ErrDuplicateSpecies  two members from the same species
//   - ErrSentinelMember    member refers to a sentinel index
//   - ErrDoubleMembership  node already belongs to another cluster
//   - ErrUnknownNode       member node is not an exon of its species graph
package ortho
