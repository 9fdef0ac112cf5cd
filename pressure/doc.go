// Package pressure turns evolutionary evidence into scores.
//
// What:
//
//   - Plausibility scores an orthology cluster for a given per-species
//     inclusion pattern. It is the cluster term of the joint objective used
//     by the consensus optimizers. Majority rewards patterns where most
//     present species include the exon; Phylo scores patterns by their
//     log-likelihood under the exon gain/loss model; Sum adds several.
//   - Scorer applies the selective-pressure contribution of each cluster to
//     the Pressure field of its member nodes. The contribution grows as the
//     dN/dS estimate omega falls below one (purifying selection), so that
//     conserved coding exons become more attractive to path search.
//
// Apply resets all pressure before scoring, so repeated calls give the same
// graphs.
package pressure
