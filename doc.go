// Package compgene predicts gene structures jointly across aligned species.
//
// Every species of a gene range gets a candidate graph built from sampled
// transcripts and exon candidates. Orthology clusters tie exons of different
// species together, and a consensus optimizer chooses one path per species so
// that high-scoring structures agree where evolution says they should.
//
// Packages, leaves first:
//
//	genegraph/  candidate DAG per species: nodes, splice rules, topological order
//	ortho/      orthology clusters over node handles, inclusion patterns
//	phylo/      Newick species trees and the exon gain/loss model
//	pressure/   selective-pressure node scores and cluster plausibility
//	pathsolver/ best path per species with score adjustments
//	consensus/  Local-Move and Dual-Decomposition optimizers
//	genes/      gene extraction and YAML gene-set reports
//	pipeline/   gene-range driver producing base, init and optimized sets
//	input/      YAML gene-range documents
//	cmd/        the compgene command line
package compgene
