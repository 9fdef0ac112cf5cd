// Package genes turns chosen paths into gene lists.
//
// A path is cut into segments at intergenic nodes. A segment becomes a gene
// when it contains at least one exon, starts and ends with an exon and every
// intron is flanked by exons on both sides; other segments are skipped.
// Genes get sequential identifiers per species starting at 1; an Extractor
// keeps its counters across gene ranges so identifiers are never reused
// within a run.
//
// Reports are written as a YAML document stream, one document per gene
// range and stage (base, init, optimized).
package genes
