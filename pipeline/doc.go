// Package pipeline drives gene-range processing end to end.
//
// For every gene range a Pipeline:
//
//  1. rejects ranges longer than MaxRangeLength for any species,
//  2. builds the candidate graph of every present species in parallel,
//  3. resolves orthology clusters onto graph nodes,
//  4. solves every species on base evidence only (the base gene set),
//  5. applies selective pressure and solves again (the init gene set),
//  6. reconciles species with the configured consensus strategy,
//  7. extracts the optimized gene set.
//
// Each of the three gene sets has its own gene-id counters, so ids run from 1
// per species across all ranges of one Pipeline.
//
// Errors:
//   - ErrRangeTooLong, wrapped in a configuration-category error; Run skips
//     such ranges and continues.
//   - ErrUnknownSpecies for range input naming an undeclared species.
//   - context errors between ranges and inside the parallel stages.
package pipeline
