package genegraph

import (
	"errors"
	"fmt"
)

// Build merges sampled transcripts and exon candidates of one species into a
// candidate graph.
//
// Steps:
//  1. Reject a completely empty input with ErrNoEvidence (species absent).
//  2. Add every sampled state; consecutive states of a transcript add
//     TransitionWeight to their edge. Malformed states are skipped and break
//     the transcript's chain.
//  3. Add every exon candidate.
//  4. Connect all remaining compatible pairs with zero-weight edges.
//
// Malformed input never fails the build: a species whose evidence is all
// malformed yields a sentinel-only graph whose best path is empty.
func Build(species int, name string, span Interval, transcripts []Transcript, candidates []ExonCandidate, opts ...Option) (*Graph, BuildStats, error) {
	var stats BuildStats

	// 1. Absent species
	if len(transcripts) == 0 && len(candidates) == 0 {
		return nil, stats, ErrNoEvidence
	}
	g, err := New(species, name, span, opts...)
	if err != nil {
		return nil, stats, err
	}

	// 2. Sampled transcripts
	stats.Transcripts = len(transcripts)
	for _, tx := range transcripts {
		if len(tx.States) == 0 {
			stats.EmptyTranscripts++
			continue
		}
		prev := -1
		for _, st := range tx.States {
			before := g.Len()
			idx, err := g.AddNode(NodeSpec{
				Kind:     st.Kind,
				Interval: st.Interval,
				Score:    st.Score,
				Source:   SourceSampled,
			})
			if err != nil {
				stats.MalformedStates++
				prev = -1
				continue
			}
			stats.SampledStates++
			if g.Len() == before {
				stats.MergedNodes++
			}
			if prev >= 0 {
				if err := g.AddEdge(prev, idx, g.opts.TransitionWeight); err != nil {
					if !errors.Is(err, ErrIncompatibleEdge) {
						return nil, stats, fmt.Errorf("genegraph: species %s: %w", name, err)
					}
					stats.DroppedTransitions++
				}
			}
			prev = idx
		}
	}

	// 3. Exon candidates
	for _, c := range candidates {
		before := g.Len()
		if _, err := g.AddNode(NodeSpec{
			Kind:     KindExon,
			Interval: c.Interval,
			Score:    c.Score,
			Source:   SourceCandidate,
		}); err != nil {
			stats.MalformedCandidates++
			continue
		}
		stats.Candidates++
		if g.Len() == before {
			stats.MergedNodes++
		}
	}

	// 4. Compatibility edges
	g.Connect()

	return g, stats, nil
}
