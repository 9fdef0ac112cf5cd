package genegraph

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

// Evidence bundles the construction input of one species.
type Evidence struct {
	Species     int
	Name        string
	Span        Interval
	Absent      bool // no sequence for this species in the gene range
	Transcripts []Transcript
	Candidates  []ExonCandidate
}

// BuildAll builds the graphs of all species concurrently, at most workers at
// a time (workers ≤ 0 means unlimited). The result is indexed like inputs;
// absent species and species without evidence get a nil graph.
func BuildAll(ctx context.Context, inputs []Evidence, workers int, opts ...Option) ([]*Graph, []BuildStats, error) {
	graphs := make([]*Graph, len(inputs))
	stats := make([]BuildStats, len(inputs))

	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i := range inputs {
		in := inputs[i]
		if in.Absent {
			continue
		}
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			g, st, err := Build(in.Species, in.Name, in.Span, in.Transcripts, in.Candidates, opts...)
			stats[i] = st
			if errors.Is(err, ErrNoEvidence) {
				return nil
			}
			if err != nil {
				return err
			}
			graphs[i] = g
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	return graphs, stats, nil
}
