package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/compgene/consensus"
	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/genes"
	"github.com/katalvlaran/compgene/internal/errors"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/internal/metrics"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
	"github.com/katalvlaran/compgene/pressure"
)

const component = "pipeline"

// Pipeline processes gene ranges of a fixed species set.
type Pipeline struct {
	cfg     Config
	species []string
	index   map[string]int

	runID string
	log   logger.Logger
	rec   metrics.Recorder
	plaus pressure.Plausibility

	optimizer *consensus.Optimizer
	scorer    *pressure.Scorer
	graphOpts []genegraph.Option

	// one extractor per gene set keeps ids unique per set and species
	baseGenes, initGenes, optimizedGenes *genes.Extractor
}

// New returns a Pipeline for species in the given order.
func New(species []string, cfg Config, opts ...Option) (*Pipeline, error) {
	if len(species) == 0 {
		return nil, ErrNoSpecies
	}
	if cfg.MaxRangeLength <= 0 {
		return nil, errors.Newf("%w: MaxRangeLength=%d", ErrBadConfig, cfg.MaxRangeLength).
			Component(component).
			Category(errors.CategoryConfiguration).
			Build()
	}

	p := &Pipeline{
		cfg:       cfg,
		species:   append([]string(nil), species...),
		index:     make(map[string]int, len(species)),
		log:       logger.NewDiscardLogger(),
		rec:       metrics.NopRecorder{},
		plaus:     pressure.Majority{},
		scorer:    &pressure.Scorer{OmegaWeight: cfg.OmegaWeight, OrphanPenalty: cfg.OrphanPenalty},
		graphOpts: []genegraph.Option{
			genegraph.WithMinIntronLength(cfg.MinIntronLength),
			genegraph.WithTransitionWeight(cfg.TransitionWeight),
		},
		baseGenes:      genes.NewExtractor(),
		initGenes:      genes.NewExtractor(),
		optimizedGenes: genes.NewExtractor(),
	}
	for i, name := range species {
		if _, dup := p.index[name]; dup {
			return nil, errors.Newf("pipeline: duplicate species %q", name).
				Component(component).
				Category(errors.CategoryValidation).
				Build()
		}
		p.index[name] = i
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.runID == "" {
		p.runID = uuid.NewString()
	}
	p.log = p.log.Module(component).With(logger.String("run_id", p.runID))

	optCfg := cfg.Optimizer
	optCfg.Workers = cfg.Workers
	opt, err := consensus.New(optCfg, consensus.WithLogger(p.log))
	if err != nil {
		return nil, errors.New(err).
			Component(component).
			Category(errors.CategoryConfiguration).
			Build()
	}
	p.optimizer = opt

	return p, nil
}

// RunID returns the identifier attached to every log record and report.
func (p *Pipeline) RunID() string { return p.runID }

// Species returns the species names in index order.
func (p *Pipeline) Species() []string { return p.species }

// ProcessRange runs all stages on one gene range.
//
// Steps:
//  1. Map range input onto species indices, reject overlong ranges.
//  2. Build candidate graphs.
//  3. Resolve clusters.
//  4. Base paths on base evidence only.
//  5. Selective pressure, init paths.
//  6. Consensus optimization.
//  7. Extraction of the three gene sets.
func (p *Pipeline) ProcessRange(ctx context.Context, in RangeInput) (*RangeOutput, error) {
	started := time.Now()
	log := p.log.With(logger.String("range", in.ID))
	out := &RangeOutput{ID: in.ID}

	fail := func(status string, err error) (*RangeOutput, error) {
		p.rec.RecordRange(status, time.Since(started).Seconds())
		return nil, err
	}

	// 1) Species mapping and length check
	evidence, err := p.evidence(in, log, &out.Stats)
	if err != nil {
		status := metrics.StatusFailed
		if errors.IsCategory(err, errors.CategoryConfiguration) {
			status = metrics.StatusRejected
		}
		return fail(status, err)
	}

	// 2) Candidate graphs
	graphs, built, err := genegraph.BuildAll(ctx, evidence, p.cfg.Workers, p.graphOpts...)
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryGraph, in.ID))
	}
	for s, g := range graphs {
		if bs := built[s]; bs.MalformedStates+bs.MalformedCandidates > 0 {
			out.Stats.Malformed += bs.MalformedStates + bs.MalformedCandidates
			log.Warn("malformed evidence skipped",
				logger.String("species", p.species[s]),
				logger.Int("states", bs.MalformedStates),
				logger.Int("candidates", bs.MalformedCandidates))
		}
		if g == nil && !evidence[s].Absent {
			// species listed without any evidence
			out.Stats.Absent++
			log.Debug("species has no evidence", logger.String("species", p.species[s]))
		}
	}

	// 3) Clusters
	set, err := p.clusters(in, graphs, log, &out.Stats)
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryInput, in.ID))
	}

	// 4) Base gene set
	base, err := pathsolver.SolveAll(ctx, graphs, p.cfg.Workers, func(int) []pathsolver.Option {
		return []pathsolver.Option{pathsolver.WithBaseOnly()}
	})
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryOptimization, in.ID))
	}

	// 5) Selective pressure and init gene set
	out.Stats.Pressure, err = p.scorer.Apply(graphs, set)
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryOptimization, in.ID))
	}
	initial, err := pathsolver.SolveAll(ctx, graphs, p.cfg.Workers, nil)
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryOptimization, in.ID))
	}

	// 6) Consensus
	res, err := p.optimizer.Optimize(ctx, consensus.Problem{
		Graphs:       graphs,
		Clusters:     set,
		Plausibility: p.plaus,
		Initial:      initial,
	})
	if err != nil {
		return fail(metrics.StatusFailed, p.wrap(err, errors.CategoryOptimization, in.ID))
	}
	out.Result = res
	p.rec.RecordOptimization(res.Strategy.String(), res.Iterations, res.Flips, len(res.Unresolved), res.Converged)

	// 7) Extraction
	absent := ortho.Present(graphs)
	for s := range absent {
		absent[s] = !absent[s]
	}
	out.Base = genes.NewReport(p.runID, in.ID, genes.StageBase, p.species, absent, p.baseGenes.Extract(graphs, base))
	out.Init = genes.NewReport(p.runID, in.ID, genes.StageInit, p.species, absent, p.initGenes.Extract(graphs, initial))
	out.Optimized = genes.NewReport(p.runID, in.ID, genes.StageOptimized, p.species, absent, p.optimizedGenes.Extract(graphs, res.Paths))
	out.Sampled = make([][]genes.SampledExon, len(graphs))
	for s, g := range graphs {
		out.Sampled[s] = genes.SampledExons(g)
	}

	elapsed := time.Since(started)
	p.rec.RecordRange(metrics.StatusOK, elapsed.Seconds())
	log.Info("gene range processed",
		logger.Int("absent", out.Stats.Absent),
		logger.Int("clusters", out.Stats.Clusters),
		logger.Int("base_genes", out.Base.Count()),
		logger.Int("init_genes", out.Init.Count()),
		logger.Int("optimized_genes", out.Optimized.Count()),
		logger.Duration("elapsed", elapsed))

	return out, nil
}

// evidence maps range input onto species indices. Unlisted, missing and
// unretrievable species are absent.
func (p *Pipeline) evidence(in RangeInput, log logger.Logger, st *RangeStats) ([]genegraph.Evidence, error) {
	ev := make([]genegraph.Evidence, len(p.species))
	listed := make([]bool, len(p.species))
	for _, sr := range in.Species {
		s, ok := p.index[sr.Name]
		if !ok {
			return nil, errors.Newf("%w: %q", ErrUnknownSpecies, sr.Name).
				Component(component).
				Category(errors.CategoryInput).
				Context("range", in.ID).
				Build()
		}
		if span := sr.Span; !sr.Missing && !sr.RetrievalFailed && span.Len() > p.cfg.MaxRangeLength {
			return nil, errors.Newf("%w: %s spans %d bp, limit %d", ErrRangeTooLong, sr.Name, span.Len(), p.cfg.MaxRangeLength).
				Component(component).
				Category(errors.CategoryConfiguration).
				Context("range", in.ID).
				Context("species", sr.Name).
				Build()
		}
		listed[s] = true
		ev[s] = genegraph.Evidence{
			Species:     s,
			Name:        sr.Name,
			Span:        sr.Span,
			Absent:      sr.Missing || sr.RetrievalFailed,
			Transcripts: sr.Transcripts,
			Candidates:  sr.Candidates,
		}
		if sr.RetrievalFailed {
			log.Warn("sequence retrieval failed, species absent", logger.String("species", sr.Name))
		}
	}
	for s := range ev {
		if !listed[s] {
			ev[s] = genegraph.Evidence{Species: s, Name: p.species[s], Absent: true}
		}
		if ev[s].Absent {
			st.Absent++
			p.rec.RecordAbsentSpecies(p.species[s])
			log.Warn("species absent from gene range", logger.String("species", p.species[s]))
		}
	}
	return ev, nil
}

// clusters resolves cluster members onto exon nodes. Members of absent
// species and members whose exon is not in the graph are dropped.
func (p *Pipeline) clusters(in RangeInput, graphs []*genegraph.Graph, log logger.Logger, st *RangeStats) (*ortho.Set, error) {
	set := ortho.NewSet(len(graphs))
	for ci, c := range in.Clusters {
		refs := make([]ortho.NodeRef, 0, len(c.Members))
		for _, m := range c.Members {
			s, ok := p.index[m.Species]
			if !ok {
				return nil, fmt.Errorf("%w: %q in cluster %d", ErrUnknownSpecies, m.Species, ci)
			}
			g := graphs[s]
			if g == nil {
				continue
			}
			node, ok := g.Find(genegraph.KindExon, m.Interval)
			if !ok {
				st.DroppedMembers++
				log.Debug("cluster member not in graph",
					logger.Int("cluster", ci),
					logger.String("species", m.Species),
					logger.String("exon", m.Interval.String()))
				continue
			}
			refs = append(refs, ortho.NodeRef{Species: s, Node: node})
		}
		if len(refs) == 0 {
			st.DroppedClusters++
			continue
		}
		if _, err := set.Add(refs, c.Plausibility, c.Omega); err != nil {
			return nil, fmt.Errorf("cluster %d: %w", ci, err)
		}
	}
	if err := set.Validate(graphs); err != nil {
		return nil, err
	}
	st.Clusters = set.Len()
	return set, nil
}

func (p *Pipeline) wrap(err error, category errors.ErrorCategory, rangeID string) error {
	return errors.New(err).
		Component(component).
		Category(category).
		Context("range", rangeID).
		Build()
}

// Run processes ranges in order and writes the three gene sets of every
// range to w as YAML documents. Ranges rejected with a configuration error
// are logged and skipped; any other error stops the run.
func (p *Pipeline) Run(ctx context.Context, ranges []RangeInput, w io.Writer) (*Summary, error) {
	sum := &Summary{RunID: p.runID, Genes: make(map[string]int)}
	p.log.Info("run started", logger.Int("ranges", len(ranges)), logger.Int("species", len(p.species)))

	yw := genes.NewWriter(w)
	defer yw.Close()

	for _, in := range ranges {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		out, err := p.ProcessRange(ctx, in)
		if err != nil {
			if errors.IsCategory(err, errors.CategoryConfiguration) {
				sum.Rejected++
				p.log.Error("gene range rejected", logger.String("range", in.ID), logger.Error(err))
				continue
			}
			return sum, err
		}
		if err := yw.Write(out.Reports()...); err != nil {
			return sum, p.wrap(err, errors.CategoryOutput, in.ID)
		}
		sum.Ranges++
		sum.Flips += out.Result.Flips
		sum.Unresolved += len(out.Result.Unresolved)
		for _, r := range out.Reports() {
			sum.Genes[r.Stage] += r.Count()
		}
	}

	if err := yw.Close(); err != nil {
		return sum, p.wrap(err, errors.CategoryOutput, "")
	}
	p.log.Info("run finished",
		logger.Int("ranges", sum.Ranges),
		logger.Int("rejected", sum.Rejected),
		logger.Int("optimized_genes", sum.Genes[genes.StageOptimized]))
	return sum, nil
}
