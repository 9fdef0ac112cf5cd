package pipeline

import (
	"errors"

	"github.com/katalvlaran/compgene/consensus"
	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/genes"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/internal/metrics"
	"github.com/katalvlaran/compgene/pressure"
)

var (
	// ErrRangeTooLong indicates a species span above Config.MaxRangeLength.
	ErrRangeTooLong = errors.New("pipeline: gene range too long")

	// ErrUnknownSpecies indicates range input naming an undeclared species.
	ErrUnknownSpecies = errors.New("pipeline: unknown species")

	// ErrBadConfig indicates an invalid pipeline setting.
	ErrBadConfig = errors.New("pipeline: invalid configuration")

	// ErrNoSpecies indicates a Pipeline created without species.
	ErrNoSpecies = errors.New("pipeline: no species")
)

// DefaultMaxRangeLength is the longest accepted species span in bp.
const DefaultMaxRangeLength = 1_000_000

// Config configures a Pipeline.
type Config struct {
	Optimizer consensus.Config

	// MinIntronLength and TransitionWeight are passed to graph construction.
	MinIntronLength  int
	TransitionWeight float64

	// MaxRangeLength rejects ranges with a longer species span.
	MaxRangeLength int

	// Workers bounds per-species fan-out; ≤ 0 means unlimited.
	Workers int

	// OmegaWeight and OrphanPenalty configure the selective-pressure scorer.
	OmegaWeight   float64
	OrphanPenalty float64
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	gd := genegraph.DefaultOptions()
	return Config{
		Optimizer:        consensus.DefaultConfig(),
		MinIntronLength:  gd.MinIntronLength,
		TransitionWeight: gd.TransitionWeight,
		MaxRangeLength:   DefaultMaxRangeLength,
		OmegaWeight:      1,
	}
}

// SpeciesRange is the evidence of one species in one gene range.
type SpeciesRange struct {
	Name string
	Span genegraph.Interval

	// Missing and RetrievalFailed mark a species without sequence in the
	// range; such species are absent.
	Missing         bool
	RetrievalFailed bool

	Transcripts []genegraph.Transcript
	Candidates  []genegraph.ExonCandidate
}

// ClusterMember names one exon of an orthology cluster.
type ClusterMember struct {
	Species  string
	Interval genegraph.Interval
}

// ClusterInput is one orthology cluster before node resolution.
type ClusterInput struct {
	Members      []ClusterMember
	Plausibility float64
	Omega        float64
}

// RangeInput is everything known about one gene range. Species not listed
// are absent.
type RangeInput struct {
	ID       string
	Species  []SpeciesRange
	Clusters []ClusterInput
}

// RangeStats summarises the processing of one range.
type RangeStats struct {
	Absent          int // species without a graph
	Malformed       int // evidence states and candidates skipped while building
	Clusters        int // clusters after resolution
	DroppedMembers  int // members whose exon was not found
	DroppedClusters int // clusters left without members
	Pressure        pressure.Stats
}

// RangeOutput holds the three gene sets of one range.
type RangeOutput struct {
	ID        string
	Base      genes.Report
	Init      genes.Report
	Optimized genes.Report
	Sampled   [][]genes.SampledExon // indexed by species
	Result    *consensus.Result
	Stats     RangeStats
}

// Reports returns the gene sets in output order.
func (o *RangeOutput) Reports() []genes.Report {
	return []genes.Report{o.Base, o.Init, o.Optimized}
}

// Summary is the outcome of Run.
type Summary struct {
	RunID      string
	Ranges     int            // ranges processed
	Rejected   int            // ranges skipped on configuration errors
	Genes      map[string]int // stage → genes written
	Flips      int
	Unresolved int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger; the pipeline logs under module "pipeline".
func WithLogger(l logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(p *Pipeline) { p.rec = r }
}

// WithPlausibility sets the cluster plausibility function used by the
// optimizer; the default is pressure.Majority.
func WithPlausibility(pl pressure.Plausibility) Option {
	return func(p *Pipeline) { p.plaus = pl }
}

// WithRunID overrides the generated run id.
func WithRunID(id string) Option {
	return func(p *Pipeline) { p.runID = id }
}
