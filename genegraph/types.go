package genegraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for candidate graph operations.
var (
	// ErrNoEvidence indicates that neither sampled transcripts nor exon
	// candidates were supplied; callers treat the species as absent.
	ErrNoEvidence = errors.New("genegraph: no transcripts and no exon candidates")

	// ErrBadInterval indicates an empty, negative or inverted interval.
	ErrBadInterval = errors.New("genegraph: invalid interval")

	// ErrOutOfRange indicates an interval outside the graph's gene range.
	ErrOutOfRange = errors.New("genegraph: interval outside gene range")

	// ErrSentinelKind indicates an attempt to add a source or sink node.
	ErrSentinelKind = errors.New("genegraph: sentinel kinds cannot be added")

	// ErrNodeNotFound indicates a node index outside the graph.
	ErrNodeNotFound = errors.New("genegraph: node not found")

	// ErrIncompatibleEdge indicates endpoints that violate the splice rules.
	ErrIncompatibleEdge = errors.New("genegraph: incompatible edge")

	// ErrCycleDetected indicates a cycle; never produced by graphs built
	// through AddEdge, reported by Validate for corrupted graphs.
	ErrCycleDetected = errors.New("genegraph: cycle detected")
)

// Fixed sentinel indices.
const (
	SourceIndex = 0
	SinkIndex   = 1
)

// Kind classifies a node.
type Kind int

const (
	KindSource Kind = iota
	KindSink
	KindExon
	KindIntron
	KindIntergenic

	// KindUnknown marks a state of an unrecognised kind. AddNode rejects it.
	KindUnknown
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindSink:
		return "sink"
	case KindExon:
		return "exon"
	case KindIntron:
		return "intron"
	case KindIntergenic:
		return "intergenic"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a kind name into a Kind. Sentinels and unrecognised
// names return KindUnknown and an error.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "exon", "CDS", "cds":
		return KindExon, nil
	case "intron":
		return KindIntron, nil
	case "intergenic", "igenic":
		return KindIntergenic, nil
	default:
		return KindUnknown, fmt.Errorf("genegraph: unknown state kind %q", s)
	}
}

// Source records where a node's winning evidence came from.
type Source int

const (
	SourceSentinel Source = iota
	SourceSampled
	SourceCandidate
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceSampled:
		return "sampled"
	case SourceCandidate:
		return "candidate"
	default:
		return "sentinel"
	}
}

// Interval is a closed sequence interval [Start, End].
type Interval struct {
	Start int
	End   int
}

// Len returns the number of bases covered.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

// Valid reports whether the interval is non-empty and non-negative.
func (iv Interval) Valid() bool { return iv.Start >= 0 && iv.End >= iv.Start }

// Contains reports whether o lies entirely inside iv.
func (iv Interval) Contains(o Interval) bool { return o.Start >= iv.Start && o.End <= iv.End }

// Overlaps reports whether the two intervals share at least one base.
func (iv Interval) Overlaps(o Interval) bool { return iv.Start <= o.End && o.Start <= iv.End }

// String renders the interval as "start..end".
func (iv Interval) String() string { return fmt.Sprintf("%d..%d", iv.Start, iv.End) }

// Edge is a directed arc between two nodes of the same graph.
type Edge struct {
	From   int
	To     int
	Weight float64 // accumulated transition evidence
}

// Node is one candidate state. Nodes are owned by their Graph and referenced
// from outside by index.
type Node struct {
	Index    int      // creation order; stable handle
	Kind     Kind     // exon, intron, intergenic or sentinel
	Interval Interval // sequence coordinates
	Base     float64  // sampling/HMM evidence score
	Pressure float64  // selective-pressure contribution
	Evidence int      // number of contributing observations
	Source   Source   // origin of the winning score

	winnerEvidence int // evidence of the contributor that set Base
	out            []*Edge
	in             []*Edge
}

// Score returns the node score used by path search.
func (n *Node) Score() float64 { return n.Base + n.Pressure }

// Out returns the outgoing edges. The slice must not be modified.
func (n *Node) Out() []*Edge { return n.out }

// In returns the incoming edges. The slice must not be modified.
func (n *Node) In() []*Edge { return n.in }

// IsSentinel reports whether n is the source or the sink.
func (n *Node) IsSentinel() bool { return n.Kind == KindSource || n.Kind == KindSink }

// Transcript is one sampled candidate transcript: an ordered state sequence.
type Transcript struct {
	States []State
}

// State is one element of a sampled transcript.
type State struct {
	Kind     Kind
	Interval Interval
	Score    float64
}

// ExonCandidate is an independently identified exon.
type ExonCandidate struct {
	Interval Interval
	Score    float64
}

// Options configures graph construction.
type Options struct {
	// MinIntronLength is the smallest gap accepted between two directly
	// connected exons. Default 20.
	MinIntronLength int

	// TransitionWeight is added to an edge for every sampled transcript that
	// traverses it. Default 0.01.
	TransitionWeight float64
}

// Option is a functional option for New and Build.
type Option func(*Options)

// DefaultOptions returns the construction defaults.
func DefaultOptions() Options {
	return Options{
		MinIntronLength:  20,
		TransitionWeight: 0.01,
	}
}

// WithMinIntronLength sets the minimal implicit intron length between exons.
// Negative values are clamped to zero.
func WithMinIntronLength(n int) Option {
	return func(o *Options) {
		if n < 0 {
			n = 0
		}
		o.MinIntronLength = n
	}
}

// WithTransitionWeight sets the per-transcript evidence weight of sampled transitions.
func WithTransitionWeight(w float64) Option {
	return func(o *Options) {
		o.TransitionWeight = w
	}
}

// BuildStats summarises one Build call.
type BuildStats struct {
	Transcripts         int // transcripts supplied
	EmptyTranscripts    int // transcripts without states
	SampledStates       int // states accepted
	MalformedStates     int // states skipped (bad kind or interval)
	Candidates          int // exon candidates accepted
	MalformedCandidates int // candidates skipped
	MergedNodes         int // observations collapsed into an existing node
	DroppedTransitions  int // sampled transitions violating the splice rules
}
