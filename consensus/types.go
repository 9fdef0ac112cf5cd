package consensus

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/compgene/genegraph"
	"github.com/katalvlaran/compgene/internal/logger"
	"github.com/katalvlaran/compgene/ortho"
	"github.com/katalvlaran/compgene/pathsolver"
	"github.com/katalvlaran/compgene/pressure"
)

// Sentinel errors for optimizer configuration and input.
var (
	ErrUnknownStrategy = errors.New("consensus: unknown strategy")
	ErrBadConfig       = errors.New("consensus: invalid configuration")
	ErrSpeciesMismatch = errors.New("consensus: cluster set and graphs disagree on species count")
	ErrInitialPaths    = errors.New("consensus: initial paths do not match graphs")
)

// Strategy selects the optimization algorithm.
type Strategy int

const (
	StrategyLocalMove Strategy = iota
	StrategyDualDecomposition
)

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyLocalMove:
		return "local-move"
	case StrategyDualDecomposition:
		return "dual-decomposition"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy converts a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "local-move", "localmove", "lm":
		return StrategyLocalMove, nil
	case "dual-decomposition", "dualdecomp", "dd":
		return StrategyDualDecomposition, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Config configures an Optimizer.
type Config struct {
	Strategy Strategy

	// MaxIterations caps Local-Move passes and Dual-Decomposition
	// iterations. Default 100.
	MaxIterations int

	// DecayFactor is F in the step size StepSize·F/(F+t−1). Default 15.
	DecayFactor float64

	// StepSize is the initial subgradient step. Default 1.
	StepSize float64

	// Workers bounds concurrent species solves; ≤ 0 means unlimited.
	Workers int
}

// DefaultConfig returns the default optimizer configuration.
func DefaultConfig() Config {
	return Config{
		Strategy:      StrategyLocalMove,
		MaxIterations: 100,
		DecayFactor:   15,
		StepSize:      1,
	}
}

// Validate checks the numeric parameters.
func (c Config) Validate() error {
	switch {
	case c.Strategy != StrategyLocalMove && c.Strategy != StrategyDualDecomposition:
		return fmt.Errorf("%w: %s", ErrUnknownStrategy, c.Strategy)
	case c.MaxIterations < 1:
		return fmt.Errorf("%w: MaxIterations=%d", ErrBadConfig, c.MaxIterations)
	case !(c.DecayFactor > 0):
		return fmt.Errorf("%w: DecayFactor=%g", ErrBadConfig, c.DecayFactor)
	case !(c.StepSize > 0):
		return fmt.Errorf("%w: StepSize=%g", ErrBadConfig, c.StepSize)
	}
	return nil
}

// Problem is the input of one optimization run.
type Problem struct {
	// Graphs is indexed by species; nil marks an absent species.
	Graphs []*genegraph.Graph

	// Clusters of the gene range; nil means no clusters.
	Clusters *ortho.Set

	// Plausibility scores cluster patterns; nil selects pressure.Majority.
	Plausibility pressure.Plausibility

	// Initial holds the starting path per species; nil means the
	// independent best paths.
	Initial []pathsolver.Path
}

// Result is the outcome of one optimization run.
type Result struct {
	Strategy   Strategy
	Paths      []pathsolver.Path  // indexed by species
	Labels     []ortho.Membership // indexed by cluster ID
	Objective  float64            // J of Paths
	Iterations int                // passes (Local-Move) or iterations (Dual-Decomposition)
	Flips      int                // accepted label flips (Local-Move)
	Converged  bool

	// Unresolved lists clusters whose members still disagreed at the end of
	// the search; their member nodes were excluded and Objective re-evaluated.
	Unresolved []int

	// Trace holds J after the start and after every accepted step
	// (Local-Move, before unresolved clusters are excluded) or the primal J of every iteration (Dual-Decomposition).
	Trace []float64

	// DualTrace holds the best dual bound after every iteration
	// (Dual-Decomposition only).
	DualTrace []float64
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger; the optimizer logs under module "consensus".
func WithLogger(l logger.Logger) Option {
	return func(o *Optimizer) {
		o.log = l.Module("consensus")
	}
}
