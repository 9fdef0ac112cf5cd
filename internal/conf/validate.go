package conf

import (
	"fmt"

	"github.com/katalvlaran/compgene/consensus"
)

// Plausibility models.
const (
	ModelMajority = "majority"
	ModelPhylo    = "phylo"
	ModelCombined = "combined" // majority plus phylo
)

// ValidationError represents a collection of validation errors.
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	validators := []func(*Settings) []string{
		validateOptimizerSettings,
		validateGraphSettings,
		validatePipelineSettings,
		validatePressureSettings,
		validateLogSettings,
	}
	for _, validate := range validators {
		ve.Errors = append(ve.Errors, validate(settings)...)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateOptimizerSettings(s *Settings) []string {
	var errs []string
	if _, err := consensus.ParseStrategy(s.Optimizer.Strategy); err != nil {
		errs = append(errs, fmt.Sprintf("optimizer strategy %q is not local-move or dual-decomposition", s.Optimizer.Strategy))
	}
	if s.Optimizer.MaxIterations < 1 {
		errs = append(errs, "optimizer maxiterations must be at least 1")
	}
	if !(s.Optimizer.DDFactor > 0) {
		errs = append(errs, "optimizer dd_factor must be positive")
	}
	if !(s.Optimizer.StepSize > 0) {
		errs = append(errs, "optimizer stepsize must be positive")
	}
	return errs
}

func validateGraphSettings(s *Settings) []string {
	var errs []string
	if s.Graph.MinIntronLength < 0 {
		errs = append(errs, "graph minintronlength must be at least 0")
	}
	if s.Graph.TransitionWeight < 0 {
		errs = append(errs, "graph transitionweight must be at least 0")
	}
	return errs
}

func validatePipelineSettings(s *Settings) []string {
	var errs []string
	if s.Pipeline.MaxRangeLength < 1 {
		errs = append(errs, "pipeline maxrangelength must be at least 1")
	}
	if s.Pipeline.Workers < 0 {
		errs = append(errs, "pipeline workers must be at least 0")
	}
	return errs
}

func validatePressureSettings(s *Settings) []string {
	var errs []string
	switch s.Pressure.Model {
	case ModelMajority:
	case ModelPhylo, ModelCombined:
		if s.Phylo.Tree == "" {
			errs = append(errs, fmt.Sprintf("phylo tree is required by the %s model", s.Pressure.Model))
		}
		if !(s.Phylo.Loss > 0) || !(s.Phylo.Gain > 0) {
			errs = append(errs, "phylo loss and gain rates must be positive")
		}
	default:
		errs = append(errs, fmt.Sprintf("pressure model %q is not majority, phylo or combined", s.Pressure.Model))
	}
	if s.Pressure.OmegaWeight < 0 {
		errs = append(errs, "pressure omegaweight must be at least 0")
	}
	return errs
}

func validateLogSettings(s *Settings) []string {
	var errs []string
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log level %q is not debug, info, warn or error", s.Log.Level))
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log format %q is not text or json", s.Log.Format))
	}
	return errs
}
