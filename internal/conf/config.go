// Package conf loads compgene settings from file, environment and flags.
package conf

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/katalvlaran/compgene/consensus"
	"github.com/katalvlaran/compgene/internal/errors"
	"github.com/katalvlaran/compgene/pipeline"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// COMPGENE_OPTIMIZER_STRATEGY.
const EnvPrefix = "COMPGENE"

// ConfigName is the file name searched for without an explicit path.
const ConfigName = "compgene"

// Settings holds every configurable parameter.
type Settings struct {
	Optimizer OptimizerSettings
	Graph     GraphSettings
	Pipeline  PipelineSettings
	Pressure  PressureSettings
	Phylo     PhyloSettings
	Log       LogSettings
	Metrics   MetricsSettings
}

// OptimizerSettings configures the consensus optimizer.
type OptimizerSettings struct {
	Strategy      string  // local-move or dual-decomposition
	MaxIterations int     // iteration cap of both strategies
	DDFactor      float64 `mapstructure:"dd_factor"` // step size decay factor F
	StepSize      float64 // initial subgradient step
}

// GraphSettings configures candidate graph construction.
type GraphSettings struct {
	MinIntronLength  int     // smallest gap between directly joined exons
	TransitionWeight float64 // evidence added per sampled transition
}

// PipelineSettings configures gene-range processing.
type PipelineSettings struct {
	MaxRangeLength int // longest accepted species span in bp
	Workers        int // per-species fan-out, 0 = unlimited
}

// PressureSettings configures selective pressure and plausibility.
type PressureSettings struct {
	OmegaWeight   float64
	OrphanPenalty float64
	Model         string // majority or phylo
}

// PhyloSettings configures the exon gain/loss model.
type PhyloSettings struct {
	Tree   string  // path of a Newick species tree
	Loss   float64 // exon loss rate
	Gain   float64 // exon gain rate
	Factor float64 // weight of the log-likelihood
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string // debug, info, warn or error
	Format string // text or json
}

// MetricsSettings configures metrics export.
type MetricsSettings struct {
	Textfile string // Prometheus textfile written after a run, empty = off
}

// New returns a viper instance with defaults and environment overrides.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaultConfig(v)
	return v
}

// Load reads the configuration file into v and returns validated settings.
// An empty path searches ConfigName in the working directory and in
// $HOME/.config/compgene; a missing file there is not an error.
func Load(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/compgene")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Newf("error reading config file: %w", err).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.Newf("error unmarshaling config into struct: %w", err).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if err := ValidateSettings(settings); err != nil {
		return nil, errors.Newf("error validating settings: %w", err).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	return settings, nil
}

// PipelineConfig converts the settings into a pipeline configuration.
func (s *Settings) PipelineConfig() (pipeline.Config, error) {
	strategy, err := consensus.ParseStrategy(s.Optimizer.Strategy)
	if err != nil {
		return pipeline.Config{}, err
	}
	cfg := pipeline.DefaultConfig()
	cfg.Optimizer.Strategy = strategy
	cfg.Optimizer.MaxIterations = s.Optimizer.MaxIterations
	cfg.Optimizer.DecayFactor = s.Optimizer.DDFactor
	cfg.Optimizer.StepSize = s.Optimizer.StepSize
	cfg.MinIntronLength = s.Graph.MinIntronLength
	cfg.TransitionWeight = s.Graph.TransitionWeight
	cfg.MaxRangeLength = s.Pipeline.MaxRangeLength
	cfg.Workers = s.Pipeline.Workers
	cfg.OmegaWeight = s.Pressure.OmegaWeight
	cfg.OrphanPenalty = s.Pressure.OrphanPenalty
	return cfg, nil
}
