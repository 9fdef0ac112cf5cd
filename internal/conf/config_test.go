package conf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/consensus"
	"github.com/katalvlaran/compgene/internal/conf"
	"github.com/katalvlaran/compgene/internal/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compgene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := conf.Load(conf.New(), "")
	require.NoError(t, err, "missing default config file is not an error")

	assert.Equal(t, "local-move", s.Optimizer.Strategy)
	assert.Equal(t, 100, s.Optimizer.MaxIterations)
	assert.Equal(t, 15.0, s.Optimizer.DDFactor)
	assert.Equal(t, 20, s.Graph.MinIntronLength)
	assert.Equal(t, 1_000_000, s.Pipeline.MaxRangeLength)
	assert.Equal(t, conf.ModelMajority, s.Pressure.Model)
	assert.Equal(t, "info", s.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
optimizer:
  strategy: dual-decomposition
  maxiterations: 40
  dd_factor: 7.5
pipeline:
  workers: 4
log:
  format: json
`)
	t.Setenv("COMPGENE_PIPELINE_MAXRANGELENGTH", "5000")

	s, err := conf.Load(conf.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "dual-decomposition", s.Optimizer.Strategy)
	assert.Equal(t, 40, s.Optimizer.MaxIterations)
	assert.Equal(t, 7.5, s.Optimizer.DDFactor)
	assert.Equal(t, 4, s.Pipeline.Workers)
	assert.Equal(t, 5000, s.Pipeline.MaxRangeLength)
	assert.Equal(t, "json", s.Log.Format)

	cfg, err := s.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, consensus.StrategyDualDecomposition, cfg.Optimizer.Strategy)
	assert.Equal(t, 7.5, cfg.Optimizer.DecayFactor)
	assert.Equal(t, 5000, cfg.MaxRangeLength)
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadErrors(t *testing.T) {
	_, err := conf.Load(conf.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err, "an explicit path must exist")
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))

	_, err = conf.Load(conf.New(), writeConfig(t, "optimizer: [\n"))
	require.Error(t, err)

	_, err = conf.Load(conf.New(), writeConfig(t, "optimizer:\n  strategy: annealing\n  maxiterations: 0\nlog:\n  level: loud\n"))
	var ve conf.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 3)
	assert.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestValidatePhyloModel(t *testing.T) {
	v := conf.New()
	v.Set("pressure.model", conf.ModelPhylo)
	_, err := conf.Load(v, writeConfig(t, "{}\n"))
	var ve conf.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors[0], "phylo tree")

	v = conf.New()
	v.Set("pressure.model", conf.ModelPhylo)
	v.Set("phylo.tree", "species.nwk")
	s, err := conf.Load(v, writeConfig(t, "{}\n"))
	require.NoError(t, err)
	assert.Equal(t, "species.nwk", s.Phylo.Tree)

	v = conf.New()
	v.Set("pressure.model", conf.ModelCombined)
	_, err = conf.Load(v, writeConfig(t, "{}\n"))
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Errors[0], "combined model")
}
