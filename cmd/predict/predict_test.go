package predict_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/cmd/predict"
	"github.com/katalvlaran/compgene/genes"
	"github.com/katalvlaran/compgene/internal/conf"
)

func settings(t *testing.T, set map[string]any) *conf.Settings {
	t.Helper()
	path := filepath.Join(t.TempDir(), "compgene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}\n"), 0o600))
	v := conf.New()
	for k, val := range set {
		v.Set(k, val)
	}
	s, err := conf.Load(v, path)
	require.NoError(t, err)
	return s
}

func TestRunMajority(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "compgene.prom")
	s := settings(t, map[string]any{"metrics.textfile": textfile, "log.format": "json"})

	var out, logs bytes.Buffer
	require.NoError(t, predict.Run(context.Background(), s, "testdata/ranges.yaml", &out, &logs))

	reports, err := genes.ReadYAML(&out)
	require.NoError(t, err)
	require.Len(t, reports, 6)
	assert.Equal(t, 100, reports[2].Species[1].Genes[0].Start)

	prom, err := os.ReadFile(textfile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "compgene_")
	assert.Contains(t, logs.String(), `"msg":"prediction finished"`)
}

func TestRunPhylo(t *testing.T) {
	s := settings(t, map[string]any{
		"pressure.model":     conf.ModelPhylo,
		"phylo.tree":         "testdata/species.nwk",
		"optimizer.strategy": "dual-decomposition",
		"log.level":          "debug",
	})

	var out, logs bytes.Buffer
	require.NoError(t, predict.Run(context.Background(), s, "testdata/ranges.yaml", &out, &logs))
	assert.Contains(t, logs.String(), "exon evolution model")

	reports, err := genes.ReadYAML(&out)
	require.NoError(t, err)
	assert.Len(t, reports, 6)
}

func TestRunCombined(t *testing.T) {
	s := settings(t, map[string]any{
		"pressure.model": conf.ModelCombined,
		"phylo.tree":     "testdata/species.nwk",
	})

	var out, logs bytes.Buffer
	require.NoError(t, predict.Run(context.Background(), s, "testdata/ranges.yaml", &out, &logs))
	reports, err := genes.ReadYAML(&out)
	require.NoError(t, err)
	assert.Len(t, reports, 6)
}

func TestRunErrors(t *testing.T) {
	s := settings(t, nil)
	var out, logs bytes.Buffer
	require.Error(t, predict.Run(context.Background(), s, "testdata/missing.yaml", &out, &logs))

	s = settings(t, map[string]any{"pressure.model": conf.ModelPhylo, "phylo.tree": "testdata/missing.nwk"})
	require.Error(t, predict.Run(context.Background(), s, "testdata/ranges.yaml", &out, &logs))
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, logs bytes.Buffer
	err := predict.Run(ctx, settings(t, nil), "testdata/ranges.yaml", &out, &logs)
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, logs.String(), "prediction interrupted")
}

func TestCommandArgs(t *testing.T) {
	cmd := predict.Command(func() (*conf.Settings, error) { return settings(t, nil), nil })
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	require.Error(t, cmd.Execute())
}
