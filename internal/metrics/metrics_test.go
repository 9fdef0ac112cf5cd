package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/compgene/internal/metrics"
)

func TestMetrics_RecordAndGather(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(reg)
	require.NoError(t, err)

	var rec metrics.Recorder = m
	rec.RecordRange(metrics.StatusOK, 0.02)
	rec.RecordRange(metrics.StatusRejected, 0.001)
	rec.RecordOptimization("local-move", 3, 2, 0, true)
	rec.RecordOptimization("dual-decomposition", 100, 0, 1, false)
	rec.RecordAbsentSpecies("mm")

	assert.InDelta(t, 1, testutil.ToFloat64(m.RangesTotal.WithLabelValues(metrics.StatusOK)), 1e-9)
	assert.InDelta(t, 2, testutil.ToFloat64(m.AcceptedFlips), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.UnresolvedClusters), 1e-9)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AbsentSpecies.WithLabelValues("mm")), 1e-9)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetrics_DoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewMetrics(reg)
	require.NoError(t, err)

	_, err = metrics.NewMetrics(reg)
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.NewMetrics(reg)
	require.NoError(t, err)
	m.RecordRange(metrics.StatusOK, 0.5)

	path := filepath.Join(t.TempDir(), "compgene.prom")
	require.NoError(t, metrics.WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "compgene_gene_ranges_total")
}
