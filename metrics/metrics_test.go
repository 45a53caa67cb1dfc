package metrics_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/waypath/metrics"
)

func TestRecordCommand(t *testing.T) {
	m := metrics.New()
	m.RecordCommand("place", metrics.OutcomeOK)
	m.RecordCommand("place", metrics.OutcomeOK)
	m.RecordCommand("go", metrics.OutcomeRejected)

	require.Equal(t, 2.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("place", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("go", "rejected")))
}

func TestObserveRoute(t *testing.T) {
	m := metrics.New()
	m.ObserveRoute(0.001, 8, true)
	m.ObserveRoute(0.002, 0, false)

	require.Equal(t, 1.0, testutil.ToFloat64(m.UnreachableRoutes))
	require.Equal(t, uint64(2), sampleCount(t, m, "waypath_route_duration_seconds"))
	require.Equal(t, uint64(1), sampleCount(t, m, "waypath_route_cost_meters"))
}

// sampleCount returns the observation count of the named histogram.
func sampleCount(t *testing.T, m *metrics.Metrics, name string) uint64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			require.Len(t, mf.GetMetric(), 1)
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("histogram %s not gathered", name)

	return 0
}

func TestSetMapSize(t *testing.T) {
	m := metrics.New()
	m.SetMapSize(3, 2, 1)
	require.Equal(t, 3.0, testutil.ToFloat64(m.MapNodes))
	require.Equal(t, 2.0, testutil.ToFloat64(m.MapEdges))
	require.Equal(t, 1.0, testutil.ToFloat64(m.MapNames))
}

func TestWriteTextfile(t *testing.T) {
	m := metrics.New()
	m.RecordCommand("save", metrics.OutcomeOK)
	path := filepath.Join(t.TempDir(), "waypath.prom")

	require.NoError(t, m.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `waypath_commands_total{command="save",outcome="ok"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.RecordCommand("x", metrics.OutcomeOK)
	m.ObserveRoute(1, 1, true)
	m.SetMapSize(1, 1, 1)
	require.NoError(t, m.WriteTextfile("/nonexistent/dir/file"))
	require.Nil(t, m.Registry())
}
