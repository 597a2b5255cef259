package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"montyhall/events"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	byName := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			byName[m.Name] = m
		}
	}
	return byName
}

func TestMetricsProvider_RecordSimulation(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(Config{Enabled: true, ServiceName: "montyhall-test", Environment: "test"})
	require.NoError(t, mp.InitializeWithReader(reader))
	defer mp.Shutdown(context.Background())

	ctx := context.Background()
	mp.RecordSimulationCompleted(ctx, events.SimulationCompletedEvent{
		RunID:         1,
		Rounds:        1000,
		StayWinRate:   0.33,
		SwitchWinRate: 0.67,
		Duration:      20 * time.Millisecond,
	})
	mp.RecordSimulationCompleted(ctx, events.SimulationCompletedEvent{RunID: 2, Rounds: 500})
	mp.RecordSimulationFailed(ctx)

	metrics := collect(t, reader)

	rounds, ok := metrics[RoundsPlayedTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, rounds.DataPoints, 1)
	assert.Equal(t, int64(1500), rounds.DataPoints[0].Value)

	simulations, ok := metrics[SimulationsTotal].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	byStatus := make(map[string]int64)
	for _, dp := range simulations.DataPoints {
		status, _ := dp.Attributes.Value(LabelStatus)
		byStatus[status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{StatusCompleted: 2, StatusFailed: 1}, byStatus)

	duration, ok := metrics[SimulationDuration].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(2), duration.DataPoints[0].Count)

	winRate, ok := metrics[WinRate].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, winRate.DataPoints, 2)
}

func TestMetricsProvider_Disabled(t *testing.T) {
	mp := NewMetricsProvider(Config{Enabled: false})
	require.NoError(t, mp.Initialize(context.Background()))

	// Instruments were never created, so recording must be a no-op
	mp.RecordSimulationCompleted(context.Background(), events.SimulationCompletedEvent{Rounds: 10})
	mp.RecordSimulationFailed(context.Background())
	assert.NoError(t, mp.Shutdown(context.Background()))
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	mp := NewMetricsProvider(Config{Enabled: true, ExporterType: "carrier-pigeon"})
	assert.EqualError(t, mp.Initialize(context.Background()), "unknown exporter type: carrier-pigeon")
}

func TestMetricsProvider_Attach(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := NewMetricsProvider(Config{Enabled: true, ServiceName: "montyhall-test"})
	require.NoError(t, mp.InitializeWithReader(reader))
	defer mp.Shutdown(context.Background())

	bus := events.NewBus()
	mp.Attach(bus)

	bus.Publish(events.SimulationCompletedEvent{RunID: 1, Rounds: 100})

	assert.Eventually(t, func() bool {
		rounds, ok := collect(t, reader)[RoundsPlayedTotal].Data.(metricdata.Sum[int64])
		return ok && len(rounds.DataPoints) == 1 && rounds.DataPoints[0].Value == 100
	}, time.Second, 10*time.Millisecond)
}
