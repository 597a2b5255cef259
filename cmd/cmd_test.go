package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"montyhall/config"
	"montyhall/game"
	"montyhall/service"
)

func testConfig() *config.Config {
	return &config.Config{
		DefaultRounds: 100,
		MaxRounds:     100000,
		Workers:       2,
		ChunkSize:     64,
		LogLevel:      "info",
		LogFormat:     "text",
		Environment:   "test",
	}
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	cfg := testConfig()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "json"
	require.NoError(t, ConfigureLogging(cfg))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)

	cfg.LogLevel = "loud"
	assert.Error(t, ConfigureLogging(cfg))

	cfg.LogLevel = "info"
	cfg.LogFormat = "xml"
	assert.Error(t, ConfigureLogging(cfg))
}

func TestSimulate(t *testing.T) {
	var out bytes.Buffer

	err := Simulate(context.Background(), testConfig(), []string{"3000", "42"}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Rounds: 3,000 | Seed: 42")
	assert.Contains(t, text, "STRATEGY")
	assert.Contains(t, text, "stay")
	assert.Contains(t, text, "switch")
	assert.Contains(t, text, "=== Fairness")
}

func TestSimulate_IsReproducible(t *testing.T) {
	var first, second bytes.Buffer

	require.NoError(t, Simulate(context.Background(), testConfig(), []string{"500", "7"}, &first))
	require.NoError(t, Simulate(context.Background(), testConfig(), []string{"500", "7"}, &second))

	assert.Equal(t, first.String(), second.String())
}

func TestSimulate_InvalidArguments(t *testing.T) {
	var out bytes.Buffer

	assert.Error(t, Simulate(context.Background(), testConfig(), []string{"many"}, &out))
	assert.Error(t, Simulate(context.Background(), testConfig(), []string{"10", "seedy"}, &out))

	err := Simulate(context.Background(), testConfig(), []string{"-5"}, &out)
	assert.ErrorIs(t, err, game.ErrInvalidArgument)

	err = Simulate(context.Background(), testConfig(), []string{"1000000"}, &out)
	assert.ErrorIs(t, err, game.ErrInvalidArgument)
}

func TestSimulate_ZeroRoundsRejected(t *testing.T) {
	var out bytes.Buffer

	err := Simulate(context.Background(), testConfig(), []string{"0", "5"}, &out)

	assert.ErrorIs(t, err, game.ErrInvalidArgument)
	assert.Empty(t, out.String())
}

func TestSimulate_DefaultRounds(t *testing.T) {
	var out bytes.Buffer

	require.NoError(t, Simulate(context.Background(), testConfig(), nil, &out))

	assert.Contains(t, out.String(), "Rounds: 100 | Seed:")
}

func TestWriteReport(t *testing.T) {
	simulationService := service.NewSimulationService(nil, service.SimulationConfig{Seed: 1, Workers: 1}, nil)
	batch, err := simulationService.PlayBatch(context.Background(), 10)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, WriteReport(&out, batch, nil))

	assert.Contains(t, out.String(), "Rounds: 10 | Seed: 1")
	assert.NotContains(t, out.String(), "Fairness")
}

func TestMigrate_Usage(t *testing.T) {
	cfg := testConfig()

	assert.Error(t, Migrate(cfg, nil))
	assert.EqualError(t, Migrate(cfg, []string{"sideways"}), "unknown migration command: sideways")
}

func TestMetricsConfig(t *testing.T) {
	cfg := testConfig()
	cfg.OTelEnabled = true
	cfg.OTelServiceName = "montyhall"
	cfg.OTelExporterType = "otlp"
	cfg.OTelOTLPEndpoint = "collector:4317"
	cfg.OTelExportIntervalMillis = 1500

	mc := metricsConfig(cfg)

	assert.True(t, mc.Enabled)
	assert.Equal(t, "otlp", mc.ExporterType)
	assert.Equal(t, "collector:4317", mc.OTLPEndpoint)
	assert.Equal(t, 1500*time.Millisecond, mc.ExportInterval)
	assert.Equal(t, "test", mc.Environment)
}
