package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"montyhall/events"
	"montyhall/models"
)

// Config selects how metrics are exported
type Config struct {
	Enabled        bool
	ServiceName    string
	Environment    string
	ExporterType   string // "console", "otlp" or "none"
	OTLPEndpoint   string
	ExportInterval time.Duration
}

// MetricsProvider manages OpenTelemetry metrics for simulation runs
type MetricsProvider struct {
	config        Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	simulationsCounter metric.Int64Counter
	roundsCounter      metric.Int64Counter
	durationHist       metric.Float64Histogram
	winRateHist        metric.Float64Histogram
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the exporter selected in the config
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.Enabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.markInitialized(false)
		return nil
	}

	var reader sdkmetric.Reader
	switch mp.config.ExporterType {
	case "console":
		exporter, err := stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(mp.config.ExportInterval))
		log.Info("Using console metric exporter")

	case "otlp":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		reader = sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(mp.config.ExportInterval))
		log.WithField("endpoint", mp.config.OTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.markInitialized(false)
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.ExporterType)
	}

	return mp.InitializeWithReader(reader)
}

// InitializeWithReader builds the meter provider around an existing reader
func (mp *MetricsProvider) InitializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.ServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("montyhall")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

func (mp *MetricsProvider) createInstruments() error {
	var err error

	mp.simulationsCounter, err = mp.meter.Int64Counter(
		SimulationsTotal,
		metric.WithDescription("Total number of simulation runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create simulations counter: %w", err)
	}

	mp.roundsCounter, err = mp.meter.Int64Counter(
		RoundsPlayedTotal,
		metric.WithDescription("Total number of rounds played across stored runs"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rounds counter: %w", err)
	}

	mp.durationHist, err = mp.meter.Float64Histogram(
		SimulationDuration,
		metric.WithDescription("Time spent playing a batch in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0),
	)
	if err != nil {
		return fmt.Errorf("failed to create duration histogram: %w", err)
	}

	mp.winRateHist, err = mp.meter.Float64Histogram(
		WinRate,
		metric.WithDescription("Observed win rate per strategy for each run"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9),
	)
	if err != nil {
		return fmt.Errorf("failed to create win rate histogram: %w", err)
	}

	return nil
}

func (mp *MetricsProvider) markInitialized(enabled bool) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.initialized = true
	mp.enabled = enabled
}

// Attach records metrics for every simulation event published on the bus
func (mp *MetricsProvider) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSimulationCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.SimulationCompletedEvent); ok {
			mp.RecordSimulationCompleted(ctx, e)
		}
	})
	bus.Subscribe(events.EventTypeSimulationFailed, func(ctx context.Context, event events.Event) {
		if _, ok := event.(events.SimulationFailedEvent); ok {
			mp.RecordSimulationFailed(ctx)
		}
	})
}

// RecordSimulationCompleted records a stored run
func (mp *MetricsProvider) RecordSimulationCompleted(ctx context.Context, e events.SimulationCompletedEvent) {
	if !mp.isEnabled() {
		return
	}

	mp.simulationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelStatus, StatusCompleted)))
	mp.roundsCounter.Add(ctx, int64(e.Rounds))
	mp.durationHist.Record(ctx, e.Duration.Seconds())
	mp.winRateHist.Record(ctx, e.StayWinRate, metric.WithAttributes(attribute.String(LabelStrategy, string(models.StrategyStay))))
	mp.winRateHist.Record(ctx, e.SwitchWinRate, metric.WithAttributes(attribute.String(LabelStrategy, string(models.StrategySwitch))))
}

// RecordSimulationFailed records a run that could not be stored
func (mp *MetricsProvider) RecordSimulationFailed(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}

	mp.simulationsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String(LabelStatus, StatusFailed)))
}

// Shutdown flushes and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
