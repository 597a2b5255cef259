package cmd

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"montyhall/bot"
	"montyhall/config"
	"montyhall/database"
	"montyhall/events"
	"montyhall/infrastructure"
	"montyhall/infrastructure/observability"
	"montyhall/repository"
	"montyhall/service"
)

// Run initializes and starts the bot
func Run(ctx context.Context, cfg *config.Config) error {
	log.Info("Starting montyhall bot...")

	if err := cfg.Validate(config.ModeBot); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)

	// Bring the schema up to date before anything touches it
	if err := database.RunMigrationsWithURL(databaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeRunLogging(eventBus)

	metrics := observability.NewMetricsProvider(metricsConfig(cfg))
	if err := metrics.Initialize(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	metrics.Attach(eventBus)

	var natsClient *infrastructure.NATSClient
	if cfg.EventForwardingEnabled() {
		natsClient, err = connectEventForwarding(ctx, cfg.NATSServers, eventBus)
		if err != nil {
			db.Close()
			return err
		}
	}

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	simulationService := service.NewSimulationService(uowFactory, simulationConfig(cfg), eventBus)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.DiscordGuildID,
		AnnounceChannelID: cfg.AnnounceChannelID,
	}
	discordBot, err := bot.New(botConfig, simulationService, eventBus)
	if err != nil {
		if natsClient != nil {
			natsClient.Close()
		}
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	log.Info("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give in-flight event handlers a moment before the pool goes away
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
	}

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down metrics: %v", err)
	}
	if natsClient != nil {
		if err := natsClient.Close(); err != nil {
			log.Errorf("Error closing NATS connection: %v", err)
		}
	}

	log.Info("Closing database connection...")
	db.Close()
	log.Info("Shutdown completed")

	return nil
}

func simulationConfig(cfg *config.Config) service.SimulationConfig {
	return service.SimulationConfig{
		DefaultRounds: cfg.DefaultRounds,
		MaxRounds:     cfg.MaxRounds,
		Seed:          cfg.Seed,
		Workers:       cfg.Workers,
		ChunkSize:     cfg.ChunkSize,
	}
}

func metricsConfig(cfg *config.Config) observability.Config {
	return observability.Config{
		Enabled:        cfg.OTelEnabled,
		ServiceName:    cfg.OTelServiceName,
		Environment:    cfg.Environment,
		ExporterType:   cfg.OTelExporterType,
		OTLPEndpoint:   cfg.OTelOTLPEndpoint,
		ExportInterval: time.Duration(cfg.OTelExportIntervalMillis) * time.Millisecond,
	}
}

// connectEventForwarding copies simulation events from the bus to NATS
func connectEventForwarding(ctx context.Context, servers string, bus *events.Bus) (*infrastructure.NATSClient, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client := infrastructure.NewNATSClient(servers)
	if err := client.Connect(connectCtx); err != nil {
		return nil, err
	}

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.SimulationStream, mapper.GetAllSubjects()); err != nil {
		client.Close()
		return nil, err
	}

	infrastructure.NewNATSEventForwarder(client, mapper).Attach(bus)
	log.Info("Forwarding simulation events to NATS")
	return client, nil
}

// subscribeRunLogging records every completed or failed run in the application log
func subscribeRunLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeSimulationCompleted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SimulationCompletedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"run_id":          e.RunID,
			"rounds":          e.Rounds,
			"seed":            e.Seed,
			"stay_win_rate":   e.StayWinRate,
			"switch_win_rate": e.SwitchWinRate,
		}).Info("Simulation run completed")
	})

	bus.Subscribe(events.EventTypeSimulationFailed, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.SimulationFailedEvent)
		if !ok {
			return
		}
		log.WithFields(log.Fields{
			"rounds": e.Rounds,
			"seed":   e.Seed,
			"reason": e.Reason,
		}).Warn("Simulation run failed")
	})
}
