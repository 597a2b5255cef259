package bot

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"montyhall/bot/features/montyhall"
	"montyhall/events"
	"montyhall/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string
	AnnounceChannelID string
}

type Bot struct {
	config            Config
	session           *discordgo.Session
	simulationService service.SimulationService
	eventBus          *events.Bus

	montyHall *montyhall.Feature
}

func New(config Config, simulationService service.SimulationService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:            config,
		session:           dg,
		simulationService: simulationService,
		eventBus:          eventBus,
		montyHall:         montyhall.NewFeature(simulationService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.AnnounceChannelID != "" && eventBus != nil {
		eventBus.Subscribe(events.EventTypeSimulationCompleted, bot.announceSimulation)
		log.WithField("channel_id", config.AnnounceChannelID).Info("Simulation announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// announceSimulation posts completed runs to the announcement channel
func (b *Bot) announceSimulation(ctx context.Context, event events.Event) {
	completed, ok := event.(events.SimulationCompletedEvent)
	if !ok {
		return
	}

	run, err := b.simulationService.GetRun(ctx, completed.RunID)
	if err != nil {
		log.WithError(err).WithField("run_id", completed.RunID).Error("Failed to load run for announcement")
		return
	}

	report := b.simulationService.AnalyzeBatch(run.Summary)
	if err := montyhall.AnnounceRun(b.session, b.config.AnnounceChannelID, run, report); err != nil {
		log.WithError(err).WithField("run_id", run.ID).Error("Failed to announce simulation run")
	}
}
