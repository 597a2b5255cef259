package montyhall

import (
	"context"
	"time"

	"montyhall/bot/common"
	"montyhall/models"
	"montyhall/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// commandTimeout bounds how long a single slash command may simulate
const commandTimeout = 2 * time.Minute

// Feature represents the /montyhall command
type Feature struct {
	simulationService service.SimulationService
}

// NewFeature creates a new montyhall feature instance
func NewFeature(simulationService service.SimulationService) *Feature {
	return &Feature{
		simulationService: simulationService,
	}
}

// HandleCommand handles the /montyhall command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: play, history or verify")
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring montyhall response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	sub := options[0]
	switch sub.Name {
	case "play":
		f.handlePlay(ctx, s, i, sub.Options)
	case "history":
		f.handleHistory(ctx, s, i, sub.Options)
	case "verify":
		f.handleVerify(ctx, s, i, sub.Options)
	default:
		common.FollowUpWithError(s, i, "Unknown subcommand")
	}
}

func (f *Feature) handlePlay(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	rounds := int(intOption(options, "rounds", int64(f.simulationService.DefaultRounds())))
	seed := intOption(options, "seed", 0)

	var embed *discordgo.MessageEmbed
	if f.simulationService.PersistenceEnabled() {
		run, err := f.simulationService.RunSimulation(ctx, rounds, seed)
		if err != nil {
			common.HandleError(s, i, err, "failed to run simulation")
			return
		}
		embed = BuildBatchEmbed(run.ID, run.Seed, run.Summary, f.simulationService.AnalyzeBatch(run.Summary))
	} else {
		batch, err := f.simulationService.PlayBatch(ctx, rounds)
		if err != nil {
			common.HandleError(s, i, err, "failed to play batch")
			return
		}
		embed = BuildBatchEmbed(0, batch.Seed, batch.Summary, f.simulationService.AnalyzeBatch(batch.Summary))
	}

	f.send(s, i, embed)
}

func (f *Feature) handleHistory(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	limit := int(intOption(options, "limit", 0))

	runs, err := f.simulationService.ListRecentRuns(ctx, limit)
	if err != nil {
		common.HandleError(s, i, err, "failed to list simulation runs")
		return
	}

	f.send(s, i, BuildHistoryEmbed(runs))
}

func (f *Feature) handleVerify(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	runID := intOption(options, "id", 0)

	verification, err := f.simulationService.VerifyRun(ctx, runID)
	if err != nil {
		common.HandleError(s, i, err, "failed to verify simulation run")
		return
	}

	f.send(s, i, BuildVerificationEmbed(verification))
}

func (f *Feature) send(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := common.FollowUpWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error sending montyhall embed: %v", err)
	}
}

// AnnounceRun posts a completed run to a channel
func AnnounceRun(s *discordgo.Session, channelID string, run *models.SimulationRun, report *models.FairnessReport) error {
	_, err := s.ChannelMessageSendEmbed(channelID, BuildBatchEmbed(run.ID, run.Seed, run.Summary, report))
	return err
}

func intOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string, fallback int64) int64 {
	for _, opt := range options {
		if opt.Name == name {
			return opt.IntValue()
		}
	}
	return fallback
}
