package montyhall

import (
	"fmt"
	"strings"
	"time"

	"montyhall/bot/common"
	"montyhall/models"

	"github.com/bwmarrin/discordgo"
)

// BuildBatchEmbed renders the contingency table and fairness verdict of a batch.
// runID is 0 for batches that were not stored.
func BuildBatchEmbed(runID int64, seed int64, summary *models.BatchSummary, report *models.FairnessReport) *discordgo.MessageEmbed {
	title := "🚪 Monty Hall Simulation"
	if runID > 0 {
		title = fmt.Sprintf("🚪 Monty Hall Simulation #%d", runID)
	}

	embed := &discordgo.MessageEmbed{
		Title:     title,
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields:    []*discordgo.MessageEmbedField{},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Seed %d", seed),
		},
	}

	if summary == nil || summary.Rounds == 0 {
		embed.Description = "No rounds were played"
		return embed
	}

	embed.Description = fmt.Sprintf("Played **%s** rounds with both strategies", common.FormatCount(int64(summary.Rounds)))

	for _, strategy := range models.Strategies {
		counts := summary.Counts[strategy]
		row := summary.Proportions[strategy]
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: strategyLabel(strategy),
			Value: fmt.Sprintf("Wins: **%s** (%.2f)\nLosses: **%s** (%.2f)",
				common.FormatCount(int64(counts.Wins)), row.Win,
				common.FormatCount(int64(counts.Losses)), row.Lose),
			Inline: true,
		})
	}

	if report != nil {
		var lines []string
		for _, s := range report.Strategies {
			mark := "✅"
			if !s.WithinTolerance {
				mark = "⚠️"
			}
			lines = append(lines, fmt.Sprintf("%s %s: %s (expected %s, %s–%s, p=%.3f)",
				mark, strategyLabel(s.Strategy),
				common.FormatPercent(s.WinRate), common.FormatPercent(s.ExpectedRate),
				common.FormatPercent(s.ConfidenceLow), common.FormatPercent(s.ConfidenceHigh),
				s.PValue))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📊 Fairness",
			Value: strings.Join(lines, "\n"),
		})

		if report.Passed() {
			embed.Color = common.ColorSuccess
		} else {
			embed.Color = common.ColorWarning
		}
	}

	return embed
}

// BuildHistoryEmbed lists stored runs, newest first
func BuildHistoryEmbed(runs []*models.SimulationRun) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     "📜 Recent Simulations",
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
	}

	if len(runs) == 0 {
		embed.Description = "No simulations have been run yet"
		return embed
	}

	var lines []string
	for _, run := range runs {
		lines = append(lines, fmt.Sprintf("**#%d** %s rounds · stay %s · switch %s · %s",
			run.ID,
			common.FormatCount(int64(run.Rounds)),
			common.FormatPercent(run.StayWinRate),
			common.FormatPercent(run.SwitchWinRate),
			common.FormatDiscordTimestamp(run.CreatedAt, "R")))
	}

	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildVerificationEmbed reports whether a stored run still adds up and replays
func BuildVerificationEmbed(v *models.RunVerification) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🔍 Verification of Simulation #%d", v.RunID),
		Color:     common.ColorSuccess,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Stored records", Value: checkMark(v.RecordsMatch), Inline: true},
			{Name: "Seed replay", Value: checkMark(v.ReplayMatches), Inline: true},
		},
	}

	if !v.Consistent() {
		embed.Color = common.ColorDanger
		embed.Description = "This run does not match its records or its seed"
	} else {
		embed.Description = "Records and seed replay both match the stored summary"
	}

	return embed
}

func strategyLabel(strategy models.Strategy) string {
	switch strategy {
	case models.StrategyStay:
		return "✋ Stay"
	case models.StrategySwitch:
		return "🔀 Switch"
	default:
		return string(strategy)
	}
}

func checkMark(ok bool) string {
	if ok {
		return "✅ match"
	}
	return "❌ mismatch"
}
