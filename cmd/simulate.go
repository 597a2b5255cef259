package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"montyhall/config"
	"montyhall/models"
	"montyhall/service"
)

// Simulate handles `montyhall simulate [rounds] [seed]`: it plays a batch
// without touching the database and prints the table and fairness analysis.
func Simulate(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	var rounds int
	var seed int64

	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid rounds %q: %w", args[0], err)
		}
		rounds = parsed
	}
	if len(args) > 1 {
		parsed, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[1], err)
		}
		seed = parsed
	}

	simCfg := simulationConfig(cfg)
	if seed != 0 {
		simCfg.Seed = seed
	}
	simulationService := service.NewSimulationService(nil, simCfg, nil)
	if len(args) == 0 {
		rounds = simulationService.DefaultRounds()
	}

	batch, err := simulationService.PlayBatch(ctx, rounds)
	if err != nil {
		return fmt.Errorf("failed to play batch: %w", err)
	}
	log.WithFields(log.Fields{
		"rounds": batch.Summary.Rounds,
		"seed":   batch.Seed,
	}).Debug("Batch finished")

	return WriteReport(out, batch, simulationService.AnalyzeBatch(batch.Summary))
}

// WriteReport prints a batch's contingency table followed by its fairness analysis
func WriteReport(out io.Writer, batch *models.BatchResult, report *models.FairnessReport) error {
	p := message.NewPrinter(language.English)
	summary := batch.Summary

	p.Fprintf(out, "=== Monty Hall Simulation ===\n")
	p.Fprintf(out, "Rounds: %d | Seed: %d\n\n", summary.Rounds, batch.Seed)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STRATEGY\tWIN\tLOSE\tP(WIN)\tP(LOSE)")
	for _, strategy := range models.Strategies {
		counts := summary.Counts[strategy]
		row := summary.Proportions[strategy]
		fmt.Fprint(tw, p.Sprintf("%s\t%d\t%d\t%.2f\t%.2f\n", strategy, counts.Wins, counts.Losses, row.Win, row.Lose))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	if report == nil {
		return nil
	}

	p.Fprintf(out, "\n=== Fairness (tolerance ±%.2f, %.0f%% interval) ===\n", report.Tolerance, report.Confidence*100)
	for _, s := range report.Strategies {
		verdict := "✓ PASS"
		if !s.WithinTolerance {
			verdict = "✗ FAIL"
		}
		p.Fprintf(out, "%-6s | Actual: %.4f | Expected: %.4f | Deviation: %+.4f | CI: [%.4f, %.4f] | χ²: %.2f | p: %.3f %s\n",
			s.Strategy, s.WinRate, s.ExpectedRate, s.Deviation, s.ConfidenceLow, s.ConfidenceHigh, s.ChiSquared, s.PValue, verdict)
	}

	return nil
}
