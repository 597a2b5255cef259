package testutil

import (
	"time"

	"montyhall/models"
)

// CreateTestSummary creates a summary with the given win counts per strategy
func CreateTestSummary(rounds, stayWins, switchWins int) *models.BatchSummary {
	summary := models.NewBatchSummary()
	summary.Rounds = rounds
	summary.Counts[models.StrategyStay] = models.OutcomeCounts{Wins: stayWins, Losses: rounds - stayWins}
	summary.Counts[models.StrategySwitch] = models.OutcomeCounts{Wins: switchWins, Losses: rounds - switchWins}
	summary.Normalize()
	return summary
}

// CreateTestRun creates a run for a batch of 3 rounds where switching won twice
func CreateTestRun(seed int64) *models.SimulationRun {
	return CreateTestRunWithSummary(seed, CreateTestSummary(3, 1, 2))
}

// CreateTestRunWithSummary creates a run around an existing summary
func CreateTestRunWithSummary(seed int64, summary *models.BatchSummary) *models.SimulationRun {
	return &models.SimulationRun{
		Rounds:        summary.Rounds,
		Seed:          seed,
		Workers:       1,
		ChunkSize:     1024,
		StayWinRate:   summary.WinRate(models.StrategyStay),
		SwitchWinRate: summary.WinRate(models.StrategySwitch),
		Summary:       summary,
		Duration:      15 * time.Millisecond,
	}
}

// CreateTestRecords creates records matching CreateTestRun: stay wins round 1, switch wins rounds 2 and 3
func CreateTestRecords() []models.RoundResult {
	return []models.RoundResult{
		{Strategy: models.StrategyStay, Outcome: models.OutcomeWin},
		{Strategy: models.StrategySwitch, Outcome: models.OutcomeLose},
		{Strategy: models.StrategyStay, Outcome: models.OutcomeLose},
		{Strategy: models.StrategySwitch, Outcome: models.OutcomeWin},
		{Strategy: models.StrategyStay, Outcome: models.OutcomeLose},
		{Strategy: models.StrategySwitch, Outcome: models.OutcomeWin},
	}
}
