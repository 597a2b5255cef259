package service

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"montyhall/models"
)

const (
	// DefaultTolerance is the largest accepted gap between observed and expected win rate
	DefaultTolerance = 0.05

	// DefaultConfidence is the confidence level of the reported interval
	DefaultConfidence = 0.95

	// toleranceMinRounds is the batch size from which the fixed tolerance decides the verdict.
	// Smaller batches are judged by the interval and the goodness-of-fit test.
	toleranceMinRounds = 1000
)

// ExpectedWinRate returns the theoretical win probability of a strategy
func ExpectedWinRate(strategy models.Strategy) float64 {
	if strategy == models.StrategySwitch {
		return 2.0 / 3.0
	}
	return 1.0 / 3.0
}

// AnalyzeFairness compares each strategy's observed wins with its theoretical odds.
// The interval is the normal approximation at the given confidence level and the
// p-value comes from a one degree of freedom chi-squared goodness-of-fit test.
// Batches of at least 1000 rounds pass when the deviation is within tolerance;
// smaller ones pass when the interval covers the expected rate or the test does
// not reject at the given confidence.
func AnalyzeFairness(summary *models.BatchSummary, tolerance, confidence float64) *models.FairnessReport {
	report := &models.FairnessReport{
		Tolerance:  tolerance,
		Confidence: confidence,
		Strategies: make([]models.StrategyFairness, 0, len(models.Strategies)),
	}
	if summary == nil {
		return report
	}
	report.Rounds = summary.Rounds

	z := distuv.UnitNormal.Quantile(0.5 + confidence/2)
	chiSquared := distuv.ChiSquared{K: 1}

	for _, strategy := range models.Strategies {
		counts := summary.Counts[strategy]
		expected := ExpectedWinRate(strategy)
		fairness := models.StrategyFairness{
			Strategy:     strategy,
			Rounds:       counts.Total(),
			Wins:         counts.Wins,
			ExpectedRate: expected,
		}

		if counts.Total() > 0 {
			n := float64(counts.Total())
			rate := float64(counts.Wins) / n
			margin := z * math.Sqrt(rate*(1-rate)/n)

			observed := []float64{float64(counts.Wins), float64(counts.Losses)}
			theoretical := []float64{n * expected, n * (1 - expected)}
			statistic := stat.ChiSquare(observed, theoretical)

			fairness.WinRate = rate
			fairness.Deviation = rate - expected
			fairness.ConfidenceLow = math.Max(0, rate-margin)
			fairness.ConfidenceHigh = math.Min(1, rate+margin)
			fairness.ChiSquared = statistic
			fairness.PValue = chiSquared.Survival(statistic)
			if counts.Total() >= toleranceMinRounds {
				fairness.WithinTolerance = math.Abs(fairness.Deviation) <= tolerance
			} else {
				covered := expected >= fairness.ConfidenceLow && expected <= fairness.ConfidenceHigh
				fairness.WithinTolerance = covered || fairness.PValue >= 1-confidence
			}
		}

		report.Strategies = append(report.Strategies, fairness)
	}

	return report
}
