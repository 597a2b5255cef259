package models

// StrategyFairness compares a strategy's observed win rate with theory
type StrategyFairness struct {
	Strategy        Strategy
	Rounds          int
	Wins            int
	WinRate         float64
	ExpectedRate    float64
	Deviation       float64
	ConfidenceLow   float64
	ConfidenceHigh  float64
	ChiSquared      float64
	PValue          float64
	WithinTolerance bool
}

// FairnessReport summarises how closely a batch matches the theoretical odds
type FairnessReport struct {
	Rounds     int
	Tolerance  float64
	Confidence float64
	Strategies []StrategyFairness
}

// Passed reports whether every strategy stayed within tolerance
func (r *FairnessReport) Passed() bool {
	for _, s := range r.Strategies {
		if !s.WithinTolerance {
			return false
		}
	}
	return true
}
