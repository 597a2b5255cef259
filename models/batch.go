package models

import "math"

// OutcomeCounts holds win and loss tallies for a single strategy
type OutcomeCounts struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
}

// Total returns the number of rounds counted
func (c OutcomeCounts) Total() int {
	return c.Wins + c.Losses
}

// OutcomeProportions is a row of the contingency table normalised to sum to 1
type OutcomeProportions struct {
	Win  float64 `json:"win"`
	Lose float64 `json:"lose"`
}

// BatchSummary is the strategy x outcome contingency table of a batch
type BatchSummary struct {
	Rounds      int                             `json:"rounds"`
	Counts      map[Strategy]OutcomeCounts      `json:"counts"`
	Proportions map[Strategy]OutcomeProportions `json:"proportions"`
}

// NewBatchSummary creates an empty summary with a row per strategy
func NewBatchSummary() *BatchSummary {
	s := &BatchSummary{
		Counts:      make(map[Strategy]OutcomeCounts, len(Strategies)),
		Proportions: make(map[Strategy]OutcomeProportions, len(Strategies)),
	}
	for _, strategy := range Strategies {
		s.Counts[strategy] = OutcomeCounts{}
		s.Proportions[strategy] = OutcomeProportions{}
	}
	return s
}

// Add tallies a single record
func (s *BatchSummary) Add(r RoundResult) {
	c := s.Counts[r.Strategy]
	if r.Outcome == OutcomeWin {
		c.Wins++
	} else {
		c.Losses++
	}
	s.Counts[r.Strategy] = c
}

// Merge folds the counts of another summary into s
func (s *BatchSummary) Merge(other *BatchSummary) {
	s.Rounds += other.Rounds
	for strategy, oc := range other.Counts {
		c := s.Counts[strategy]
		c.Wins += oc.Wins
		c.Losses += oc.Losses
		s.Counts[strategy] = c
	}
}

// Normalize recomputes the row proportions from the counts, rounded to two decimals
func (s *BatchSummary) Normalize() {
	for strategy, c := range s.Counts {
		total := c.Total()
		if total == 0 {
			s.Proportions[strategy] = OutcomeProportions{}
			continue
		}
		s.Proportions[strategy] = OutcomeProportions{
			Win:  RoundTo(float64(c.Wins)/float64(total), 2),
			Lose: RoundTo(float64(c.Losses)/float64(total), 2),
		}
	}
}

// WinRate returns the unrounded win rate of a strategy
func (s *BatchSummary) WinRate(strategy Strategy) float64 {
	c := s.Counts[strategy]
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Wins) / float64(c.Total())
}

// BatchResult is the output of a batch: every record in round order plus the summary
type BatchResult struct {
	Seed    int64
	Records []RoundResult
	Summary *BatchSummary
}

// RoundTo rounds v to the given number of decimal places
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
