package models

// Strategy is the player's decision after the host opens a door
type Strategy string

const (
	StrategyStay   Strategy = "stay"
	StrategySwitch Strategy = "switch"
)

// Strategies lists every strategy in reporting order
var Strategies = []Strategy{StrategyStay, StrategySwitch}

// Valid reports whether s is a known strategy
func (s Strategy) Valid() bool {
	return s == StrategyStay || s == StrategySwitch
}

// Outcome is the result of a final pick
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLose Outcome = "lose"
)

// RoundResult records how one strategy fared in one round
type RoundResult struct {
	Strategy Strategy
	Outcome  Outcome
}

// Round holds a fully played round. Both strategies are evaluated against the
// same arrangement, initial pick and revealed door.
type Round struct {
	Arrangement Arrangement
	Pick        DoorIndex
	Revealed    DoorIndex
	StayFinal   DoorIndex
	SwitchFinal DoorIndex
	Stay        RoundResult
	Switch      RoundResult
}

// Results returns the round's two records, stay first
func (r *Round) Results() []RoundResult {
	return []RoundResult{r.Stay, r.Switch}
}
