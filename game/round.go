package game

import (
	"fmt"

	"montyhall/models"
)

// PlayRound plays a single round and evaluates both strategies against it
func PlayRound(rng Source) (*models.Round, error) {
	arrangement := CreateArrangement(rng)
	pick := SelectInitialDoor(rng)

	revealed, err := RevealGoatDoor(rng, arrangement, pick)
	if err != nil {
		return nil, fmt.Errorf("failed to reveal door: %w", err)
	}

	round := &models.Round{
		Arrangement: arrangement,
		Pick:        pick,
		Revealed:    revealed,
	}

	for _, strategy := range models.Strategies {
		final, err := DecideFinalDoor(strategy, revealed, pick)
		if err != nil {
			return nil, fmt.Errorf("failed to decide final door for %s: %w", strategy, err)
		}

		outcome, err := ResolveOutcome(final, arrangement)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve outcome for %s: %w", strategy, err)
		}

		result := models.RoundResult{Strategy: strategy, Outcome: outcome}
		if strategy == models.StrategyStay {
			round.StayFinal = final
			round.Stay = result
		} else {
			round.SwitchFinal = final
			round.Switch = result
		}
	}

	return round, nil
}
