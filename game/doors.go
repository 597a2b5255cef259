package game

import (
	"fmt"

	"montyhall/models"
)

// CreateArrangement hides one prize and two decoys behind the doors in a uniformly random order
func CreateArrangement(rng Source) models.Arrangement {
	labels := [models.DoorCount]models.Label{models.LabelPrize, models.LabelDecoy, models.LabelDecoy}

	var arrangement models.Arrangement
	for i, position := range rng.Perm(models.DoorCount) {
		arrangement[position] = labels[i]
	}
	return arrangement
}

// SelectInitialDoor picks a door uniformly at random
func SelectInitialDoor(rng Source) models.DoorIndex {
	return models.DoorIndex(rng.IntN(models.DoorCount) + 1)
}

// RevealGoatDoor returns the door the host opens: never the pick and never the prize.
// When the pick holds the prize both remaining doors qualify and one is chosen at random.
func RevealGoatDoor(rng Source, arrangement models.Arrangement, pick models.DoorIndex) (models.DoorIndex, error) {
	if !pick.Valid() {
		return 0, fmt.Errorf("%w: pick %d", ErrInvalidIndex, pick)
	}
	if !arrangement.Valid() {
		return 0, fmt.Errorf("%w: arrangement %s must hold exactly one prize", ErrInvalidArgument, arrangement)
	}

	candidates := make([]models.DoorIndex, 0, models.DoorCount-1)
	for door := models.DoorIndex(1); door <= models.DoorCount; door++ {
		if door != pick && arrangement.At(door) == models.LabelDecoy {
			candidates = append(candidates, door)
		}
	}

	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return candidates[rng.IntN(len(candidates))], nil
}

// DecideFinalDoor applies a strategy to the revealed door and the original pick
func DecideFinalDoor(strategy models.Strategy, revealed, pick models.DoorIndex) (models.DoorIndex, error) {
	if !revealed.Valid() {
		return 0, fmt.Errorf("%w: revealed door %d", ErrInvalidIndex, revealed)
	}
	if !pick.Valid() {
		return 0, fmt.Errorf("%w: pick %d", ErrInvalidIndex, pick)
	}
	if revealed == pick {
		return 0, fmt.Errorf("%w: revealed door %d equals the pick", ErrInvalidIndex, revealed)
	}

	switch strategy {
	case models.StrategyStay:
		return pick, nil
	case models.StrategySwitch:
		// Door numbers sum to 6, so the unopened remaining door is what is left over.
		return 6 - pick - revealed, nil
	default:
		return 0, fmt.Errorf("%w: unknown strategy %q", ErrInvalidArgument, strategy)
	}
}

// ResolveOutcome reports whether the final door holds the prize
func ResolveOutcome(final models.DoorIndex, arrangement models.Arrangement) (models.Outcome, error) {
	if !final.Valid() {
		return "", fmt.Errorf("%w: final door %d", ErrInvalidIndex, final)
	}
	if arrangement.At(final) == models.LabelPrize {
		return models.OutcomeWin, nil
	}
	return models.OutcomeLose, nil
}
