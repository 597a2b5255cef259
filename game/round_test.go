package game

import (
	"testing"

	"montyhall/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayRound_ExactlyOneWinner(t *testing.T) {
	rng := NewSource(2024)

	for i := 0; i < 1000; i++ {
		round, err := PlayRound(rng)
		require.NoError(t, err)

		results := round.Results()
		require.Len(t, results, 2)
		assert.Equal(t, models.StrategyStay, results[0].Strategy)
		assert.Equal(t, models.StrategySwitch, results[1].Strategy)
		assert.NotEqual(t, results[0].Outcome, results[1].Outcome)

		if round.Arrangement.At(round.Pick) == models.LabelPrize {
			assert.Equal(t, models.OutcomeWin, round.Stay.Outcome)
			assert.Equal(t, models.OutcomeLose, round.Switch.Outcome)
		} else {
			assert.Equal(t, models.OutcomeLose, round.Stay.Outcome)
			assert.Equal(t, models.OutcomeWin, round.Switch.Outcome)
		}
	}
}

func TestPlayRound_SharedRound(t *testing.T) {
	// perm places the prize behind door 2, the player picks door 1
	rng := &scriptedSource{
		perms: [][]int{{1, 0, 2}},
		ints:  []int{0},
	}

	round, err := PlayRound(rng)
	require.NoError(t, err)

	assert.Equal(t, prizeSecond, round.Arrangement)
	assert.Equal(t, models.DoorIndex(1), round.Pick)
	assert.Equal(t, models.DoorIndex(3), round.Revealed)
	assert.Equal(t, models.DoorIndex(1), round.StayFinal)
	assert.Equal(t, models.DoorIndex(2), round.SwitchFinal)
	assert.Equal(t, models.OutcomeLose, round.Stay.Outcome)
	assert.Equal(t, models.OutcomeWin, round.Switch.Outcome)
}
