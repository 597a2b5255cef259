package common

import (
	"errors"
	"fmt"
	"testing"

	"montyhall/game"
	"montyhall/service"

	"github.com/stretchr/testify/assert"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		userMessage string
	}{
		{
			name:        "invalid batch size",
			err:         fmt.Errorf("%w: batch size must be at least 1, got -2", game.ErrInvalidArgument),
			userMessage: "invalid argument: batch size must be at least 1, got -2",
		},
		{
			name:        "missing run",
			err:         fmt.Errorf("%w: 12", service.ErrRunNotFound),
			userMessage: "That simulation run does not exist.",
		},
		{
			name:        "no database",
			err:         service.ErrPersistenceDisabled,
			userMessage: "Run history is not available on this bot.",
		},
		{
			name:        "unexpected failure",
			err:         errors.New("connection reset"),
			userMessage: "Something went wrong. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			botErr := ClassifyError(tt.err, "failed to run simulation")
			assert.Equal(t, tt.userMessage, botErr.UserMessage)
			assert.ErrorIs(t, botErr, tt.err)
		})
	}
}

func TestClassifyError_KeepsBotError(t *testing.T) {
	original := NewUserError("Pick a smaller batch.", game.ErrInvalidArgument)

	assert.Same(t, original, ClassifyError(fmt.Errorf("wrapped: %w", original), "ignored"))
}
