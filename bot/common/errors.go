package common

import (
	"errors"
	"fmt"

	"montyhall/game"
	"montyhall/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error  // Underlying error
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues such as an out of range batch size
func NewUserError(userMessage string, err error) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  "user error",
		Err:         err,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: "Something went wrong. Please try again later.",
		LogMessage:  logMessage,
		Err:         err,
	}
}

// ClassifyError turns a service error into a BotError with a message fit for users
func ClassifyError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	switch {
	case errors.Is(err, game.ErrInvalidArgument), errors.Is(err, game.ErrInvalidIndex):
		return NewUserError(err.Error(), err)
	case errors.Is(err, service.ErrRunNotFound):
		return NewUserError("That simulation run does not exist.", err)
	case errors.Is(err, service.ErrPersistenceDisabled):
		return NewUserError("Run history is not available on this bot.", err)
	default:
		return NewSystemError(err, logMessage)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// HandleError logs err and reports it to the user of a deferred interaction
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, logMessage string) {
	botErr := ClassifyError(err, logMessage)

	log.WithFields(log.Fields{
		"interactionID": i.ID,
		"userMessage":   botErr.UserMessage,
	}).WithError(err).Warn(botErr.LogMessage)

	FollowUpWithError(s, i, botErr.UserMessage)
}
