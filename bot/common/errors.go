package common

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const genericFailure = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string // Message shown to Discord user
	LogMessage  string // Internal message for logging
	Err         error
	user        bool
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

// NewUserError creates an error for user-caused issues (bad choice, closed window, insufficient funds)
func NewUserError(userMessage string, err error) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  "rejected command",
		Err:         err,
		user:        true,
	}
}

// NewSystemError creates an error for unexpected failures
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: genericFailure,
		LogMessage:  logMessage,
		Err:         err,
	}
}

// UserMessage returns the text a Discord user should see for err
func UserMessage(err error) string {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr.UserMessage
	}
	return genericFailure
}

// RespondWithError sends an error message as an ephemeral interaction response
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

// HandleError logs err and responds with its user-facing message
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"command": i.ApplicationCommandData().Name,
		"error":   err.Error(),
	}

	var botErr *BotError
	if errors.As(err, &botErr) && botErr.user {
		log.WithFields(fields).Info(botErr.LogMessage)
	} else {
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	RespondWithError(s, i, UserMessage(err))
}

// RespondWithEmbed sends an embed as an interaction response
func RespondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// InteractionUserID returns the invoking user in guilds and DMs alike
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
