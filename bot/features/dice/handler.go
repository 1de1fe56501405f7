package dice

import (
	"errors"
	"fmt"
	"strings"

	"diceroyale/bot/common"
	"diceroyale/engine"
	"diceroyale/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

type betOptions struct {
	betType models.BetType
	choice  models.Choice
	amount  int64
}

// parseBetOptions reads the type, choice and amount options of /dice bet
func parseBetOptions(options []*discordgo.ApplicationCommandInteractionDataOption) (betOptions, error) {
	var opts betOptions
	for _, opt := range options {
		switch opt.Name {
		case "type":
			opts.betType = models.BetType(strings.ToLower(strings.TrimSpace(opt.StringValue())))
		case "choice":
			opts.choice = models.Choice(strings.ToLower(strings.TrimSpace(opt.StringValue())))
		case "amount":
			opts.amount = opt.IntValue()
		}
	}

	if opts.betType == "" {
		return opts, common.NewUserError("Pick a bet type: number, odd-even or high-low.", errors.New("missing bet type"))
	}
	return opts, nil
}

// tableError turns an engine rejection into a message a player can act on
func tableError(err error, currency string, balance int64) error {
	switch {
	case errors.Is(err, engine.ErrInvalidBetWindow):
		return common.NewUserError("Betting is closed right now. Wait for the next round.", err)
	case errors.Is(err, engine.ErrInvalidChoice):
		return common.NewUserError("That choice does not fit the bet type. Use 1-6, odd/even or high/low.", err)
	case errors.Is(err, engine.ErrInvalidAmount):
		return common.NewUserError("The amount must be greater than zero.", err)
	case errors.Is(err, engine.ErrInsufficientBalance):
		return common.NewUserError(fmt.Sprintf("Insufficient balance. You have %s.", common.FormatAmount(currency, balance)), err)
	case errors.Is(err, engine.ErrClosed):
		return common.NewUserError("The table is closed.", err)
	default:
		return common.NewSystemError(err, "failed to place bet")
	}
}

func (f *Feature) handleBet(s *discordgo.Session, i *discordgo.InteractionCreate, options []*discordgo.ApplicationCommandInteractionDataOption) {
	userID := common.InteractionUserID(i)
	if f.ownerID != "" && userID != f.ownerID {
		common.RespondWithError(s, i, "Only the table owner can place bets.")
		return
	}

	opts, err := parseBetOptions(options)
	if err != nil {
		common.HandleError(s, i, err)
		return
	}

	bet, err := f.table.PlaceBet(opts.betType, opts.choice, opts.amount)
	if err != nil {
		common.HandleError(s, i, tableError(err, f.currency, f.userBalance()))
		return
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"round":   bet.Round,
		"type":    bet.Type,
		"choice":  bet.Choice,
		"amount":  bet.Amount,
	}).Info("Bet placed from Discord")

	if err := common.RespondWithEmbed(s, i, BuildBetPlacedEmbed(bet, f.table.State(), f.currency), false); err != nil {
		log.Errorf("Error responding to dice bet: %v", err)
	}
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := BuildStatusEmbed(f.table.State(), f.table.Players(), f.currency)
	if err := common.RespondWithEmbed(s, i, embed, false); err != nil {
		log.Errorf("Error responding to dice status: %v", err)
	}
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	embed := BuildHistoryEmbed(f.table.History(), common.MaxHistoryLines)
	if err := common.RespondWithEmbed(s, i, embed, true); err != nil {
		log.Errorf("Error responding to dice history: %v", err)
	}
}

func (f *Feature) handleRoll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.table.ForceResolveNow() {
		common.RespondWithError(s, i, "There is no open betting window to close.")
		return
	}
	respondText(s, i, "🎲 Betting closed, the dice are rolling!")
}

func (f *Feature) handleStart(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !f.table.ForceStartNow() {
		common.RespondWithError(s, i, "The table is already running.")
		return
	}
	respondText(s, i, fmt.Sprintf("✅ Round %d is open for bets.", f.table.State().Round))
}

func (f *Feature) userBalance() int64 {
	for _, p := range f.table.Players() {
		if !p.Simulated {
			return p.Balance
		}
	}
	return 0
}

func respondText(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
	if err != nil {
		log.Errorf("Error responding to dice command: %v", err)
	}
}
