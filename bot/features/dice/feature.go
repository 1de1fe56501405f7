package dice

import (
	"diceroyale/bot/common"
	"diceroyale/service"

	"github.com/bwmarrin/discordgo"
)

// Feature represents the /dice command family
type Feature struct {
	table    service.TableService
	ownerID  string
	currency string
}

// NewFeature creates a new dice feature instance. An empty ownerID lets anyone place bets.
func NewFeature(table service.TableService, ownerID, currency string) *Feature {
	return &Feature{
		table:    table,
		ownerID:  ownerID,
		currency: currency,
	}
}

// HandleCommand handles the /dice command and its subcommands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		common.RespondWithError(s, i, "Please specify a subcommand: bet, status, history, roll or start")
		return
	}

	switch options[0].Name {
	case "bet":
		f.handleBet(s, i, options[0].Options)
	case "status":
		f.handleStatus(s, i)
	case "history":
		f.handleHistory(s, i)
	case "roll":
		f.handleRoll(s, i)
	case "start":
		f.handleStart(s, i)
	default:
		common.RespondWithError(s, i, "Unknown subcommand")
	}
}
