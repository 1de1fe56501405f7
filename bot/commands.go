package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// commands describes every slash command the bot owns
func commands() []*discordgo.ApplicationCommand {
	faces := []*discordgo.ApplicationCommandOptionChoice{}
	for _, c := range []string{"1", "2", "3", "4", "5", "6", "odd", "even", "high", "low"} {
		faces = append(faces, &discordgo.ApplicationCommandOptionChoice{Name: c, Value: c})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "dice",
			Description: "Play at the dice table",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "bet",
					Description: "Place or replace your bet for the current round",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "type",
							Description: "What the bet is on",
							Required:    true,
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "Number (5x)", Value: "number"},
								{Name: "Odd / Even (1.9x)", Value: "odd-even"},
								{Name: "High / Low (1.9x)", Value: "high-low"},
							},
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "choice",
							Description: "A face 1-6, odd/even or high/low",
							Required:    true,
							Choices:     faces,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "amount",
							Description: "Stake for this round",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "status",
					Description: "Show the round clock and balances",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "history",
					Description: "Show the latest table history",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "roll",
					Description: "Close betting and roll now",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "start",
					Description: "Skip the startup delay",
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}
