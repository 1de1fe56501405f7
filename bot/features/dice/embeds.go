package dice

import (
	"fmt"
	"strings"
	"time"

	"diceroyale/bot/common"
	"diceroyale/events"
	"diceroyale/models"

	"github.com/bwmarrin/discordgo"
)

var phaseLabels = map[models.Phase]string{
	models.PhaseAwaitingStart: "Waiting to start",
	models.PhaseBetting:       "Betting open",
	models.PhaseResolving:     "Rolling",
	models.PhaseCooldown:      "Showing result",
}

// BuildStatusEmbed shows the round clock and every balance at the table
func BuildStatusEmbed(state models.RoundState, players []models.Actor, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("🎲 Round %d", state.Round),
		Color:     common.ColorPrimary,
		Timestamp: time.Now().Format(time.RFC3339),
		Fields:    []*discordgo.MessageEmbedField{},
	}

	status := phaseLabels[state.Phase]
	if state.Phase == models.PhaseBetting {
		status = fmt.Sprintf("%s: %ds left", status, state.SecondsRemaining)
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Status",
		Value:  status,
		Inline: true,
	})

	last := "None yet"
	if state.LastOutcome != nil {
		last = fmt.Sprintf("%s %d", common.DieFace(*state.LastOutcome), *state.LastOutcome)
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Last roll",
		Value:  last,
		Inline: true,
	})

	var lines []string
	for _, p := range players {
		name := p.Name
		if !p.Simulated {
			name = "**" + name + "**"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", name, common.FormatAmount(currency, p.Balance)))
	}
	if len(lines) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Balances",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}

// BuildBetPlacedEmbed confirms an accepted bet
func BuildBetPlacedEmbed(bet models.Bet, state models.RoundState, currency string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "✅ Bet placed",
		Color: common.ColorSuccess,
		Description: fmt.Sprintf("%s on **%s** for round %d",
			common.FormatAmount(currency, bet.Amount), bet.Choice.Label(bet.Type), bet.Round),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%ds left to change your bet", state.SecondsRemaining),
		},
	}
}

// BuildHistoryEmbed lists the newest history lines, at most limit of them
func BuildHistoryEmbed(entries []models.HistoryEntry, limit int) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "📜 Table history",
		Color: common.ColorInfo,
	}

	if len(entries) == 0 {
		embed.Description = "No rounds played yet"
		return embed
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.Text)
	}
	embed.Description = strings.Join(lines, "\n")
	return embed
}

// BuildRoundEmbed announces a resolved round with every settlement
func BuildRoundEmbed(event events.RoundResolvedEvent, currency string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s Round %d rolled %d", common.DieFace(event.Outcome), event.Round, event.Outcome),
		Color:       common.ColorPrimary,
		Description: event.UserResult,
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	if len(event.Settlements) == 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: "No bets this round"}
		return embed
	}

	var winners, losers []string
	for _, st := range event.Settlements {
		line := fmt.Sprintf("%s (%s): %s", st.Bet.OwnerName, st.Bet.Choice.Label(st.Bet.Type), common.FormatDelta(currency, st.Delta))
		if st.Won() {
			winners = append(winners, line)
		} else {
			losers = append(losers, line)
		}
	}

	switch {
	case len(losers) == 0:
		embed.Color = common.ColorSuccess
	case len(winners) == 0:
		embed.Color = common.ColorDanger
	}

	if len(winners) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "🏆 Winners",
			Value: strings.Join(winners, "\n"),
		})
	}
	if len(losers) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "💸 Losers",
			Value: strings.Join(losers, "\n"),
		})
	}
	return embed
}
