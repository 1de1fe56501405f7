package dice

import (
	"context"

	"diceroyale/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// EmbedSender is the part of the Discord session the announcer needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts every resolved round to a channel
type Announcer struct {
	sender    EmbedSender
	channelID string
	currency  string
}

func NewAnnouncer(sender EmbedSender, channelID, currency string) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
		currency:  currency,
	}
}

// Subscribe registers the announcer for round results
func (a *Announcer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeRoundResolved, a.HandleRoundResolved)
}

// HandleRoundResolved is the events.Handler for round_resolved
func (a *Announcer) HandleRoundResolved(ctx context.Context, event events.Event) {
	resolved, ok := event.(events.RoundResolvedEvent)
	if !ok {
		log.Errorf("Round announcer received unexpected event %T", event)
		return
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, BuildRoundEmbed(resolved, a.currency)); err != nil {
		log.WithFields(log.Fields{
			"channelID": a.channelID,
			"round":     resolved.Round,
			"error":     err,
		}).Error("Failed to announce round result")
		return
	}

	log.WithFields(log.Fields{
		"channelID": a.channelID,
		"round":     resolved.Round,
		"outcome":   resolved.Outcome,
	}).Debug("Announced round result")
}
