package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"diceroyale/bot/features/dice"
	"diceroyale/events"
	"diceroyale/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token     string
	GuildID   string
	ChannelID string
	// OwnerID is the Discord user allowed to bet for the local player
	OwnerID  string
	Currency string
}

type Bot struct {
	config    Config
	session   *discordgo.Session
	dice      *dice.Feature
	announcer *dice.Announcer
}

func New(config Config, table service.TableService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	bot := &Bot{
		config:    config,
		session:   dg,
		dice:      dice.NewFeature(table, config.OwnerID, config.Currency),
		announcer: dice.NewAnnouncer(dg, config.ChannelID, config.Currency),
	}

	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	if config.ChannelID != "" {
		bot.announcer.Subscribe(eventBus)
		log.WithField("channelID", config.ChannelID).Info("Round announcements enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "dice":
		b.dice.HandleCommand(s, i)
	}
}
