package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"diceroyale/bot"
	"diceroyale/config"
	"diceroyale/database"
	"diceroyale/engine"
	"diceroyale/events"
	"diceroyale/infrastructure"
	"diceroyale/repository"
	"diceroyale/server"
	"diceroyale/service"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogging applies the configured level and formatter to logrus
func ConfigureLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.IsDevelopment() {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// NewTable builds the engine from configuration, publishing to the bus
func NewTable(cfg *config.Config, eventBus *events.Bus) (*engine.Engine, error) {
	rng := engine.NewTimeSeededRNG()
	if cfg.TableSeed != 0 {
		rng = engine.NewRNG(cfg.TableSeed)
	}
	return engine.New(cfg.Table, engine.SystemClock(), rng, eventBus)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	ConfigureLogging(cfg)

	log.WithField("environment", cfg.Environment).Info("Starting dice table...")

	eventBus := events.NewBus()

	table, err := NewTable(cfg, eventBus)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	defer table.Close()

	deps := server.Deps{Table: table}

	if cfg.CatalogEnabled() {
		log.Info("Connecting to database...")
		db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		log.Info("Database connection established successfully")

		uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)
		deps.Catalog = service.NewCatalogService(uowFactory)
		deps.Bag = service.NewBagService(uowFactory)
	} else {
		log.Info("DATABASE_URL not set, catalog and bag endpoints are disabled")
	}

	if cfg.NATSServers != "" {
		natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err := natsClient.Connect(connectCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsClient.Close()

		mapper := infrastructure.NewEventSubjectMapper()
		if err := infrastructure.EnsureTableEventStream(natsClient, mapper); err != nil {
			return fmt.Errorf("failed to ensure event stream: %w", err)
		}
		forwarder := infrastructure.NewNATSEventPublisher(natsClient, mapper)
		forwarder.Forward(eventBus)
		defer forwarder.Close()
		log.Info("Forwarding table events to NATS")
	}

	if cfg.DiscordEnabled() {
		log.Info("Initializing Discord bot...")
		discordBot, err := bot.New(bot.Config{
			Token:     cfg.DiscordToken,
			GuildID:   cfg.GuildID,
			ChannelID: cfg.ChannelID,
			OwnerID:   cfg.OwnerDiscordID,
			Currency:  cfg.Table.Currency,
		}, table, eventBus)
		if err != nil {
			return fmt.Errorf("failed to initialize Discord bot: %w", err)
		}
		defer func() {
			if err := discordBot.Close(); err != nil {
				log.Errorf("Error closing Discord bot: %v", err)
			}
		}()
		log.Info("Discord bot initialized successfully")
	}

	srv := server.New(cfg.HTTPAddr, deps)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Run()
	}()

	if cfg.AutoStart {
		table.Start()
	}

	log.WithField("addr", cfg.HTTPAddr).Infof("Table is running in %s mode", cfg.Environment)

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return errors.New("http server stopped unexpectedly")
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}
