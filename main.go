package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"diceroyale/cmd"
	"diceroyale/config"
	"diceroyale/database"

	log "github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := handleMigrationCommand(os.Args[2:]); err != nil {
				log.Fatalf("Migration error: %v", err)
			}
			return
		case "sim":
			if err := handleSimCommand(os.Args[2:]); err != nil {
				log.Fatalf("Simulation error: %v", err)
			}
			return
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: diceroyale migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid steps %q: %w", args[1], err)
			}
			steps = n
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}

func handleSimCommand(args []string) error {
	opts := cmd.DefaultSimOptions()
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid rounds %q: %w", args[0], err)
		}
		opts.Rounds = n
	}
	if len(args) > 1 {
		seed, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid seed %q: %w", args[1], err)
		}
		opts.Seed = seed
	}

	table := config.Get().Table
	return cmd.Simulate(table, opts, os.Stdout)
}
