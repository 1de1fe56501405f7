package engine

import (
	"fmt"
	"time"

	"diceroyale/models"
)

// Config holds the table tuning. Durations decode from YAML strings such as "4500ms".
type Config struct {
	RoundSeconds      int            `yaml:"round_seconds"`
	StartDelay        time.Duration  `yaml:"start_delay"`
	RollDuration      time.Duration  `yaml:"roll_duration"`
	RollJitter        time.Duration  `yaml:"roll_jitter"`
	ResultHold        time.Duration  `yaml:"result_hold"`
	OpponentInterval  time.Duration  `yaml:"opponent_interval"`
	OpponentJitter    time.Duration  `yaml:"opponent_jitter"`
	OpponentStakes    []int64        `yaml:"opponent_stakes"`
	OpponentFloor     int64          `yaml:"opponent_floor"`
	OpponentReserve   float64        `yaml:"opponent_reserve"`
	HistoryLimit      int            `yaml:"history_limit"`
	NotificationLimit int            `yaml:"notification_limit"`
	NotificationTTL   time.Duration  `yaml:"notification_ttl"`
	UserID            string         `yaml:"user_id"`
	UserName          string         `yaml:"user_name"`
	StartingBalance   int64          `yaml:"starting_balance"`
	Currency          string         `yaml:"currency"`
	Opponents         []models.Actor `yaml:"opponents"`
}

// DefaultOpponents is the built-in roster of simulated players
func DefaultOpponents() []models.Actor {
	return []models.Actor{
		{ID: "p1", Name: "Asha", Balance: 12000},
		{ID: "p2", Name: "Raj", Balance: 9800},
		{ID: "p3", Name: "Meera", Balance: 7700},
		{ID: "p4", Name: "Sahil", Balance: 6000},
	}
}

// DefaultConfig returns the stock table settings
func DefaultConfig() Config {
	return Config{
		RoundSeconds:      75,
		StartDelay:        5 * time.Second,
		RollDuration:      1400 * time.Millisecond,
		RollJitter:        700 * time.Millisecond,
		ResultHold:        4500 * time.Millisecond,
		OpponentInterval:  1200 * time.Millisecond,
		OpponentJitter:    1400 * time.Millisecond,
		OpponentStakes:    []int64{20, 50, 100, 200},
		OpponentFloor:     20,
		OpponentReserve:   0.02,
		HistoryLimit:      60,
		NotificationLimit: 6,
		NotificationTTL:   4500 * time.Millisecond,
		UserID:            "you",
		UserName:          "You",
		StartingBalance:   5000,
		Currency:          "₹",
		Opponents:         DefaultOpponents(),
	}
}

// Validate checks the settings a table cannot run without
func (c Config) Validate() error {
	if c.RoundSeconds < 1 {
		return fmt.Errorf("round_seconds must be at least 1, got %d", c.RoundSeconds)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history_limit must be at least 1, got %d", c.HistoryLimit)
	}
	if c.NotificationLimit < 1 {
		return fmt.Errorf("notification_limit must be at least 1, got %d", c.NotificationLimit)
	}
	if c.StartingBalance < 0 {
		return fmt.Errorf("starting_balance must not be negative, got %d", c.StartingBalance)
	}
	if c.OpponentReserve < 0 || c.OpponentReserve > 1 {
		return fmt.Errorf("opponent_reserve must be within [0,1], got %v", c.OpponentReserve)
	}
	for _, d := range []time.Duration{c.StartDelay, c.RollDuration, c.RollJitter, c.ResultHold, c.OpponentInterval, c.OpponentJitter, c.NotificationTTL} {
		if d < 0 {
			return fmt.Errorf("durations must not be negative, got %s", d)
		}
	}
	for _, stake := range c.OpponentStakes {
		if stake <= 0 {
			return fmt.Errorf("opponent_stakes must be positive, got %d", stake)
		}
	}
	// opponent timers re-arm themselves, so a zero delay would never yield
	if len(c.Opponents) > 0 && len(c.OpponentStakes) > 0 && c.OpponentInterval <= 0 {
		return fmt.Errorf("opponent_interval must be positive when opponents are seated, got %s", c.OpponentInterval)
	}
	if c.UserID == "" {
		return fmt.Errorf("user_id is required")
	}

	seen := map[string]bool{c.UserID: true}
	for _, o := range c.Opponents {
		if o.ID == "" {
			return fmt.Errorf("opponent %q has no id", o.Name)
		}
		if seen[o.ID] {
			return fmt.Errorf("duplicate actor id %q", o.ID)
		}
		if o.Balance < 0 {
			return fmt.Errorf("opponent %s starts with a negative balance", o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}
