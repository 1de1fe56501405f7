package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"diceroyale/database"
	"diceroyale/engine"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	HTTPAddr string

	// Logging
	LogLevel string

	// Database configuration; the catalog is disabled without a URL
	DatabaseURL  string
	DatabaseName string

	// Discord configuration; the bot is disabled without a token
	DiscordToken   string
	GuildID        string
	ChannelID      string // Channel that receives round announcements
	OwnerDiscordID string // Discord user who plays as the local table user

	// NATS configuration; events stay in-process without servers
	NATSServers string

	// Table configuration
	TableConfigPath string
	TableSeed       uint64 // 0 seeds from the clock
	AutoStart       bool
	Table           engine.Config

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// CatalogEnabled reports whether a database is configured
func (c *Config) CatalogEnabled() bool {
	return c.DatabaseURL != ""
}

// DiscordEnabled reports whether the Discord front end should connect
func (c *Config) DiscordEnabled() bool {
	return c.DiscordToken != ""
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// load loads configuration from the environment, a .env file and the table YAML file
func load() (*Config, error) {
	// .env is optional; real environment variables win
	_ = godotenv.Load(getEnvWithDefault("ENV_FILE", ".env"))

	config := &Config{
		// HTTP
		HTTPAddr: getEnvWithDefault("HTTP_ADDR", ":8080"),

		// Logging
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		GuildID:        os.Getenv("DISCORD_GUILD_ID"),
		ChannelID:      os.Getenv("DISCORD_CHANNEL_ID"),
		OwnerDiscordID: os.Getenv("OWNER_DISCORD_ID"),

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Table
		TableConfigPath: os.Getenv("TABLE_CONFIG"),
		AutoStart:       true,
		Table:           engine.DefaultConfig(),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if seed := os.Getenv("TABLE_SEED"); seed != "" {
		parsed, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TABLE_SEED %q: %w", seed, err)
		}
		config.TableSeed = parsed
	}
	if autoStart := os.Getenv("TABLE_AUTOSTART"); autoStart != "" {
		parsed, err := strconv.ParseBool(autoStart)
		if err != nil {
			return nil, fmt.Errorf("invalid TABLE_AUTOSTART %q: %w", autoStart, err)
		}
		config.AutoStart = parsed
	}

	if config.TableConfigPath != "" {
		table, err := LoadTableConfig(config.TableConfigPath)
		if err != nil {
			return nil, err
		}
		config.Table = table
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
		return nil, fmt.Errorf("DATABASE_NAME cannot be blank when provided")
	}
	if config.DiscordEnabled() && config.ChannelID == "" {
		return nil, fmt.Errorf("DISCORD_CHANNEL_ID is required when DISCORD_TOKEN is set")
	}

	return config, nil
}

// LoadTableConfig reads a YAML file on top of the default table settings.
// Keys missing from the file keep their defaults.
func LoadTableConfig(path string) (engine.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("failed to read table config: %w", err)
	}
	return ParseTableConfig(data)
}

// ParseTableConfig decodes YAML table settings over the defaults and validates the result
func ParseTableConfig(data []byte) (engine.Config, error) {
	table := engine.DefaultConfig()
	if err := yaml.Unmarshal(data, &table); err != nil {
		return engine.Config{}, fmt.Errorf("failed to parse table config: %w", err)
	}
	for i := range table.Opponents {
		table.Opponents[i].Simulated = true
	}
	if err := table.Validate(); err != nil {
		return engine.Config{}, fmt.Errorf("invalid table config: %w", err)
	}
	return table, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		HTTPAddr:    ":0",
		LogLevel:    "debug",
		AutoStart:   false,
		Table:       engine.DefaultConfig(),
		Environment: "test",
	}
}
