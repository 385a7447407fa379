package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/confkit/internal/backend"
	"github.com/agentstation/confkit/internal/server/middleware"
	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/sources"
)

// EnvPrefix prefixes every environment variable read by the configuration.
const EnvPrefix = "CONFKIT"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool   `mapstructure:"verbose"`
	Quiet   bool   `mapstructure:"quiet"`
	NoColor bool   `mapstructure:"no_color"`
	Format  string `mapstructure:"format"`

	// Config file
	ConfigFile string `mapstructure:"-"`

	// Logging configuration
	LogLevel  string `mapstructure:"-"`
	LogFormat string `mapstructure:"-"`
	LogOutput string `mapstructure:"-"`

	Store  backend.Config       `mapstructure:"store"`
	Source SourceConfig         `mapstructure:"source"`
	Sync   SyncConfig           `mapstructure:"sync"`
	Server ServerConfig         `mapstructure:"server"`
	Users  []middleware.Account `mapstructure:"users"`
}

// SourceConfig selects the source read by sync.
type SourceConfig struct {
	Type    sources.ID `mapstructure:"type"`
	URL     string     `mapstructure:"url"`
	EventID string     `mapstructure:"event_id"`
	APIKey  string     `mapstructure:"api_key"`
	Path    string     `mapstructure:"path"`
}

// Configured reports whether enough is set to build a source.
func (s SourceConfig) Configured() bool {
	switch s.Type {
	case sources.FileID:
		return s.Path != ""
	default:
		return s.EventID != ""
	}
}

// SyncConfig holds the defaults of synchronization runs.
type SyncConfig struct {
	Workers  int           `mapstructure:"workers"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Auto     bool          `mapstructure:"auto"`
	Interval time.Duration `mapstructure:"interval"`
}

// ServerConfig holds the settings of the REST server.
type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Prefix  string `mapstructure:"prefix"`
	Metrics bool   `mapstructure:"metrics"`
}

// setDefaults registers every key so that environment variables bind to it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("no_color", false)
	v.SetDefault("format", "")

	v.SetDefault("store.driver", string(backend.Memory))
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.database", constants.DefaultDatabase)

	v.SetDefault("source.type", string(sources.ConferenceHallID))
	v.SetDefault("source.url", constants.DefaultConferenceHallURL)
	v.SetDefault("source.event_id", "")
	v.SetDefault("source.api_key", "")
	v.SetDefault("source.path", "")

	v.SetDefault("sync.workers", constants.DefaultSyncWorkers)
	v.SetDefault("sync.timeout", constants.SyncTimeout)
	v.SetDefault("sync.auto", false)
	v.SetDefault("sync.interval", constants.DefaultAutoSyncInterval)

	v.SetDefault("server.host", constants.DefaultHTTPHost)
	v.SetDefault("server.port", constants.DefaultHTTPPort)
	v.SetDefault("server.prefix", constants.DefaultPathPrefix)
	v.SetDefault("server.metrics", true)
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (CONFKIT_ prefix)
// 3. .env and .env.local files
// 4. Config file (configFile, or .confkit.yaml in the working directory then home)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		v.SetConfigType("yaml")
		v.SetConfigName(".confkit")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		// a missing default config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errors.NewConfigError("config", "invalid configuration", err)
	}
	config.ConfigFile = v.ConfigFileUsed()
	config.LogFormat = getEnvOrDefault("LOG_FORMAT", "auto")
	config.LogOutput = getEnvOrDefault("LOG_OUTPUT", "stderr")

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the settings that do not depend on a command.
func (c *Config) Validate() error {
	if c.Source.Type != "" {
		id, err := sources.ParseID(string(c.Source.Type))
		if err != nil {
			return errors.NewConfigError("config", "source.type must be one of conference-hall, file", err)
		}
		c.Source.Type = id
	}
	if c.Sync.Workers < 1 || c.Sync.Workers > constants.MaxSyncWorkers {
		return errors.NewConfigError("config", "sync.workers is out of range", nil)
	}
	if err := middleware.ValidateAccounts(c.Users); err != nil {
		return errors.NewConfigError("config", "invalid users", err)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set win; .env.local is read first so it overrides .env.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
