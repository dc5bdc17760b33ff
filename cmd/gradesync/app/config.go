package app

import (
	"os"

	"github.com/agentstation/gradesync/internal/config"
)

// Config holds the application configuration: global flags, logging, and
// the reconciliation settings loaded by internal/config.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Logging configuration. LogLevel is the --log-level flag; envLogLevel
	// is LOG_LEVEL, which ranks below -v and -q.
	LogLevel    string
	LogFormat   string
	LogOutput   string
	envLogLevel string

	// Settings are the reconciliation settings
	Settings *config.Settings
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (GRADESYNC_*)
// 3. .env files
// 4. Config file (configFile, or .gradesync.yaml in . or $HOME)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	v, err := config.New(configFile)
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigFile:  settings.ConfigFile,
		LogFormat:   getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", "stderr"),
		envLogLevel: os.Getenv("LOG_LEVEL"),
		Settings:    settings,
	}, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
