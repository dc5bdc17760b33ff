package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync/pkg/constants"
)

// Output formats.
const (
	FormatAuto    = "auto"
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config describes how a logger is built.
type Config struct {
	Level     string // trace, debug, info, warn, error or off
	Format    string // auto, json or console
	Output    string // stderr, stdout, discard or a file path
	NoColor   bool
	AddCaller bool
}

// DefaultConfig logs info and above to stderr, pretty when stderr is a terminal.
func DefaultConfig() *Config {
	return &Config{
		Level:   "info",
		Format:  FormatAuto,
		Output:  "stderr",
		NoColor: os.Getenv("NO_COLOR") != "",
	}
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT and NO_COLOR on top of
// DefaultConfig. DEBUG=1 stands in for LOG_LEVEL=debug.
func ConfigFromEnv() *Config {
	cfg := DefaultConfig()
	if os.Getenv("DEBUG") != "" {
		cfg.Level = "debug"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("LOG_OUTPUT"); v != "" {
		cfg.Output = v
	}
	return cfg
}

// NewLoggerFromConfig builds a logger and sets zerolog's global level to match.
// A nil cfg means DefaultConfig.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level, _ := ParseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	ctx := zerolog.New(writerFor(cfg)).Level(level).With().Timestamp()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Configure installs a logger built from cfg as the default.
func Configure(cfg *Config) {
	SetDefault(NewLoggerFromConfig(cfg))
}

// ParseLevel maps a level name to a zerolog level. Unknown names give info
// and false.
func ParseLevel(name string) (zerolog.Level, bool) {
	switch name = strings.ToLower(strings.TrimSpace(name)); name {
	case "warning":
		return zerolog.WarnLevel, true
	case "off", "none":
		return zerolog.Disabled, true
	case "":
		return zerolog.InfoLevel, false
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, false
	}
	return level, true
}

func writerFor(cfg *Config) io.Writer {
	out := destination(cfg.Output)

	format := strings.ToLower(cfg.Format)
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if f, ok := out.(*os.File); ok && f == os.Stderr && isTerminal(f) {
			format = FormatConsole
		}
	}
	if format == FormatConsole || format == "pretty" {
		return zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: cfg.NoColor}
	}
	return out
}

// destination falls back to stderr when a log file cannot be opened.
func destination(name string) io.Writer {
	switch strings.ToLower(name) {
	case "", "stderr":
		return os.Stderr
	case "stdout":
		return os.Stdout
	case "discard", "none":
		return io.Discard
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return os.Stderr
	}
	return f
}
