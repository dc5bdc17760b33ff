package app

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync/pkg/logging"
)

// NewLogger builds the CLI logger. The level comes from, in order:
// --log-level, -v (debug), -q (warn), LOG_LEVEL, then info.
// Conflicting or unknown settings are reported on the new logger.
func NewLogger(config *Config) zerolog.Logger {
	level, problems := determineLogLevel(config)

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor || os.Getenv("NO_COLOR") != "",
		AddCaller: level == zerolog.DebugLevel.String() || level == zerolog.TraceLevel.String(),
	})
	for _, p := range problems {
		logger.Warn().Msg(p)
	}
	return logger
}

func determineLogLevel(config *Config) (string, []string) {
	switch {
	case config.LogLevel != "":
		level, ok := validateLogLevel(config.LogLevel)
		if !ok {
			return level, []string{fmt.Sprintf("unknown log level %q, using %s", config.LogLevel, level)}
		}
		return level, nil
	case config.Verbose && config.Quiet:
		return zerolog.WarnLevel.String(), []string{"both --verbose and --quiet given, using --quiet"}
	case config.Verbose:
		return zerolog.DebugLevel.String(), nil
	case config.Quiet:
		return zerolog.WarnLevel.String(), nil
	case config.envLogLevel != "":
		level, _ := validateLogLevel(config.envLogLevel)
		return level, nil
	}
	return zerolog.InfoLevel.String(), nil
}

// validateLogLevel canonicalizes a level name. Unknown names become info.
func validateLogLevel(name string) (string, bool) {
	level, ok := logging.ParseLevel(name)
	return level.String(), ok
}
