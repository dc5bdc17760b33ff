// Package appcontext defines what commands may ask of the running application.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync"
	"github.com/agentstation/gradesync/internal/config"
)

// BuildInfo identifies the binary.
type BuildInfo struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	BuiltBy string `json:"built_by" yaml:"built_by"`
}

// Interface is implemented by the CLI application and by Mock.
type Interface interface {
	// Settings returns a copy of the loaded reconciliation settings.
	Settings() config.Settings

	// Gradesync builds a reconciler from Settings with opts applied last, so
	// command flags override configuration.
	Gradesync(opts ...gradesync.Option) (gradesync.Gradesync, error)

	Logger() *zerolog.Logger

	// OutputFormat is table, wide, json or yaml.
	OutputFormat() string

	Build() BuildInfo
}
