package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/gradesync"
	"github.com/agentstation/gradesync/internal/config"
	"github.com/agentstation/gradesync/pkg/logging"
)

// Mock is an Interface for command tests. Unset fields fall back to default
// settings, a silent logger, JSON output and a "dev" build.
type Mock struct {
	SettingsFunc  func() config.Settings
	GradesyncFunc func(...gradesync.Option) (gradesync.Gradesync, error)
	LoggerFunc    func() *zerolog.Logger
	Format        string
	BuildInfo     *BuildInfo
}

var _ Interface = (*Mock)(nil)

func (m *Mock) Settings() config.Settings {
	if m.SettingsFunc != nil {
		return m.SettingsFunc()
	}
	return *config.Defaults()
}

// Gradesync builds a real reconciler from the mock settings unless
// GradesyncFunc is set.
func (m *Mock) Gradesync(opts ...gradesync.Option) (gradesync.Gradesync, error) {
	if m.GradesyncFunc != nil {
		return m.GradesyncFunc(opts...)
	}
	s := m.Settings()
	base := []gradesync.Option{
		gradesync.WithEngineOptions(s.EngineOptions()...),
		gradesync.WithLogger(m.Logger()),
	}
	return gradesync.New(append(base, opts...)...)
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "json"
}

func (m *Mock) Build() BuildInfo {
	if m.BuildInfo != nil {
		return *m.BuildInfo
	}
	return BuildInfo{Version: "dev", Commit: "unknown", Date: "unknown", BuiltBy: "test"}
}
