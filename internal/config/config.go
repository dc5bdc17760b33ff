// Package config loads reconciliation settings from defaults, a YAML config
// file, .env files, and GRADESYNC_* environment variables, in increasing order
// of precedence. Command-line flags are layered on top by the CLI.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/gradesync/pkg/constants"
	"github.com/agentstation/gradesync/pkg/errors"
	"github.com/agentstation/gradesync/pkg/reconcile"
)

// Viper keys
const (
	KeyThreshold          = "threshold"
	KeyScaleDivisor       = "scale_divisor"
	KeyExemptToken        = "exempt_token"
	KeyAssignmentPatterns = "assignment_patterns"
	KeyHomeworkOnly       = "homework_only"
	KeyWorkers            = "workers"
	KeyPolicy             = "policy"
	KeyInputDir           = "input_dir"
	KeyPrimaryGlob        = "primary_glob"
	KeySecondaryGlob      = "secondary_glob"
)

// Settings are the reconciliation settings shared by every command.
type Settings struct {
	Threshold          int      `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	ScaleDivisor       float64  `mapstructure:"scale_divisor" yaml:"scale_divisor" json:"scale_divisor"`
	ExemptToken        string   `mapstructure:"exempt_token" yaml:"exempt_token" json:"exempt_token"`
	AssignmentPatterns []string `mapstructure:"assignment_patterns" yaml:"assignment_patterns" json:"assignment_patterns"`
	HomeworkOnly       bool     `mapstructure:"homework_only" yaml:"homework_only" json:"homework_only"`
	Workers            int      `mapstructure:"workers" yaml:"workers" json:"workers"`
	Policy             string   `mapstructure:"policy" yaml:"policy" json:"policy"`

	// Input discovery when paths are not given explicitly
	InputDir      string `mapstructure:"input_dir" yaml:"input_dir" json:"input_dir"`
	PrimaryGlob   string `mapstructure:"primary_glob" yaml:"primary_glob" json:"primary_glob"`
	SecondaryGlob string `mapstructure:"secondary_glob" yaml:"secondary_glob" json:"secondary_glob"`

	// ConfigFile is the config file that was read, if any
	ConfigFile string `mapstructure:"-" yaml:"-" json:"config_file,omitempty"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyThreshold, constants.DefaultThreshold)
	v.SetDefault(KeyScaleDivisor, constants.DefaultScaleDivisor)
	v.SetDefault(KeyExemptToken, constants.DefaultExemptToken)
	v.SetDefault(KeyAssignmentPatterns, []string{constants.DefaultAssignmentPattern})
	v.SetDefault(KeyHomeworkOnly, false)
	v.SetDefault(KeyWorkers, constants.DefaultWorkers)
	v.SetDefault(KeyPolicy, constants.DefaultPolicy)
	v.SetDefault(KeyInputDir, ".")
	v.SetDefault(KeyPrimaryGlob, constants.DefaultPrimaryGlob)
	v.SetDefault(KeySecondaryGlob, constants.DefaultSecondaryGlob)
}

// New returns a viper instance with defaults, env binding, and the config file
// (configFile, or .gradesync.yaml in the working directory or $HOME) loaded.
// A missing default config file is not an error; a missing explicit one is.
func New(configFile string) (*viper.Viper, error) {
	LoadEnvFiles()

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(constants.ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "cannot read "+describe(configFile), err)
		}
	}

	return v, nil
}

// Defaults returns the settings used when no file or environment overrides them.
func Defaults() *Settings {
	v := viper.New()
	SetDefaults(v)
	s, err := Load(v)
	if err != nil {
		panic("programming error: invalid default settings: " + err.Error())
	}
	return s
}

// Load reads Settings from v and validates them.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Threshold:          v.GetInt(KeyThreshold),
		ScaleDivisor:       v.GetFloat64(KeyScaleDivisor),
		ExemptToken:        v.GetString(KeyExemptToken),
		AssignmentPatterns: patterns(v),
		HomeworkOnly:       v.GetBool(KeyHomeworkOnly),
		Workers:            v.GetInt(KeyWorkers),
		Policy:             v.GetString(KeyPolicy),
		InputDir:           v.GetString(KeyInputDir),
		PrimaryGlob:        v.GetString(KeyPrimaryGlob),
		SecondaryGlob:      v.GetString(KeySecondaryGlob),
		ConfigFile:         v.ConfigFileUsed(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks value ranges.
func (s *Settings) Validate() error {
	if s.Threshold < 0 || s.Threshold > constants.MaxSimilarity {
		return errors.NewValidationError(KeyThreshold, s.Threshold, "must be between 0 and 100")
	}
	if s.ScaleDivisor <= 0 {
		return errors.NewValidationError(KeyScaleDivisor, s.ScaleDivisor, "must be a positive number")
	}
	if strings.TrimSpace(s.ExemptToken) == "" {
		return errors.NewValidationError(KeyExemptToken, s.ExemptToken, "must not be empty")
	}
	if s.Workers < 1 {
		return errors.NewValidationError(KeyWorkers, s.Workers, "must be at least 1")
	}
	if _, ok := reconcile.PolicyByName(s.Policy); !ok {
		return errors.NewValidationError(KeyPolicy, s.Policy,
			"unknown policy (want one of "+strings.Join(reconcile.PolicyNames(), ", ")+")")
	}
	return nil
}

// EngineOptions converts the settings into reconcile engine options.
func (s *Settings) EngineOptions() []reconcile.Option {
	policy, _ := reconcile.PolicyByName(s.Policy)
	return []reconcile.Option{
		reconcile.WithThreshold(s.Threshold),
		reconcile.WithScaleDivisor(s.ScaleDivisor),
		reconcile.WithExemptToken(s.ExemptToken),
		reconcile.WithAssignmentPatterns(s.AssignmentPatterns...),
		reconcile.WithHomeworkOnly(s.HomeworkOnly),
		reconcile.WithWorkers(s.Workers),
		reconcile.WithPolicy(policy),
	}
}

// LoadEnvFiles loads .env then .env.local from the working directory.
// Variables already set in the environment are not overridden.
func LoadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// patterns reads the pattern list. A YAML sequence is used as is; an environment
// value is split on whitespace, so patterns set there cannot contain spaces.
func patterns(v *viper.Viper) []string {
	var out []string
	for _, p := range v.GetStringSlice(KeyAssignmentPatterns) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func describe(configFile string) string {
	if configFile == "" {
		return "config file"
	}
	return filepath.Base(configFile)
}
