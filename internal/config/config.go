// Package config resolves the res2csv configuration from CLI flags,
// RES2CSV_* environment variables, and an optional YAML config file,
// in that order of precedence.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Log levels accepted by --log-level.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// envPrefix is the prefix of environment variable overrides, with config
// keys uppercased and dashes turned into underscores (RES2CSV_LOG_LEVEL).
const envPrefix = "RES2CSV"

// Config is the resolved res2csv configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log-level" json:"logLevel"`

	// LogFormat is text or json.
	LogFormat string `mapstructure:"log-format" json:"logFormat"`

	// NoColor disables ANSI colors in diff output.
	NoColor bool `mapstructure:"no-color" json:"noColor"`

	// Quiet drops log output below the error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// ColumnOrder shapes CSV headers: first-seen or alpha.
	ColumnOrder string `mapstructure:"column-order" json:"columnOrder"`

	// NullValue is the cell text emitted for JSON null values.
	NullValue string `mapstructure:"null-value" json:"nullValue"`

	// Replacement substitutes characters not allowed in file names when
	// deriving output files from type names.
	Replacement string `mapstructure:"replacement" json:"replacement"`

	// RequiredVersion is an optional semver constraint the running binary
	// must satisfy, e.g. ">= 1.2.0", for teams pinning a minimum version
	// in a shared config file.
	RequiredVersion string `mapstructure:"required-version" json:"requiredVersion"`

	// ConfigFile is the resolved path of the config file in use, filled
	// in by Load; empty when no file was found.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// defaults holds the lowest-precedence value of every config key.
var defaults = map[string]any{
	"log-level":        LogLevelInfo,
	"log-format":       LogFormatText,
	"no-color":         false,
	"quiet":            false,
	"column-order":     "first-seen",
	"null-value":       "",
	"replacement":      "_",
	"required-version": "",
}

// Default returns a Config carrying only the default values.
func Default() *Config {
	return &Config{
		LogLevel:    LogLevelInfo,
		LogFormat:   LogFormatText,
		ColumnOrder: "first-seen",
		Replacement: "_",
	}
}

// Validate rejects unknown log levels and formats.
func (c *Config) Validate() error {
	validLevels := []string{LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}
	if !slices.Contains(validLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	validFormats := []string{LogFormatText, LogFormatJSON}
	if !slices.Contains(validFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	return nil
}

// EffectiveLogLevel is the level the logger should run at; Quiet wins
// over LogLevel and forces error.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// Load resolves the configuration. cmd supplies the flag bindings and may
// be nil; configFile forces a specific file, empty means auto-discovery.
// Every call builds a fresh viper instance, keeping Load safe for
// concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	if err := readFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindCommandFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readFile loads the config file. An explicit path must exist and parse;
// with no path given we fall back to discovery.
func readFile(v *viper.Viper, configFile string) error {
	if configFile == "" {
		return discoverFile(v)
	}

	v.SetConfigFile(configFile)

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config file %q: %w", configFile, err)
	}

	return nil
}

// discoverFile searches the working directory and ~/.config/res2csv for
// a .res2csv.yaml. A missing file is fine; a file that fails to parse
// is not.
func discoverFile(v *viper.Viper) error {
	v.SetConfigName(".res2csv")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "res2csv"))
	}

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}

	if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
		return nil
	}

	return fmt.Errorf("parsing config file: %w", err)
}

// bindCommandFlags makes the command's flags visible to viper: its own
// flag set first, then the persistent flags of every command up the
// chain, so root-level options reach subcommands.
func bindCommandFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for node := cmd; node != nil; node = node.Parent() {
		if err := v.BindPFlags(node.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

// ---------------------------------------------------------------------------
// Context plumbing
// ---------------------------------------------------------------------------

type contextKey int

const (
	configKey contextKey = iota
	configFileKey
)

// NewContext stores cfg in a derived context.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext returns the Config stored in ctx. Callers always get a
// usable value: when nothing was stored, the defaults are returned.
func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configKey).(*Config)
	if !ok {
		return Default()
	}

	return cfg
}

// NewContextWithConfigFile records which config file Load ended up
// using, so commands can read extra sections from the same file without
// re-running discovery.
func NewContextWithConfigFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, configFileKey, path)
}

// ConfigFileFromContext reports the config file recorded by
// NewContextWithConfigFile; empty when no file was in use.
func ConfigFileFromContext(ctx context.Context) string {
	path, ok := ctx.Value(configFileKey).(string)
	if !ok {
		return ""
	}

	return path
}
