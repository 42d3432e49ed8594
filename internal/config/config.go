// Package config loads hilite settings from a config file, the environment
// and command-line flags.
//
// Settings are read with viper in this order, later sources winning:
// built-in defaults, hilite.{toml,yaml} (from --config, the working
// directory or the user config directory), HILITE_* environment variables
// and flags bound by the caller.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/hilite/internal/theme"
)

// Setting keys.
const (
	KeyGrammarDirs   = "grammar_dirs"
	KeyTheme         = "theme"
	KeyStrict        = "strict"
	KeyWatch         = "watch"
	KeyWatchDebounce = "watch_debounce"
	KeyLogLevel      = "log_level"
	KeyLogFile       = "log_file"
	KeyTabWidth      = "tab_width"
)

// EnvPrefix prefixes environment overrides, e.g. HILITE_THEME.
const EnvPrefix = "HILITE"

// Config holds all hilite settings.
type Config struct {
	GrammarDirs   []string      `mapstructure:"grammar_dirs"`
	Theme         string        `mapstructure:"theme"`
	Strict        bool          `mapstructure:"strict"`
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	LogLevel      string        `mapstructure:"log_level"`
	LogFile       string        `mapstructure:"log_file"`
	TabWidth      int           `mapstructure:"tab_width"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Theme:         "default",
		Watch:         true,
		WatchDebounce: 100 * time.Millisecond,
		LogLevel:      "warn",
		TabWidth:      4,
	}
}

// SetDefaults registers the defaults with v so that environment variables
// for every key are honoured.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyGrammarDirs, d.GrammarDirs)
	v.SetDefault(KeyTheme, d.Theme)
	v.SetDefault(KeyStrict, d.Strict)
	v.SetDefault(KeyWatch, d.Watch)
	v.SetDefault(KeyWatchDebounce, d.WatchDebounce)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyTabWidth, d.TabWidth)
}

// Load reads settings into v and decodes them. If path is empty the config
// file is searched for, and a missing file is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("hilite")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "hilite"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, &ParseError{Path: configPath(v, path), Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, &ParseError{Path: configPath(v, path), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func configPath(v *viper.Viper, path string) string {
	if used := v.ConfigFileUsed(); used != "" {
		return used
	}
	return path
}

// Validate reports every unusable setting.
func (c Config) Validate() error {
	var errs []error
	if c.TabWidth <= 0 {
		errs = append(errs, &ValidationError{Key: KeyTabWidth, Message: "must be positive", Value: c.TabWidth})
	}
	if c.WatchDebounce < 0 {
		errs = append(errs, &ValidationError{Key: KeyWatchDebounce, Message: "must not be negative", Value: c.WatchDebounce})
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, &ValidationError{Key: KeyLogLevel, Message: "unknown level", Value: c.LogLevel})
	}
	if _, err := theme.Named(c.Theme); err != nil {
		errs = append(errs, &ValidationError{Key: KeyTheme, Message: "unknown theme", Value: c.Theme})
	}
	return errors.Join(errs...)
}

// Level returns the configured log level, or warn if it is unknown.
func (c Config) Level() slog.Level {
	l, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", s, err)
	}
	return l, nil
}
