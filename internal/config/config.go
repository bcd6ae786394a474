// Package config resolves the timer settings from defaults, the environment and flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const (
	// EnvPrefix is the prefix of every environment override.
	EnvPrefix = "POMODORO_"
	// SoundFileEnv is the standalone variable naming the alert sound.
	SoundFileEnv = "SOUND_FILE_LOCATION"
	// DotEnvFile is read from the working directory when present.
	DotEnvFile = ".env"
)

// Default configuration values.
const (
	DefaultAlertHold    = 5 * time.Second
	DefaultTickInterval = 100 * time.Millisecond
	DefaultBarWidth     = 40
	DefaultMinute       = time.Minute
	DefaultLogLevel     = "info"

	minBarWidth = 10
	maxBarWidth = 200
)

// Config holds every runtime setting of the timer.
type Config struct {
	SoundFile     string        `koanf:"sound_file" yaml:"sound_file"`
	AlertHold     time.Duration `koanf:"alert_hold" yaml:"alert_hold"`
	TickInterval  time.Duration `koanf:"tick_interval" yaml:"tick_interval"`
	BarWidth      int           `koanf:"bar_width" yaml:"bar_width"`
	Minute        time.Duration `koanf:"minute" yaml:"minute"`
	NoColor       bool          `koanf:"no_color" yaml:"no_color"`
	Verbose       bool          `koanf:"verbose" yaml:"verbose"`
	LogLevel      string        `koanf:"log_level" yaml:"log_level"`
	AllowMultiple bool          `koanf:"allow_multiple" yaml:"allow_multiple"`

	// Pre-answered prompts; nil means ask.
	Work       *uint32 `koanf:"work" yaml:"work,omitempty"`
	Break      *uint32 `koanf:"break" yaml:"break,omitempty"`
	Iterations *uint32 `koanf:"iterations" yaml:"iterations,omitempty"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		AlertHold:    DefaultAlertHold,
		TickInterval: DefaultTickInterval,
		BarWidth:     DefaultBarWidth,
		Minute:       DefaultMinute,
		LogLevel:     DefaultLogLevel,
	}
}

// BindFlags registers the command-line flags read by Load.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("sound-file", "", "Path to the alert sound (.mp3 or .wav)")
	flags.Duration("alert-hold", DefaultAlertHold, "Longest time to wait for the alert to finish playing")
	flags.Duration("tick-interval", DefaultTickInterval, "Progress bar redraw interval")
	flags.Int("bar-width", DefaultBarWidth, "Progress bar width in cells")
	flags.Duration("minute", DefaultMinute, "Length of one timer minute")
	flags.Bool("no-color", false, "Disable coloured output")
	flags.BoolP("verbose", "v", false, "Verbose logging")
	flags.String("log-level", DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.Bool("allow-multiple", false, "Allow more than one timer to run at once")
	flags.Uint32("work", 0, "Work session length in minutes (skips the prompt)")
	flags.Uint32("break", 0, "Break session length in minutes (skips the prompt)")
	flags.Uint32("iterations", 0, "Number of pomodoro iterations (skips the prompt)")

	_ = flags.MarkHidden("minute")
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration.
// Precedence (highest to lowest): flags > POMODORO_* > SOUND_FILE_LOCATION > defaults
func Load(flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := Defaults()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"sound_file":     defaults.SoundFile,
		"alert_hold":     defaults.AlertHold,
		"tick_interval":  defaults.TickInterval,
		"bar_width":      defaults.BarWidth,
		"minute":         defaults.Minute,
		"no_color":       defaults.NoColor,
		"verbose":        defaults.Verbose,
		"log_level":      defaults.LogLevel,
		"allow_multiple": defaults.AllowMultiple,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(env.Provider(SoundFileEnv, ".", func(s string) string {
		if s != SoundFileEnv {
			return ""
		}
		return "sound_file"
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", SoundFileEnv, err)
	}

	// POMODORO_ALERT_HOLD -> alert_hold
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.SoundFile = strings.TrimSpace(cfg.SoundFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (cfg *Config) Validate() error {
	if cfg.BarWidth < minBarWidth || cfg.BarWidth > maxBarWidth {
		return fmt.Errorf("bar_width must be between %d and %d, got %d", minBarWidth, maxBarWidth, cfg.BarWidth)
	}
	if cfg.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %s", cfg.TickInterval)
	}
	if cfg.Minute <= 0 {
		return fmt.Errorf("minute must be positive, got %s", cfg.Minute)
	}
	if cfg.AlertHold < 0 {
		return fmt.Errorf("alert_hold must not be negative, got %s", cfg.AlertHold)
	}
	if _, err := cfg.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the slog level; Verbose forces debug.
func (cfg *Config) Level() (slog.Level, error) {
	if cfg.Verbose {
		return slog.LevelDebug, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
	}
	return level, nil
}

// NewLogger returns a text logger writing to w at the configured level.
func (cfg *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := cfg.Level()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
