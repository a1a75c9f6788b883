// Package config loads host settings from a config file and TUICORE_*
// environment variables and turns them into host options.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tui "github.com/grindlemire/tuicore"
	"github.com/grindlemire/tuicore/internal/debug"
	"github.com/muesli/termenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TUICORE_FULLSCREEN.
const EnvPrefix = "TUICORE"

// Config holds the host settings.
type Config struct {
	// Fullscreen clears the screen and addresses rows absolutely.
	Fullscreen bool `mapstructure:"fullscreen"`
	// Mouse enables mouse tracking.
	Mouse bool `mapstructure:"mouse"`
	// InlineErrors shows render errors below the frame.
	InlineErrors bool `mapstructure:"inline_errors"`
	// InterruptKey tears the host down and exits. Empty disables it.
	InterruptKey string `mapstructure:"interrupt_key"`
	// QueueSize is the capacity of the host's task queue.
	QueueSize int `mapstructure:"queue_size"`
	// InputLatencyMs is how long the input listener waits per read.
	InputLatencyMs int `mapstructure:"input_latency_ms"`
	// ColorProfile is one of "auto", "ascii", "ansi", "ansi256", "truecolor".
	ColorProfile string `mapstructure:"color_profile"`
	// DebugLog is the path of the JSON debug log. Empty leaves logging to
	// the TUI_DEBUG environment variable.
	DebugLog string `mapstructure:"debug_log"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		InterruptKey:   "ctrl+c",
		QueueSize:      256,
		InputLatencyMs: 50,
		ColorProfile:   "auto",
	}
}

var profiles = map[string]termenv.Profile{
	"ascii":     termenv.Ascii,
	"ansi":      termenv.ANSI,
	"ansi256":   termenv.ANSI256,
	"truecolor": termenv.TrueColor,
}

// ValidColorProfiles returns the accepted color profile names.
func ValidColorProfiles() []string {
	return []string{"auto", "ascii", "ansi", "ansi256", "truecolor"}
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("fullscreen", defaults.Fullscreen)
	v.SetDefault("mouse", defaults.Mouse)
	v.SetDefault("inline_errors", defaults.InlineErrors)
	v.SetDefault("interrupt_key", defaults.InterruptKey)
	v.SetDefault("queue_size", defaults.QueueSize)
	v.SetDefault("input_latency_ms", defaults.InputLatencyMs)
	v.SetDefault("color_profile", defaults.ColorProfile)
	v.SetDefault("debug_log", defaults.DebugLog)
}

// Load reads the config file at path, if path is not empty, then applies
// TUICORE_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ColorProfile = strings.ToLower(strings.TrimSpace(cfg.ColorProfile))
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// InputLatency returns InputLatencyMs as a duration.
func (c *Config) InputLatency() time.Duration {
	return time.Duration(c.InputLatencyMs) * time.Millisecond
}

// HostOptions converts the configuration into host options.
func (c *Config) HostOptions() ([]tui.HostOption, error) {
	if errs := c.Validate(); len(errs) > 0 {
		return nil, errs
	}
	opts := []tui.HostOption{
		tui.WithFullscreen(c.Fullscreen),
		tui.WithMouse(c.Mouse),
		tui.WithInlineErrors(c.InlineErrors),
		tui.WithInterruptKey(c.InterruptKey),
		tui.WithQueueSize(c.QueueSize),
		tui.WithInputLatency(c.InputLatency()),
	}
	if p, ok := c.Profile(); ok {
		opts = append(opts, tui.WithColorProfile(p))
	}
	return opts, nil
}

// Profile returns the configured color profile. ok is false for "auto".
func (c *Config) Profile() (p termenv.Profile, ok bool) {
	p, ok = profiles[c.ColorProfile]
	return p, ok
}

// InitLogging opens DebugLog when it is set.
func (c *Config) InitLogging() error {
	if c.DebugLog == "" {
		return nil
	}
	return debug.Init(c.DebugLog)
}

// ValidationError represents a single validation failure.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Validate checks the Config for invalid values and returns every failure.
func (c *Config) Validate() ValidationErrors {
	var errs ValidationErrors
	if c.QueueSize < 1 {
		errs = append(errs, ValidationError{Field: "queue_size", Value: c.QueueSize, Message: "must be at least 1"})
	}
	if c.InputLatencyMs < 1 {
		errs = append(errs, ValidationError{Field: "input_latency_ms", Value: c.InputLatencyMs, Message: "must be at least 1"})
	}
	if _, ok := profiles[c.ColorProfile]; !ok && c.ColorProfile != "auto" && c.ColorProfile != "" {
		errs = append(errs, ValidationError{
			Field:   "color_profile",
			Value:   c.ColorProfile,
			Message: "must be one of " + strings.Join(ValidColorProfiles(), ", "),
		})
	}
	if strings.Contains(strings.TrimSpace(c.InterruptKey), " ") {
		errs = append(errs, ValidationError{Field: "interrupt_key", Value: c.InterruptKey, Message: "must not contain spaces"})
	}
	return errs
}

// IsValidationError reports whether err came from Validate.
func IsValidationError(err error) bool {
	var verr ValidationError
	return errors.As(err, &verr)
}
