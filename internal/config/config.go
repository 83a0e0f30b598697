package config

import (
	"fmt"
	"time"

	"github.com/1broseidon/monarch/internal/layout"
)

// Backend selection values understood by the loader.
const (
	BackendAuto     = "auto"
	BackendHyprland = "hyprland"
	BackendX11      = "x11"
)

const (
	DefaultConfirmTimeoutSeconds = 10
	DefaultPollIntervalSeconds   = 3
	DefaultGracePeriodSeconds    = 5
)

// Config holds the application configuration.
type Config struct {
	Backend               string    `yaml:"backend"`
	MoveStep              int       `yaml:"move_step"` // logical px, 0 = an eighth of the shorter side
	ConfirmTimeoutSeconds int       `yaml:"confirm_timeout_seconds"`
	PollIntervalSeconds   int       `yaml:"poll_interval_seconds"`
	GracePeriodSeconds    int       `yaml:"grace_period_seconds"`
	Scales                []float64 `yaml:"scales"`
	Notifications         bool      `yaml:"notifications"`
	LogLevel              string    `yaml:"log_level"`
	LogFile               string    `yaml:"log_file,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:               BackendAuto,
		MoveStep:              0,
		ConfirmTimeoutSeconds: DefaultConfirmTimeoutSeconds,
		PollIntervalSeconds:   DefaultPollIntervalSeconds,
		GracePeriodSeconds:    DefaultGracePeriodSeconds,
		Scales:                append([]float64(nil), layout.DefaultScales...),
		Notifications:         true,
		LogLevel:              "info",
	}
}

// ConfirmTimeout is how long an applied configuration waits for
// confirmation before it is rolled back.
func (c *Config) ConfirmTimeout() time.Duration {
	return time.Duration(c.ConfirmTimeoutSeconds) * time.Second
}

// PollInterval is how often the running TUI re-enumerates outputs.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// GracePeriod suppresses external-change detection right after an apply
// while the compositor settles into the configuration just written.
func (c *Config) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendHyprland, BackendX11:
	default:
		return &ValidationError{Path: "backend", Err: fmt.Errorf("backend must be one of: auto, hyprland, x11")}
	}
	if c.MoveStep < 0 {
		return &ValidationError{Path: "move_step", Err: fmt.Errorf("move_step must be >= 0")}
	}
	if c.ConfirmTimeoutSeconds < 1 {
		return &ValidationError{Path: "confirm_timeout_seconds", Err: fmt.Errorf("confirm_timeout_seconds must be >= 1")}
	}
	if c.PollIntervalSeconds < 1 {
		return &ValidationError{Path: "poll_interval_seconds", Err: fmt.Errorf("poll_interval_seconds must be >= 1")}
	}
	if c.GracePeriodSeconds < 0 {
		return &ValidationError{Path: "grace_period_seconds", Err: fmt.Errorf("grace_period_seconds must be >= 0")}
	}
	if len(c.Scales) == 0 {
		return &ValidationError{Path: "scales", Err: fmt.Errorf("scales must not be empty")}
	}
	for i, s := range c.Scales {
		if s <= 0 {
			return &ValidationError{Path: "scales", Err: fmt.Errorf("scales[%d] must be > 0", i)}
		}
		if i > 0 && s <= c.Scales[i-1] {
			return &ValidationError{Path: "scales", Err: fmt.Errorf("scales must be strictly increasing")}
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	return nil
}
