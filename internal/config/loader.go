package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ValidationError reports an invalid configuration field by its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// RawConfig mirrors Config with pointer fields so an absent key can be
// told apart from a zero value.
type RawConfig struct {
	Backend               *string   `yaml:"backend"`
	MoveStep              *int      `yaml:"move_step"`
	ConfirmTimeoutSeconds *int      `yaml:"confirm_timeout_seconds"`
	PollIntervalSeconds   *int      `yaml:"poll_interval_seconds"`
	GracePeriodSeconds    *int      `yaml:"grace_period_seconds"`
	Scales                []float64 `yaml:"scales"`
	Notifications         *bool     `yaml:"notifications"`
	LogLevel              *string   `yaml:"log_level"`
	LogFile               *string   `yaml:"log_file"`
}

func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, "monarch", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing
// file yields the defaults.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (*Config, error) {
	raw := RawConfig{}
	if data, err := os.ReadFile(path); err == nil {
		if err := decodeStrictYAML(data, &raw); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// BuildEffectiveConfig overlays the raw file contents onto the defaults.
func BuildEffectiveConfig(raw RawConfig) *Config {
	cfg := DefaultConfig()

	if raw.Backend != nil {
		cfg.Backend = *raw.Backend
	}
	if raw.MoveStep != nil {
		cfg.MoveStep = *raw.MoveStep
	}
	if raw.ConfirmTimeoutSeconds != nil {
		cfg.ConfirmTimeoutSeconds = *raw.ConfirmTimeoutSeconds
	}
	if raw.PollIntervalSeconds != nil {
		cfg.PollIntervalSeconds = *raw.PollIntervalSeconds
	}
	if raw.GracePeriodSeconds != nil {
		cfg.GracePeriodSeconds = *raw.GracePeriodSeconds
	}
	if raw.Scales != nil {
		cfg.Scales = append([]float64(nil), raw.Scales...)
	}
	if raw.Notifications != nil {
		cfg.Notifications = *raw.Notifications
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.LogFile != nil {
		cfg.LogFile = *raw.LogFile
	}

	return cfg
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}
