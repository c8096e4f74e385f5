// Package configs provides viper-backed application configuration for the
// sonotheia CLI. The sensor library itself takes plain constructor options;
// this package only maps files, flags, and environment onto those options.
package configs

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	OutputFormat string `mapstructure:"output_format"`

	// Audio input configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Per-sensor configuration
	Sensors SensorsConfig `mapstructure:"sensors"`
}

// AudioConfig contains audio input settings
type AudioConfig struct {
	SampleRate int    `mapstructure:"sample_rate"`
	Format     string `mapstructure:"format"`
}

// SensorsConfig contains per-sensor settings
type SensorsConfig struct {
	Vacuum       SensorConfig `mapstructure:"vacuum"`
	Phase        SensorConfig `mapstructure:"phase"`
	Articulation SensorConfig `mapstructure:"articulation"`
}

// SensorConfig contains settings for a single sensor
type SensorConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Threshold float64 `mapstructure:"threshold"`
}

// Sample formats accepted for raw PCM input
const (
	FormatFloat64LE = "f64le"
	FormatInt16LE   = "s16le"
)

// LoadConfig builds the configuration from viper's merged state (defaults,
// config file, environment, bound flags).
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom builds the configuration from a specific viper instance
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration with all defaults applied
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults are statically known; unmarshal cannot fail
	_ = v.Unmarshal(&config)
	return &config
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	switch c.OutputFormat {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("invalid output format: %s (expected table, json, or yaml)", c.OutputFormat)
	}

	if c.Audio.SampleRate < audio.MinSampleRate || c.Audio.SampleRate > audio.MaxSampleRate {
		return fmt.Errorf("invalid sample rate: %d Hz (expected %d-%d Hz)",
			c.Audio.SampleRate, audio.MinSampleRate, audio.MaxSampleRate)
	}

	switch c.Audio.Format {
	case FormatFloat64LE, FormatInt16LE:
	default:
		return fmt.Errorf("invalid sample format: %s (expected %s or %s)",
			c.Audio.Format, FormatFloat64LE, FormatInt16LE)
	}

	for name, sc := range map[string]SensorConfig{
		"vacuum":       c.Sensors.Vacuum,
		"phase":        c.Sensors.Phase,
		"articulation": c.Sensors.Articulation,
	} {
		if sc.Threshold < 0.0 || sc.Threshold > 1.0 {
			return fmt.Errorf("sensor %s: threshold %v out of range [0,1]", name, sc.Threshold)
		}
	}

	return nil
}
