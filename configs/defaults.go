package configs

import (
	"github.com/spf13/viper"

	"github.com/doronpers/sonotheia-enhanced/pkg/sensors"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Application defaults
	if !v.IsSet("verbose") {
		v.SetDefault("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.SetDefault("log_level", "info")
	}
	if !v.IsSet("output_format") {
		v.SetDefault("output_format", "table")
	}

	// Audio input defaults
	if !v.IsSet("audio.sample_rate") {
		v.SetDefault("audio.sample_rate", 16000)
	}
	if !v.IsSet("audio.format") {
		v.SetDefault("audio.format", FormatFloat64LE)
	}

	// Sensor defaults; thresholds mirror the library defaults
	if !v.IsSet("sensors.vacuum.enabled") {
		v.SetDefault("sensors.vacuum.enabled", true)
	}
	if !v.IsSet("sensors.vacuum.threshold") {
		v.SetDefault("sensors.vacuum.threshold", sensors.DefaultVacuumThreshold)
	}
	if !v.IsSet("sensors.phase.enabled") {
		v.SetDefault("sensors.phase.enabled", true)
	}
	if !v.IsSet("sensors.phase.threshold") {
		v.SetDefault("sensors.phase.threshold", sensors.DefaultPhaseThreshold)
	}
	if !v.IsSet("sensors.articulation.enabled") {
		v.SetDefault("sensors.articulation.enabled", true)
	}
	if !v.IsSet("sensors.articulation.threshold") {
		v.SetDefault("sensors.articulation.threshold", sensors.DefaultArticulationThreshold)
	}
}
