// Package sensors implements the synthetic-speech detectors.
//
// Each sensor is constructed once with a threshold and reused across many
// Analyze calls. Sensors are immutable after construction and keep no state
// between calls, so concurrent Analyze calls on one instance are safe.
package sensors

import (
	"github.com/doronpers/sonotheia-enhanced/pkg/logging"
)

// Sensor names
const (
	SensorNameVacuum       = "vacuum_sensor"
	SensorNamePhase        = "phase_sensor"
	SensorNameArticulation = "articulation_sensor"
)

// Failure reason codes
const (
	ReasonValidationError     = "validation_error"
	ReasonSFMAnomaly          = "sfm_anomaly"
	ReasonPhaseAnomaly        = "phase_anomaly"
	ReasonArticulationAnomaly = "articulation_anomaly"
)

// referenceSampleRate is the rate at which frame and hop constants are
// defined; they scale linearly for other rates.
const referenceSampleRate = 16000

// silenceRMS is the windowed-frame RMS floor below which a frame is
// excluded from feature aggregation.
const silenceRMS = 1e-6

// neutralScore is returned when a clip is too short for a meaningful
// verdict.
const neutralScore = 0.5

// Sensor is implemented by all detectors
type Sensor interface {
	// Name returns the fixed sensor identifier
	Name() string

	// Threshold returns the pass/fail threshold in [0,1]
	Threshold() float64

	// Analyze scores the clip and returns a result. Malformed input is
	// reported through the result (passed=false, reason=validation_error),
	// never as an error.
	Analyze(samples []float64, sampleRate int) *Result
}

// Option configures a sensor at construction time
type Option func(*settings)

type settings struct {
	threshold *float64
	logger    logging.Logger
}

// WithThreshold overrides the sensor's default threshold. Values outside
// [0,1] are clamped at construction.
func WithThreshold(threshold float64) Option {
	return func(s *settings) {
		s.threshold = &threshold
	}
}

// WithLogger sets the sensor's logger. Sensors default to a no-op logger
// so library use stays silent.
func WithLogger(logger logging.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// applyOptions resolves options against a sensor's default threshold and
// returns the clamped threshold and logger tagged with the component name.
func applyOptions(defaultThreshold float64, component string, opts []Option) (float64, logging.Logger) {
	s := settings{}
	for _, opt := range opts {
		opt(&s)
	}

	threshold := defaultThreshold
	if s.threshold != nil {
		threshold = *s.threshold
	}
	threshold = clampUnit(threshold)

	logger := s.logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithFields(logging.Fields{
		"component": component,
		"threshold": threshold,
	})

	return threshold, logger
}

// scaleSamples rescales a frame or hop size defined at the 16 kHz reference
// rate to the given sample rate.
func scaleSamples(reference, sampleRate int) int {
	return sampleRate * reference / referenceSampleRate
}

func clampUnit(v float64) float64 {
	if v < 0.0 {
		return 0.0
	}
	if v > 1.0 {
		return 1.0
	}
	return v
}
