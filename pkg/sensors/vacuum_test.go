package sensors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVacuumSensorCreation(t *testing.T) {
	sensor := NewVacuumSensor()
	assert.Equal(t, "vacuum_sensor", sensor.Name())
	assert.Equal(t, DefaultVacuumThreshold, sensor.Threshold())
}

func TestVacuumSensorCustomThreshold(t *testing.T) {
	sensor := NewVacuumSensor(WithThreshold(0.8))
	assert.Equal(t, 0.8, sensor.Threshold())
}

func TestVacuumSensorThresholdClamping(t *testing.T) {
	assert.Equal(t, 1.0, NewVacuumSensor(WithThreshold(1.5)).Threshold())
	assert.Equal(t, 0.0, NewVacuumSensor(WithThreshold(-0.5)).Threshold())
}

func TestVacuumSensorValidationFailure(t *testing.T) {
	sensor := NewVacuumSensor()

	tests := []struct {
		name       string
		samples    []float64
		sampleRate int
	}{
		{"bad sample rate", make([]float64, 100), 100},
		{"too short", make([]float64, 7), 16000},
		{"NaN sample", []float64{0.1, math.NaN(), 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sensor.Analyze(tt.samples, tt.sampleRate)
			require.NotNil(t, result)
			assert.True(t, result.IsFail())
			assert.Equal(t, 0.0, result.Value)
			assert.Equal(t, ReasonValidationError, result.Reason)
			assert.NotEmpty(t, result.Detail)
		})
	}
}

func TestVacuumSensorShortClipIsNeutral(t *testing.T) {
	sensor := NewVacuumSensor()

	// Valid but shorter than one 25 ms frame at 16 kHz
	result := sensor.Analyze(make([]float64, 100), 16000)
	assert.Equal(t, neutralScore, result.Value)
	assert.True(t, result.IsFail(), "neutral 0.5 is below the 0.7 threshold")
	assert.Equal(t, ReasonSFMAnomaly, result.Reason)
}

func TestVacuumSensorPureToneReadsSynthetic(t *testing.T) {
	sensor := NewVacuumSensor()

	// A steady sine has near-zero centroid, bandwidth, and energy variation
	// across frames, so all three stability sub-scores collapse
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2.0*math.Pi*440.0*float64(i)/16000.0)
	}

	result := sensor.Analyze(samples, 16000)
	assert.Less(t, result.Value, 0.5)
	assert.True(t, result.IsFail())
	assert.Equal(t, ReasonSFMAnomaly, result.Reason)
}

func TestVacuumSensorMetadata(t *testing.T) {
	sensor := NewVacuumSensor()

	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2.0*math.Pi*440.0*float64(i)/16000.0)
	}

	result := sensor.Analyze(samples, 16000)
	assert.Equal(t, "400", result.Metadata["frame_size"])
	assert.Equal(t, "160", result.Metadata["hop_size"])
	assert.NotEmpty(t, result.Metadata["total_frames"])
	assert.NotEmpty(t, result.Metadata["voiced_frames"])
}

func TestStabilityScore(t *testing.T) {
	// Normal variation scores high
	values := []float64{100.0, 110.0, 95.0, 105.0, 100.0}
	assert.Greater(t, stabilityScore(values, 5.0, 50.0), 0.8)

	// Constant values are too stable
	values = []float64{100.0, 100.0, 100.0, 100.0}
	assert.Less(t, stabilityScore(values, 5.0, 50.0), 0.5)

	// Wild swings are too erratic
	values = []float64{0.0, 1000.0, -1000.0, 1000.0}
	assert.Less(t, stabilityScore(values, 5.0, 50.0), 0.5)

	// Too few values is neutral
	assert.Equal(t, neutralScore, stabilityScore([]float64{1.0}, 5.0, 50.0))
}

func TestSmoothnessScore(t *testing.T) {
	// Gradual transitions score 1.0
	assert.Equal(t, 1.0, smoothnessScore([]float64{1000.0, 1010.0, 1020.0}))

	// Abrupt mean jumps above 200 Hz are penalized
	score := smoothnessScore([]float64{1000.0, 2000.0, 500.0})
	assert.Less(t, score, 1.0)
	assert.Greater(t, score, 0.0)

	assert.Equal(t, neutralScore, smoothnessScore([]float64{1000.0}))
}
