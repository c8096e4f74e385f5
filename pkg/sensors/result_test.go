package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultPass(t *testing.T) {
	result := NewResult("test_sensor", boolPtr(true), 0.95, 0.8, "", "test passed")

	assert.Equal(t, "test_sensor", result.SensorName)
	assert.Equal(t, 0.95, result.Value)
	assert.Equal(t, 0.8, result.Threshold)
	assert.True(t, result.IsPass())
	assert.False(t, result.IsFail())
	assert.Equal(t, "PASS", result.Status())
}

func TestResultFail(t *testing.T) {
	result := NewResult("test_sensor", boolPtr(false), 0.5, 0.8, "below_threshold", "value below threshold")

	assert.False(t, result.IsPass())
	assert.True(t, result.IsFail())
	assert.Equal(t, "FAIL", result.Status())
	assert.Equal(t, "below_threshold", result.Reason)
}

func TestResultInfoOnly(t *testing.T) {
	result := NewResult("info_sensor", nil, 0.42, 0.0, "", "")

	// nil passed is neither pass nor fail
	assert.False(t, result.IsPass())
	assert.False(t, result.IsFail())
	assert.Equal(t, "INFO", result.Status())
}

func TestResultAddMetadata(t *testing.T) {
	result := NewResult("test_sensor", boolPtr(true), 0.95, 0.8, "", "")

	result.AddMetadata("processing_time_ms", "15")
	assert.Equal(t, "15", result.Metadata["processing_time_ms"])

	// Last write wins on collision
	result.AddMetadata("processing_time_ms", "20")
	assert.Equal(t, "20", result.Metadata["processing_time_ms"])
}

func TestResultAddMetadataNilMap(t *testing.T) {
	result := &Result{SensorName: "test_sensor"}
	result.AddMetadata("k", "v")
	assert.Equal(t, "v", result.Metadata["k"])
}

func TestResultString(t *testing.T) {
	result := NewResult("test_sensor", boolPtr(true), 0.95, 0.8, "", "")
	assert.Equal(t, "Result(sensor_name='test_sensor', status=PASS, value=0.9500, threshold=0.8000)", result.String())
}
