package sensors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	registry := NewRegistry()

	names := registry.List()
	assert.Equal(t, []string{
		SensorNameArticulation,
		SensorNamePhase,
		SensorNameVacuum,
	}, names)
}

func TestRegistryCreate(t *testing.T) {
	registry := NewRegistry()

	sensor, err := registry.Create(SensorNameVacuum)
	require.NoError(t, err)
	assert.Equal(t, SensorNameVacuum, sensor.Name())
	assert.Equal(t, DefaultVacuumThreshold, sensor.Threshold())
}

func TestRegistryCreateWithOptions(t *testing.T) {
	registry := NewRegistry()

	sensor, err := registry.Create(SensorNamePhase, WithThreshold(0.9))
	require.NoError(t, err)
	assert.Equal(t, 0.9, sensor.Threshold())
}

func TestRegistryCreateUnknown(t *testing.T) {
	registry := NewRegistry()

	_, err := registry.Create("spectrogram_sensor")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sensor")
}

func TestRegistryRegisterErrors(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register("", func(opts ...Option) Sensor {
		return NewVacuumSensor(opts...)
	})
	assert.Error(t, err)

	err = registry.Register("custom", nil)
	assert.Error(t, err)

	err = registry.Register(SensorNameVacuum, func(opts ...Option) Sensor {
		return NewVacuumSensor(opts...)
	})
	assert.Error(t, err)
}

func TestRegistryRegisterCustom(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register("strict_vacuum", func(opts ...Option) Sensor {
		merged := append([]Option{WithThreshold(0.95)}, opts...)
		return NewVacuumSensor(merged...)
	})
	require.NoError(t, err)

	sensor, err := registry.Create("strict_vacuum")
	require.NoError(t, err)
	assert.Equal(t, 0.95, sensor.Threshold())
	assert.Contains(t, registry.List(), "strict_vacuum")
}
