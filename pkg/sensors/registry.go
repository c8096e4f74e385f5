package sensors

import (
	"fmt"
	"sort"
)

// Factory constructs a sensor with the given options
type Factory func(opts ...Option) Sensor

// Registry maps sensor names to factories. It exists so callers can build
// sensors by name (CLI flags, config files) without hard-coding the set.
// Registration is not safe for concurrent use; populate the registry at
// startup and treat it as read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates a registry pre-populated with the three bundled
// sensors.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.MustRegister(SensorNameVacuum, func(opts ...Option) Sensor {
		return NewVacuumSensor(opts...)
	})
	r.MustRegister(SensorNamePhase, func(opts ...Option) Sensor {
		return NewPhaseSensor(opts...)
	})
	r.MustRegister(SensorNameArticulation, func(opts ...Option) Sensor {
		return NewArticulationSensor(opts...)
	})

	return r
}

// Register adds a sensor factory under the given name
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("sensor name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("sensor factory must not be nil")
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("sensor already registered: %s", name)
	}

	r.factories[name] = factory
	return nil
}

// MustRegister is Register that panics on error; for static startup wiring
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create builds a sensor by name
func (r *Registry) Create(name string, opts ...Option) (Sensor, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown sensor: %s", name)
	}
	return factory(opts...), nil
}

// List returns the registered sensor names in sorted order
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
