package sensors

import "fmt"

// Result is the standardized envelope returned by every sensor.
//
// Passed is tri-state: nil marks an info-only result that is neither pass
// nor fail. The three bundled sensors always set it; the nil state is part
// of the contract for sensors that only report measurements.
type Result struct {
	SensorName string            `json:"sensor_name" yaml:"sensor_name"`
	Passed     *bool             `json:"passed" yaml:"passed"`
	Value      float64           `json:"value" yaml:"value"`
	Threshold  float64           `json:"threshold" yaml:"threshold"`
	Reason     string            `json:"reason,omitempty" yaml:"reason,omitempty"`
	Detail     string            `json:"detail,omitempty" yaml:"detail,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// NewResult creates a new sensor result. Reason and detail may be empty;
// reason carries a fixed failure code, detail a human-readable explanation.
func NewResult(sensorName string, passed *bool, value, threshold float64, reason, detail string) *Result {
	return &Result{
		SensorName: sensorName,
		Passed:     passed,
		Value:      value,
		Threshold:  threshold,
		Reason:     reason,
		Detail:     detail,
		Metadata:   make(map[string]string),
	}
}

// AddMetadata inserts a key-value pair, overwriting on collision
func (r *Result) AddMetadata(key, value string) {
	if r.Metadata == nil {
		r.Metadata = make(map[string]string)
	}
	r.Metadata[key] = value
}

// IsPass reports whether the sensor explicitly passed
func (r *Result) IsPass() bool {
	return r.Passed != nil && *r.Passed
}

// IsFail reports whether the sensor explicitly failed. An info-only result
// is neither pass nor fail.
func (r *Result) IsFail() bool {
	return r.Passed != nil && !*r.Passed
}

// Status returns PASS, FAIL, or INFO
func (r *Result) Status() string {
	switch {
	case r.Passed == nil:
		return "INFO"
	case *r.Passed:
		return "PASS"
	default:
		return "FAIL"
	}
}

func (r *Result) String() string {
	return fmt.Sprintf("Result(sensor_name='%s', status=%s, value=%.4f, threshold=%.4f)",
		r.SensorName, r.Status(), r.Value, r.Threshold)
}

func boolPtr(b bool) *bool {
	return &b
}
