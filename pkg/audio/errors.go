package audio

import "fmt"

// Error codes for audio processing failures
const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeInsufficientData  = "INSUFFICIENT_DATA"
	ErrCodeInvalidSampleRate = "INVALID_SAMPLE_RATE"
	ErrCodeFFT               = "FFT_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// Error represents an audio processing error with a stable code
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsUserError reports whether the error stems from caller input rather than
// a broken internal invariant. User errors are folded into failing sensor
// results; internal errors indicate a bug.
func (e *Error) IsUserError() bool {
	switch e.Code {
	case ErrCodeInvalidInput, ErrCodeInsufficientData, ErrCodeInvalidSampleRate:
		return true
	}
	return false
}

// NewError creates a new audio error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func errInvalidSampleRate(rate int) *Error {
	return NewError(ErrCodeInvalidSampleRate,
		fmt.Sprintf("invalid sample rate: %d Hz (expected %d-%d Hz)", rate, MinSampleRate, MaxSampleRate), nil)
}

func errInsufficientData(required, actual int) *Error {
	return NewError(ErrCodeInsufficientData,
		fmt.Sprintf("audio data below minimum length (%d samples required, got %d)", required, actual), nil)
}

func errInvalidInput(format string, args ...any) *Error {
	return NewError(ErrCodeInvalidInput, fmt.Sprintf(format, args...), nil)
}
