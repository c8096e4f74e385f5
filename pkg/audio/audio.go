// Package audio provides validation, framing, and time-domain feature
// primitives shared by all sensors.
//
// Every sensor runs Validate before any spectral work; downstream code
// assumes finite, adequately long input.
package audio

import (
	"math"
)

// MinSampleRate is the minimum valid sample rate in Hz
const MinSampleRate = 8000

// MaxSampleRate is the maximum valid sample rate in Hz
const MaxSampleRate = 96000

// MinSamples is the minimum audio length in samples (1ms at 8kHz)
const MinSamples = 8

// Validate checks sample-rate bounds, minimum length, and sample finiteness.
// It is a pure predicate with no side effects.
func Validate(samples []float64, sampleRate int) error {
	if sampleRate < MinSampleRate || sampleRate > MaxSampleRate {
		return errInvalidSampleRate(sampleRate)
	}

	if len(samples) < MinSamples {
		return errInsufficientData(MinSamples, len(samples))
	}

	for i, s := range samples {
		if math.IsNaN(s) {
			return errInvalidInput("NaN value at sample %d", i)
		}
		if math.IsInf(s, 0) {
			return errInvalidInput("infinite value at sample %d", i)
		}
	}

	return nil
}

// Normalize scales audio to the range [-1.0, 1.0] by its peak absolute
// value. All-zero (or sub-epsilon peak) input maps to zeros.
func Normalize(samples []float64) []float64 {
	if len(samples) == 0 {
		return []float64{}
	}

	maxAbs := 0.0
	for _, s := range samples {
		if abs := math.Abs(s); abs > maxAbs {
			maxAbs = abs
		}
	}

	out := make([]float64, len(samples))
	if maxAbs < epsilon {
		return out
	}

	for i, s := range samples {
		out[i] = s / maxAbs
	}
	return out
}

// RMS computes root-mean-square energy. Returns 0.0 for empty input.
func RMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0.0
	}

	sumSquares := 0.0
	for _, s := range frame {
		sumSquares += s * s
	}

	return math.Sqrt(sumSquares / float64(len(frame)))
}

// ApplyHammingWindow applies a Hamming window to the frame and returns the
// windowed copy. Frames shorter than 2 samples yield an empty result: the
// window term divides by N-1, so a single-sample frame has no defined shape.
func ApplyHammingWindow(frame []float64) []float64 {
	n := len(frame)
	if n < 2 {
		return []float64{}
	}

	out := make([]float64, n)
	for i, s := range frame {
		w := 0.54 - 0.46*math.Cos(2.0*math.Pi*float64(i)/float64(n-1))
		out[i] = s * w
	}
	return out
}

// Frame splits audio into overlapping frames of frameSize samples advancing
// by hopSize. Returns an empty sequence when frameSize or hopSize is zero,
// or when the audio is shorter than one frame; there is no partial final
// frame. Callers must treat an empty result as insufficient data.
func Frame(samples []float64, frameSize, hopSize int) [][]float64 {
	if frameSize <= 0 || hopSize <= 0 || len(samples) < frameSize {
		return [][]float64{}
	}

	frames := make([][]float64, 0, (len(samples)-frameSize)/hopSize+1)
	for start := 0; start+frameSize <= len(samples); start += hopSize {
		frame := make([]float64, frameSize)
		copy(frame, samples[start:start+frameSize])
		frames = append(frames, frame)
	}

	return frames
}

// ZeroCrossingRate computes the fraction of adjacent-sample sign changes in
// [0,1]. A sample of exactly 0.0 counts as non-negative; changing the sign
// test changes verdicts on exact-zero samples, so it stays >= 0.0.
// Returns 0.0 for frames shorter than 2 samples.
func ZeroCrossingRate(frame []float64) float64 {
	if len(frame) < 2 {
		return 0.0
	}

	crossings := 0
	for i := 1; i < len(frame); i++ {
		if (frame[i-1] >= 0.0) != (frame[i] >= 0.0) {
			crossings++
		}
	}

	return float64(crossings) / float64(len(frame)-1)
}

// epsilon is the double-precision machine epsilon
const epsilon = 2.220446049250313e-16
