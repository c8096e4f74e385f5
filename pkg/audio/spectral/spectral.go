// Package spectral provides FFT and spectral statistics for framed audio.
package spectral

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
	"github.com/doronpers/sonotheia-enhanced/pkg/logging"
)

// epsilon is the double-precision machine epsilon
const epsilon = 2.220446049250313e-16

// Analyzer provides FFT and spectral feature computation for a fixed
// sample rate. The zero cost of construction means sensors create one per
// Analyze call; an Analyzer holds no per-call state and is safe for
// concurrent use.
type Analyzer struct {
	sampleRate int
	logger     logging.Logger
}

// NewAnalyzer creates a spectral analyzer for the given sample rate
func NewAnalyzer(sampleRate int) *Analyzer {
	return NewAnalyzerWithLogger(sampleRate, nil)
}

// NewAnalyzerWithLogger creates a spectral analyzer with an explicit logger.
// A nil logger is replaced with a no-op logger.
func NewAnalyzerWithLogger(sampleRate int, logger logging.Logger) *Analyzer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{
		sampleRate: sampleRate,
		logger: logger.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// SampleRate returns the sample rate the analyzer was built for
func (a *Analyzer) SampleRate() int {
	return a.sampleRate
}

// FFT computes the full-length complex transform of a real signal.
// The result length equals the input length; use the spectrum views below
// to reduce to positive-frequency bins. Empty input is an error: validation
// and silent-frame filtering should have prevented it from reaching here.
func (a *Analyzer) FFT(signal []float64) ([]complex128, error) {
	if len(signal) == 0 {
		return nil, audio.NewError(audio.ErrCodeFFT, "cannot compute FFT of empty signal", nil)
	}

	// go-dsp handles all sizes, including non-power-of-2
	return fft.FFTReal(signal), nil
}

// MagnitudeSpectrum reduces an FFT result to the complex modulus over the
// N/2+1 positive-frequency bins (DC and Nyquist inclusive).
func (a *Analyzer) MagnitudeSpectrum(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	nPositive := len(spectrum)/2 + 1
	mags := make([]float64, nPositive)
	for i := range nPositive {
		mags[i] = cmplx.Abs(spectrum[i])
	}
	return mags
}

// PowerSpectrum reduces an FFT result to the squared modulus over the
// N/2+1 positive-frequency bins.
func (a *Analyzer) PowerSpectrum(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	nPositive := len(spectrum)/2 + 1
	power := make([]float64, nPositive)
	for i := range nPositive {
		re := real(spectrum[i])
		im := imag(spectrum[i])
		power[i] = re*re + im*im
	}
	return power
}

// PhaseSpectrum reduces an FFT result to the complex argument in radians
// over the N/2+1 positive-frequency bins.
func (a *Analyzer) PhaseSpectrum(spectrum []complex128) []float64 {
	if len(spectrum) == 0 {
		return []float64{}
	}

	nPositive := len(spectrum)/2 + 1
	phases := make([]float64, nPositive)
	for i := range nPositive {
		phases[i] = cmplx.Phase(spectrum[i])
	}
	return phases
}

// FrequencyBins returns the center frequency in Hz for each of the N/2+1
// positive-frequency bins of an nSamples-point transform.
func (a *Analyzer) FrequencyBins(nSamples int) []float64 {
	if nSamples <= 0 {
		return []float64{}
	}

	nPositive := nSamples/2 + 1
	resolution := float64(a.sampleRate) / float64(nSamples)

	freqs := make([]float64, nPositive)
	for i := range nPositive {
		freqs[i] = float64(i) * resolution
	}
	return freqs
}

// SpectralCentroid computes the magnitude-weighted mean frequency in Hz.
// Returns 0.0 when total magnitude is below machine epsilon or either
// input is empty; a malformed frame must not abort a whole-clip analysis.
func (a *Analyzer) SpectralCentroid(magnitudes, freqs []float64) float64 {
	if len(magnitudes) == 0 || len(freqs) == 0 {
		return 0.0
	}

	minLen := min(len(magnitudes), len(freqs))

	weightedSum := 0.0
	totalMagnitude := 0.0
	for i := range minLen {
		weightedSum += magnitudes[i] * freqs[i]
		totalMagnitude += magnitudes[i]
	}

	if totalMagnitude < epsilon {
		return 0.0
	}

	return weightedSum / totalMagnitude
}

// SpectralBandwidth computes the magnitude-weighted standard deviation of
// frequency around the centroid, in Hz. Degrades to 0.0 like the centroid.
func (a *Analyzer) SpectralBandwidth(magnitudes, freqs []float64, centroid float64) float64 {
	if len(magnitudes) == 0 || len(freqs) == 0 {
		return 0.0
	}

	minLen := min(len(magnitudes), len(freqs))

	weightedVariance := 0.0
	totalMagnitude := 0.0
	for i := range minLen {
		diff := freqs[i] - centroid
		weightedVariance += magnitudes[i] * diff * diff
		totalMagnitude += magnitudes[i]
	}

	if totalMagnitude < epsilon {
		return 0.0
	}

	return math.Sqrt(weightedVariance / totalMagnitude)
}

// SpectralRolloff returns the smallest bin index at which the cumulative
// magnitude sum reaches the given fraction (clamped to [0,1]) of the total.
// Returns the last index when the target is never reached, 0 for empty input.
func (a *Analyzer) SpectralRolloff(magnitudes []float64, fraction float64) int {
	if len(magnitudes) == 0 {
		return 0
	}

	total := 0.0
	for _, m := range magnitudes {
		total += m
	}
	target := total * math.Min(math.Max(fraction, 0.0), 1.0)

	cumulative := 0.0
	for i, m := range magnitudes {
		cumulative += m
		if cumulative >= target {
			return i
		}
	}

	return len(magnitudes) - 1
}

// SpectralFlux computes the Euclidean distance between two magnitude
// spectra over their shared bin range. A measure of spectral change rate.
func (a *Analyzer) SpectralFlux(prev, curr []float64) float64 {
	minLen := min(len(prev), len(curr))

	sum := 0.0
	for i := range minLen {
		diff := curr[i] - prev[i]
		sum += diff * diff
	}

	return math.Sqrt(sum)
}
