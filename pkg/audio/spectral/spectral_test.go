package spectral

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
)

func sineWave(n int, cycles float64) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2.0 * math.Pi * cycles * float64(i) / float64(n))
	}
	return signal
}

func TestFFT(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	signal := sineWave(64, 4)
	result, err := analyzer.FFT(signal)
	require.NoError(t, err)
	assert.Len(t, result, 64, "transform length equals input length")
}

func TestFFTEmpty(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	_, err := analyzer.FFT(nil)
	require.Error(t, err)

	var audioErr *audio.Error
	require.True(t, errors.As(err, &audioErr))
	assert.Equal(t, audio.ErrCodeFFT, audioErr.Code)
	assert.False(t, audioErr.IsUserError())
}

func TestFFTNonPowerOfTwo(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	result, err := analyzer.FFT(sineWave(100, 3))
	require.NoError(t, err)
	assert.Len(t, result, 100)
}

func TestMagnitudeSpectrum(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	spectrum := []complex128{
		complex(1.0, 0.0),
		complex(0.0, 1.0),
		complex(0.5, 0.5),
		complex(0.0, 0.0),
	}

	mags := analyzer.MagnitudeSpectrum(spectrum)
	require.Len(t, mags, 3, "N/2 + 1 bins")
	assert.InDelta(t, 1.0, mags[0], 1e-10)
	assert.InDelta(t, 1.0, mags[1], 1e-10)
	assert.InDelta(t, math.Sqrt(0.5), mags[2], 1e-10)

	assert.Empty(t, analyzer.MagnitudeSpectrum(nil))
}

func TestPowerSpectrum(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	spectrum := []complex128{
		complex(3.0, 4.0),
		complex(0.0, 2.0),
		complex(1.0, 0.0),
		complex(0.0, 0.0),
	}

	power := analyzer.PowerSpectrum(spectrum)
	require.Len(t, power, 3)
	assert.InDelta(t, 25.0, power[0], 1e-10)
	assert.InDelta(t, 4.0, power[1], 1e-10)
	assert.InDelta(t, 1.0, power[2], 1e-10)
}

func TestPhaseSpectrumRange(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	fftResult, err := analyzer.FFT(sineWave(128, 5))
	require.NoError(t, err)

	phases := analyzer.PhaseSpectrum(fftResult)
	require.Len(t, phases, 65)
	for _, p := range phases {
		assert.GreaterOrEqual(t, p, -math.Pi)
		assert.LessOrEqual(t, p, math.Pi)
	}
}

func TestFrequencyBins(t *testing.T) {
	analyzer := NewAnalyzer(10000)

	bins := analyzer.FrequencyBins(100)
	require.Len(t, bins, 51, "N/2 + 1 bins")
	assert.Equal(t, 0.0, bins[0])
	assert.InDelta(t, 100.0, bins[1], 1e-10, "10000/100 = 100 Hz resolution")
	assert.InDelta(t, 5000.0, bins[50], 1e-10, "Nyquist")

	assert.Empty(t, analyzer.FrequencyBins(0))
}

func TestSpectralCentroid(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	magnitudes := []float64{0.0, 1.0, 0.0, 0.0}
	freqs := []float64{0.0, 100.0, 200.0, 300.0}
	assert.Equal(t, 100.0, analyzer.SpectralCentroid(magnitudes, freqs))
}

func TestSpectralCentroidDegenerate(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	assert.Equal(t, 0.0, analyzer.SpectralCentroid(nil, nil))
	assert.Equal(t, 0.0, analyzer.SpectralCentroid([]float64{0, 0, 0}, []float64{0, 100, 200}),
		"zero total magnitude")
	// Mismatched lengths degrade to the shared range
	assert.Equal(t, 100.0, analyzer.SpectralCentroid([]float64{0, 1, 0, 0, 9}, []float64{0, 100, 200}))
}

func TestSpectralBandwidth(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	// Two equal peaks 100 Hz either side of the centroid
	magnitudes := []float64{0.0, 1.0, 0.0, 1.0}
	freqs := []float64{0.0, 100.0, 200.0, 300.0}
	centroid := analyzer.SpectralCentroid(magnitudes, freqs)
	assert.InDelta(t, 200.0, centroid, 1e-10)
	assert.InDelta(t, 100.0, analyzer.SpectralBandwidth(magnitudes, freqs, centroid), 1e-10)

	assert.Equal(t, 0.0, analyzer.SpectralBandwidth(nil, nil, 0))
}

func TestSpectralRolloff(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	magnitudes := []float64{0.1, 0.2, 0.3, 0.4} // cumulative 0.1, 0.3, 0.6, 1.0
	assert.Equal(t, 2, analyzer.SpectralRolloff(magnitudes, 0.6))
	assert.Equal(t, 3, analyzer.SpectralRolloff(magnitudes, 1.0))
	assert.Equal(t, 0, analyzer.SpectralRolloff(magnitudes, 0.0))
}

func TestSpectralRolloffClampsFraction(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	magnitudes := []float64{0.1, 0.2, 0.3, 0.4}
	assert.Equal(t, 3, analyzer.SpectralRolloff(magnitudes, 1.5))
	assert.Equal(t, 0, analyzer.SpectralRolloff(magnitudes, -1.0))
	assert.Equal(t, 0, analyzer.SpectralRolloff(nil, 0.85))
}

func TestSpectralFlux(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	assert.Equal(t, 0.0, analyzer.SpectralFlux([]float64{1, 2, 3}, []float64{1, 2, 3}))
	assert.InDelta(t, 5.0, analyzer.SpectralFlux([]float64{0, 0}, []float64{3, 4}), 1e-10)
	// Mismatched lengths compare the shared range only
	assert.InDelta(t, 1.0, analyzer.SpectralFlux([]float64{1, 1, 9}, []float64{1, 2}), 1e-10)
}

func TestSineToneSpectrum(t *testing.T) {
	analyzer := NewAnalyzer(16000)

	// 1 kHz tone: 32 cycles over 512 samples at 16 kHz
	fftResult, err := analyzer.FFT(sineWave(512, 32))
	require.NoError(t, err)

	mags := analyzer.MagnitudeSpectrum(fftResult)
	freqs := analyzer.FrequencyBins(512)

	peakBin := 0
	for i, m := range mags {
		if m > mags[peakBin] {
			peakBin = i
		}
	}
	assert.InDelta(t, 1000.0, freqs[peakBin], 1.0)

	centroid := analyzer.SpectralCentroid(mags, freqs)
	assert.InDelta(t, 1000.0, centroid, 50.0, "centroid of a pure tone is at the tone")
}
