package sensors

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
	"github.com/doronpers/sonotheia-enhanced/pkg/audio/spectral"
	"github.com/doronpers/sonotheia-enhanced/pkg/logging"
)

// DefaultPhaseThreshold is the default pass/fail threshold for the phase
// sensor.
const DefaultPhaseThreshold = 0.65

// Frame geometry at the 16 kHz reference rate: 32 ms frames, 8 ms hop.
const (
	phaseFrameSize = 512
	phaseHopSize   = 128
)

// minPhaseBins is the minimum shared bin count for a frame pair or triple
// to contribute to coherence statistics.
const minPhaseBins = 10

// minRandomnessBins is the minimum bin count for a frame to contribute to
// the high-frequency randomness statistic.
const minRandomnessBins = 20

// PhaseSensor detects synthetic audio through cross-frame phase-coherence
// analysis. TTS output tends toward unnaturally coherent phase tracks;
// spliced or heavily processed audio toward abrupt discontinuities. Natural
// speech sits between, with high-frequency phases close to uniformly
// distributed.
type PhaseSensor struct {
	name      string
	threshold float64
	logger    logging.Logger
}

// NewPhaseSensor creates a phase sensor. The default threshold is 0.65;
// use WithThreshold to override (clamped to [0,1]).
func NewPhaseSensor(opts ...Option) *PhaseSensor {
	threshold, logger := applyOptions(DefaultPhaseThreshold, SensorNamePhase, opts)
	return &PhaseSensor{
		name:      SensorNamePhase,
		threshold: threshold,
		logger:    logger,
	}
}

// Name returns the fixed sensor identifier
func (s *PhaseSensor) Name() string {
	return s.name
}

// Threshold returns the pass/fail threshold
func (s *PhaseSensor) Threshold() float64 {
	return s.threshold
}

// Analyze scores the clip for phase-coherence anomalies
func (s *PhaseSensor) Analyze(samples []float64, sampleRate int) *Result {
	if err := audio.Validate(samples, sampleRate); err != nil {
		return NewResult(s.name, boolPtr(false), 0.0, s.threshold,
			ReasonValidationError,
			fmt.Sprintf("input validation failed: %v", err))
	}

	score, frames := s.computePhaseCoherenceScore(samples, sampleRate)
	passed := score >= s.threshold

	var reason string
	var detail string
	if passed {
		detail = fmt.Sprintf("phase coherence analysis passed (score: %.2f)", score)
	} else {
		reason = ReasonPhaseAnomaly
		detail = fmt.Sprintf("abnormal phase patterns detected (score: %.2f)", score)
	}

	s.logger.Debug("phase analysis completed", logging.Fields{
		"score":         score,
		"passed":        passed,
		"total_frames":  frames.total,
		"voiced_frames": frames.voiced,
	})

	result := NewResult(s.name, boolPtr(passed), score, s.threshold, reason, detail)
	frames.annotate(result)
	return result
}

// computePhaseCoherenceScore extracts per-frame phase spectra and combines
// the three coherence sub-scores. Returns the neutral 0.5 when fewer than
// 2 voiced frames survive.
func (s *PhaseSensor) computePhaseCoherenceScore(samples []float64, sampleRate int) (float64, frameStats) {
	frameSize := scaleSamples(phaseFrameSize, sampleRate)
	hopSize := scaleSamples(phaseHopSize, sampleRate)

	frames := audio.Frame(samples, frameSize, hopSize)
	stats := frameStats{frameSize: frameSize, hopSize: hopSize, total: len(frames)}

	if len(frames) < 2 {
		return neutralScore, stats
	}

	analyzer := spectral.NewAnalyzer(sampleRate)

	phaseSpectra := make([][]float64, 0, len(frames))
	for _, frame := range frames {
		windowed := audio.ApplyHammingWindow(frame)

		if audio.RMS(windowed) < silenceRMS {
			continue
		}

		fftResult, err := analyzer.FFT(windowed)
		if err != nil {
			s.logger.Warn("skipping frame: FFT failed", logging.Fields{"error": err.Error()})
			continue
		}

		phaseSpectra = append(phaseSpectra, analyzer.PhaseSpectrum(fftResult))
	}

	stats.voiced = len(phaseSpectra)
	if len(phaseSpectra) < 2 {
		return neutralScore, stats
	}

	coherence := crossFrameCoherenceScore(phaseSpectra)
	derivative := phaseDerivativeScore(phaseSpectra)
	randomness := phaseRandomnessScore(phaseSpectra)

	combined := 0.4*coherence + 0.3*derivative + 0.3*randomness
	return clampUnit(combined), stats
}

// crossFrameCoherenceScore rates the variance of wrapped per-bin phase
// differences between adjacent frames. Mean variance below 0.3 is too
// coherent (synthetic), above 5.0 too random (manipulated); natural speech
// sits around 1-3.
func crossFrameCoherenceScore(phaseSpectra [][]float64) float64 {
	if len(phaseSpectra) < 2 {
		return neutralScore
	}

	variances := make([]float64, 0, len(phaseSpectra)-1)
	for i := 1; i < len(phaseSpectra); i++ {
		prev := phaseSpectra[i-1]
		curr := phaseSpectra[i]

		minLen := min(len(prev), len(curr))
		if minLen < minPhaseBins {
			continue
		}

		diffs := make([]float64, minLen)
		for j := range minLen {
			diffs[j] = wrapPhase(curr[j] - prev[j])
		}

		variances = append(variances, stat.PopVariance(diffs, nil))
	}

	if len(variances) == 0 {
		return neutralScore
	}

	meanVariance := stat.Mean(variances, nil)

	switch {
	case meanVariance < 0.3:
		return math.Min(meanVariance/0.3, 1.0) * 0.5
	case meanVariance > 5.0:
		return math.Min(5.0/meanVariance, 1.0) * 0.7
	default:
		return 1.0
	}
}

// phaseDerivativeScore rates the second difference of wrapped phase across
// frame triples. Mean acceleration below 0.1 is synthetic smoothness,
// above 2.0 discontinuity.
func phaseDerivativeScore(phaseSpectra [][]float64) float64 {
	if len(phaseSpectra) < 3 {
		return neutralScore
	}

	accelMeans := make([]float64, 0, len(phaseSpectra)-2)
	for i := 2; i < len(phaseSpectra); i++ {
		prev2 := phaseSpectra[i-2]
		prev1 := phaseSpectra[i-1]
		curr := phaseSpectra[i]

		minLen := min(len(prev2), len(prev1), len(curr))
		if minLen < minPhaseBins {
			continue
		}

		accelerations := make([]float64, minLen)
		for j := range minLen {
			d1 := wrapPhase(prev1[j] - prev2[j])
			d2 := wrapPhase(curr[j] - prev1[j])
			accelerations[j] = math.Abs(d2 - d1)
		}

		accelMeans = append(accelMeans, stat.Mean(accelerations, nil))
	}

	if len(accelMeans) == 0 {
		return neutralScore
	}

	meanAccel := stat.Mean(accelMeans, nil)

	switch {
	case meanAccel < 0.1:
		return math.Min(meanAccel/0.1, 1.0) * 0.5
	case meanAccel > 2.0:
		return math.Min(2.0/meanAccel, 1.0) * 0.6
	default:
		return 1.0
	}
}

// phaseRandomnessScore checks that high-frequency phases are close to
// uniformly distributed. Per frame the upper third of bins is normalized to
// [0,1]; the mean's deviation from 0.5 measures clustering. Clustered
// phases (mean deviation above 0.3) read as synthetic.
func phaseRandomnessScore(phaseSpectra [][]float64) float64 {
	if len(phaseSpectra) == 0 {
		return neutralScore
	}

	deviations := make([]float64, 0, len(phaseSpectra))
	for _, phases := range phaseSpectra {
		if len(phases) < minRandomnessBins {
			continue
		}

		highFreqStart := len(phases) * 2 / 3
		highFreq := phases[highFreqStart:]

		normalized := make([]float64, len(highFreq))
		for i, p := range highFreq {
			normalized[i] = (wrapPhase(p) + math.Pi) / (2.0 * math.Pi)
		}

		deviations = append(deviations, math.Abs(stat.Mean(normalized, nil)-0.5))
	}

	if len(deviations) == 0 {
		return neutralScore
	}

	meanDeviation := stat.Mean(deviations, nil)
	if meanDeviation > 0.3 {
		return math.Min(0.3/meanDeviation, 1.0) * 0.7
	}
	return 1.0
}

// wrapPhase wraps a phase value into [-pi, pi]. Note that an exact odd
// multiple of pi wraps downward to pi, not to -pi.
func wrapPhase(phase float64) float64 {
	twoPi := 2.0 * math.Pi
	wrapped := math.Mod(phase, twoPi)
	if wrapped > math.Pi {
		wrapped -= twoPi
	} else if wrapped < -math.Pi {
		wrapped += twoPi
	}
	return wrapped
}
