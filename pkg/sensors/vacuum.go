package sensors

import (
	"fmt"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/doronpers/sonotheia-enhanced/pkg/audio"
	"github.com/doronpers/sonotheia-enhanced/pkg/audio/spectral"
	"github.com/doronpers/sonotheia-enhanced/pkg/logging"
)

// DefaultVacuumThreshold is the default pass/fail threshold for the vacuum
// sensor.
const DefaultVacuumThreshold = 0.7

// Frame geometry at the 16 kHz reference rate: 25 ms frames, 10 ms hop.
const (
	vacuumFrameSize = 400
	vacuumHopSize   = 160
)

// Stability bounds: sample standard deviations outside these ranges are
// suspicious (too static below, too erratic above).
const (
	vacuumCentroidMinStd  = 50.0  // Hz
	vacuumCentroidMaxStd  = 500.0 // Hz
	vacuumBandwidthMinStd = 20.0  // Hz
	vacuumBandwidthMaxStd = 200.0 // Hz
	vacuumEnergyMinStd    = 0.01
	vacuumEnergyMaxStd    = 0.5
	vacuumMaxCentroidJump = 200.0 // Hz, mean frame-to-frame delta
)

// VacuumSensor detects synthetic audio through source-filter-model
// analysis of the spectral envelope. Natural speech shows bounded variation
// in centroid, bandwidth, and energy across frames; synthetic speech tends
// to be either unnaturally static or unnaturally erratic.
type VacuumSensor struct {
	name      string
	threshold float64
	logger    logging.Logger
}

// NewVacuumSensor creates a vacuum sensor. The default threshold is 0.7;
// use WithThreshold to override (clamped to [0,1]).
func NewVacuumSensor(opts ...Option) *VacuumSensor {
	threshold, logger := applyOptions(DefaultVacuumThreshold, SensorNameVacuum, opts)
	return &VacuumSensor{
		name:      SensorNameVacuum,
		threshold: threshold,
		logger:    logger,
	}
}

// Name returns the fixed sensor identifier
func (s *VacuumSensor) Name() string {
	return s.name
}

// Threshold returns the pass/fail threshold
func (s *VacuumSensor) Threshold() float64 {
	return s.threshold
}

// Analyze scores the clip for source-filter-model anomalies
func (s *VacuumSensor) Analyze(samples []float64, sampleRate int) *Result {
	if err := audio.Validate(samples, sampleRate); err != nil {
		return NewResult(s.name, boolPtr(false), 0.0, s.threshold,
			ReasonValidationError,
			fmt.Sprintf("input validation failed: %v", err))
	}

	score, frames := s.computeSFMScore(samples, sampleRate)
	passed := score >= s.threshold

	var reason string
	var detail string
	if passed {
		detail = fmt.Sprintf("source-filter model analysis passed (score: %.2f)", score)
	} else {
		reason = ReasonSFMAnomaly
		detail = fmt.Sprintf("potential synthetic audio detected (score: %.2f)", score)
	}

	s.logger.Debug("vacuum analysis completed", logging.Fields{
		"score":         score,
		"passed":        passed,
		"total_frames":  frames.total,
		"voiced_frames": frames.voiced,
	})

	result := NewResult(s.name, boolPtr(passed), score, s.threshold, reason, detail)
	frames.annotate(result)
	return result
}

// computeSFMScore frames the clip, extracts centroid/bandwidth/energy per
// voiced frame, and scores the aggregate pattern. Returns the neutral 0.5
// when fewer than 3 voiced frames survive.
func (s *VacuumSensor) computeSFMScore(samples []float64, sampleRate int) (float64, frameStats) {
	frameSize := scaleSamples(vacuumFrameSize, sampleRate)
	hopSize := scaleSamples(vacuumHopSize, sampleRate)

	frames := audio.Frame(samples, frameSize, hopSize)
	stats := frameStats{frameSize: frameSize, hopSize: hopSize, total: len(frames)}

	if len(frames) == 0 {
		return neutralScore, stats
	}

	analyzer := spectral.NewAnalyzer(sampleRate)

	// Bin frequencies are identical for every frame of the same size
	freqResolution := float64(sampleRate) / float64(frameSize)

	centroids := make([]float64, 0, len(frames))
	bandwidths := make([]float64, 0, len(frames))
	energies := make([]float64, 0, len(frames))

	for _, frame := range frames {
		windowed := audio.ApplyHammingWindow(frame)

		rms := audio.RMS(windowed)
		if rms < silenceRMS {
			continue
		}

		fftResult, err := analyzer.FFT(windowed)
		if err != nil {
			// Unreachable for voiced frames; skip rather than abort the clip
			s.logger.Warn("skipping frame: FFT failed", logging.Fields{"error": err.Error()})
			continue
		}

		magnitudes := analyzer.MagnitudeSpectrum(fftResult)
		freqs := make([]float64, len(magnitudes))
		for i := range freqs {
			freqs[i] = float64(i) * freqResolution
		}

		centroid := analyzer.SpectralCentroid(magnitudes, freqs)
		bandwidth := analyzer.SpectralBandwidth(magnitudes, freqs, centroid)

		centroids = append(centroids, centroid)
		bandwidths = append(bandwidths, bandwidth)
		energies = append(energies, rms)
	}

	stats.voiced = len(centroids)
	if len(centroids) < 3 {
		return neutralScore, stats
	}

	centroidScore := stabilityScore(centroids, vacuumCentroidMinStd, vacuumCentroidMaxStd)
	bandwidthScore := stabilityScore(bandwidths, vacuumBandwidthMinStd, vacuumBandwidthMaxStd)
	energyScore := stabilityScore(energies, vacuumEnergyMinStd, vacuumEnergyMaxStd)
	smoothness := smoothnessScore(centroids)

	combined := 0.25*centroidScore + 0.25*bandwidthScore + 0.25*energyScore + 0.25*smoothness
	return clampUnit(combined), stats
}

// stabilityScore rates whether the sample standard deviation of a feature
// track falls in its expected range. Too little variation reads as
// synthetic flatness, too much as anomalous.
func stabilityScore(values []float64, minStd, maxStd float64) float64 {
	if len(values) < 2 {
		return neutralScore
	}

	stdDev := stat.StdDev(values, nil)

	switch {
	case stdDev < minStd:
		return math.Min(stdDev/minStd, 1.0)
	case stdDev > maxStd:
		return math.Min(maxStd/stdDev, 1.0)
	default:
		return 1.0
	}
}

// smoothnessScore rates frame-to-frame centroid transitions. Abrupt mean
// jumps above 200 Hz suggest splicing or synthesis artifacts.
func smoothnessScore(centroids []float64) float64 {
	if len(centroids) < 2 {
		return neutralScore
	}

	diffs := make([]float64, 0, len(centroids)-1)
	for i := 1; i < len(centroids); i++ {
		diffs = append(diffs, math.Abs(centroids[i]-centroids[i-1]))
	}

	meanDiff := stat.Mean(diffs, nil)
	if meanDiff > vacuumMaxCentroidJump {
		return math.Min(vacuumMaxCentroidJump/meanDiff, 1.0)
	}
	return 1.0
}

// frameStats carries frame geometry and counts from score computation into
// result metadata.
type frameStats struct {
	frameSize int
	hopSize   int
	total     int
	voiced    int
}

func (f frameStats) annotate(r *Result) {
	r.AddMetadata("frame_size", strconv.Itoa(f.frameSize))
	r.AddMetadata("hop_size", strconv.Itoa(f.hopSize))
	r.AddMetadata("total_frames", strconv.Itoa(f.total))
	r.AddMetadata("voiced_frames", strconv.Itoa(f.voiced))
}
