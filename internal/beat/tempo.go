package beat

import (
	"errors"
	"math"
	"sort"
)

const (
	defaultFrameSize    = 2048
	defaultHopSize      = 512
	defaultStartBPM     = 120.0
	defaultPriorOctaves = 1.0
	defaultMinBPM       = 30.0
	defaultMaxBPM       = 320.0
	defaultMaxEstimates = 8
)

var (
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
	ErrSignalTooShort    = errors.New("signal too short for tempo analysis")
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithFrameSize sets the STFT window length in samples.
func WithFrameSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.frameSize = n
		}
	}
}

// WithHopSize sets the distance between analysis frames in samples.
func WithHopSize(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.hopSize = n
		}
	}
}

// WithMaxEstimates limits how many tempos Tempo returns.
func WithMaxEstimates(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.maxEstimates = n
		}
	}
}

// Tracker estimates tempo from onset periodicity.
type Tracker struct {
	frameSize    int
	hopSize      int
	minBPM       float64
	maxBPM       float64
	priorOctaves float64
	maxEstimates int
}

// NewTracker constructs a Tracker with defaults suited to 44.1/48 kHz audio.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		frameSize:    defaultFrameSize,
		hopSize:      defaultHopSize,
		minBPM:       defaultMinBPM,
		maxBPM:       defaultMaxBPM,
		priorOctaves: defaultPriorOctaves,
		maxEstimates: defaultMaxEstimates,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type peak struct {
	bpm   float64
	score float64
}

// Tempo returns tempo estimates for samples, strongest first. startBPM biases
// the estimate; zero or negative selects the default of 120 BPM. A silent or
// aperiodic signal yields no estimates and no error.
func (t *Tracker) Tempo(samples []float64, sampleRate int, startBPM float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}
	if startBPM <= 0 {
		startBPM = defaultStartBPM
	}
	if len(samples) < 2*t.frameSize {
		return nil, ErrSignalTooShort
	}

	env := t.OnsetEnvelope(samples)
	frameRate := float64(sampleRate) / float64(t.hopSize)

	minLag := max(1, int(math.Floor(60*frameRate/t.maxBPM)))
	maxLag := int(math.Ceil(60 * frameRate / t.minBPM))
	if maxLag > len(env)-2 {
		maxLag = len(env) - 2
	}
	if maxLag-minLag < 2 {
		return nil, ErrSignalTooShort
	}

	ac := autocorrelate(env, maxLag+1)
	if ac[0] <= 0 {
		return nil, nil
	}

	score := make([]float64, maxLag+2)
	for lag := minLag; lag <= maxLag+1; lag++ {
		bpm := 60 * frameRate / float64(lag)
		score[lag] = ac[lag] / ac[0] * t.prior(bpm, startBPM)
	}

	var peaks []peak
	for lag := minLag + 1; lag <= maxLag; lag++ {
		s := score[lag]
		if s <= 0 || s <= score[lag-1] || s < score[lag+1] {
			continue
		}
		refined := float64(lag) + parabolicOffset(score[lag-1], s, score[lag+1])
		peaks = append(peaks, peak{bpm: 60 * frameRate / refined, score: s})
	}

	sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].score > peaks[j].score })
	if len(peaks) > t.maxEstimates {
		peaks = peaks[:t.maxEstimates]
	}
	out := make([]float64, len(peaks))
	for i, p := range peaks {
		out[i] = p.bpm
	}
	return out, nil
}

// prior is a log-normal weight centred on start with a width in octaves.
func (t *Tracker) prior(bpm, start float64) float64 {
	z := math.Log2(bpm/start) / t.priorOctaves
	return math.Exp(-0.5 * z * z)
}

// autocorrelate returns the unbiased autocorrelation of the mean-removed
// envelope for lags 0..maxLag.
func autocorrelate(env []float64, maxLag int) []float64 {
	var mean float64
	for _, v := range env {
		mean += v
	}
	mean /= float64(len(env))

	centred := make([]float64, len(env))
	for i, v := range env {
		centred[i] = v - mean
	}

	ac := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag && lag < len(centred); lag++ {
		var sum float64
		for i := 0; i+lag < len(centred); i++ {
			sum += centred[i] * centred[i+lag]
		}
		ac[lag] = sum / float64(len(centred)-lag)
	}
	return ac
}

// parabolicOffset returns the sub-sample position of a peak given its value
// and its two neighbours, in the range [-0.5, 0.5].
func parabolicOffset(left, centre, right float64) float64 {
	denom := left - 2*centre + right
	if denom == 0 {
		return 0
	}
	offset := 0.5 * (left - right) / denom
	return math.Max(-0.5, math.Min(0.5, offset))
}
