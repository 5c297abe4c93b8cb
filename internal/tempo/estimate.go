package tempo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
)

const (
	// PlausibleMinBPM and PlausibleMaxBPM bound the selection window.
	PlausibleMinBPM = 80.0
	PlausibleMaxBPM = 200.0
	// TargetCenterBPM is the centre of the common breakbeat range.
	TargetCenterBPM = 160.0
	// FallbackBPM is returned when the tracker reports nothing at all.
	FallbackBPM = 120.0

	estimatesPerRun = 4
)

// DefaultPriors are the starting tempos handed to the tracker. Zero asks the
// tracker for its unbiased default.
var DefaultPriors = []float64{0, 140, 170}

// Tracker is the tempo-estimation primitive: given mono samples, the sample
// rate and a starting prior (0 for the tracker default), it returns tempo
// estimates ordered from most to least likely.
type Tracker interface {
	Tempo(samples []float64, sampleRate int, startBPM float64) ([]float64, error)
}

// Estimator turns tracker output into a single plausible BPM.
type Estimator struct {
	tracker Tracker
	priors  []float64
}

// NewEstimator builds an Estimator over tracker using DefaultPriors.
func NewEstimator(tracker Tracker) *Estimator {
	return &Estimator{tracker: tracker, priors: DefaultPriors}
}

// Estimate returns the selected tempo for samples.
func (e *Estimator) Estimate(samples []float64, sampleRate int) (float64, error) {
	candidates, err := e.Candidates(samples, sampleRate)
	if err != nil {
		return 0, err
	}
	return Select(candidates), nil
}

// Candidates runs the tracker once per prior, keeps the first few estimates of
// each run and returns the distinct values in ascending order.
func (e *Estimator) Candidates(samples []float64, sampleRate int) ([]float64, error) {
	if e == nil || e.tracker == nil {
		return nil, errors.New("tempo tracker not configured")
	}
	seen := make(map[float64]struct{})
	var out []float64
	for _, prior := range e.priors {
		estimates, err := e.tracker.Tempo(samples, sampleRate, prior)
		if err != nil {
			return nil, fmt.Errorf("tempo estimate (prior %s): %w", FormatBPM(prior), err)
		}
		if len(estimates) > estimatesPerRun {
			estimates = estimates[:estimatesPerRun]
		}
		for _, bpm := range estimates {
			if math.IsNaN(bpm) || math.IsInf(bpm, 0) {
				continue
			}
			if _, ok := seen[bpm]; ok {
				continue
			}
			seen[bpm] = struct{}{}
			out = append(out, bpm)
		}
	}
	slices.Sort(out)
	return out, nil
}

// Select applies the candidate heuristic to ascending, distinct raw
// estimates. Raw values inside the plausible window win over harmonic
// variants; ties on distance to the centre go to the lower tempo.
func Select(candidates []float64) float64 {
	direct := make([]float64, 0, len(candidates))
	for _, bpm := range candidates {
		if plausible(bpm) {
			direct = append(direct, bpm)
		}
	}
	if len(direct) > 0 {
		return closestToCenter(direct)
	}

	expanded := ExpandHarmonics(candidates)
	if len(expanded) == 0 {
		if len(candidates) > 0 {
			return candidates[0]
		}
		return FallbackBPM
	}
	return closestToCenter(expanded)
}

// ExpandHarmonics returns each candidate plus its double, 3:2, 4:3 and 2:3
// variants, restricted to the plausible window, distinct and ascending.
func ExpandHarmonics(candidates []float64) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	add := func(bpm float64) {
		if !plausible(bpm) {
			return
		}
		if _, ok := seen[bpm]; ok {
			return
		}
		seen[bpm] = struct{}{}
		out = append(out, bpm)
	}
	for _, bpm := range candidates {
		add(bpm)
		add(bpm * 2)
		add(bpm * 1.5)
		add(bpm * (4.0 / 3.0))
		add(bpm / 1.5)
	}
	slices.Sort(out)
	return out
}

func plausible(bpm float64) bool {
	return bpm >= PlausibleMinBPM && bpm <= PlausibleMaxBPM
}

func closestToCenter(values []float64) float64 {
	best := values[0]
	bestDist := math.Abs(best - TargetCenterBPM)
	for _, v := range values[1:] {
		if d := math.Abs(v - TargetCenterBPM); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// Loader decodes an audio file to mono samples.
type Loader func(path string) (samples []float64, sampleRate int, err error)

// AcousticDetector estimates the tempo of an audio file on disk.
type AcousticDetector struct {
	load      Loader
	estimator *Estimator
}

// NewAcousticDetector wires a decoder to an estimator.
func NewAcousticDetector(load Loader, estimator *Estimator) *AcousticDetector {
	return &AcousticDetector{load: load, estimator: estimator}
}

// DetectFile decodes path and returns its estimated tempo.
func (d *AcousticDetector) DetectFile(ctx context.Context, path string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	samples, rate, err := d.load(path)
	if err != nil {
		return 0, fmt.Errorf("decode audio: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return d.estimator.Estimate(samples, rate)
}
