package beat

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// compressionGain scales magnitudes before log compression so quiet
// transients still register in the flux.
const compressionGain = 100.0

// OnsetEnvelope returns one spectral-flux value per analysis hop. Only
// increases in log magnitude contribute, so decays do not read as onsets.
func (t *Tracker) OnsetEnvelope(samples []float64) []float64 {
	if len(samples) < t.frameSize {
		return nil
	}
	win := window.Generate(window.TypeHann, t.frameSize, window.WithPeriodic())
	fft := fourier.NewFFT(t.frameSize)

	numFrames := 1 + (len(samples)-t.frameSize)/t.hopSize
	numBins := t.frameSize/2 + 1

	env := make([]float64, numFrames)
	frame := make([]float64, t.frameSize)
	coeffs := make([]complex128, numBins)
	prev := make([]float64, numBins)

	for i := 0; i < numFrames; i++ {
		start := i * t.hopSize
		for j := range frame {
			frame[j] = samples[start+j] * win[j]
		}
		coeffs = fft.Coefficients(coeffs, frame)

		var flux float64
		for k, c := range coeffs {
			mag := math.Log1p(compressionGain * cmplx.Abs(c))
			if i > 0 {
				if d := mag - prev[k]; d > 0 {
					flux += d
				}
			}
			prev[k] = mag
		}
		env[i] = flux
	}
	return env
}
