package testsupport

import (
	"math"
	"testing"

	"breakstretch/internal/audio"
)

// ClickTrack renders decaying clicks at bpm. Each click is a short
// 1 kHz burst so onset detectors see a sharp broadband edge.
func ClickTrack(bpm, seconds float64, sampleRate int) []float64 {
	n := int(seconds * float64(sampleRate))
	out := make([]float64, n)
	period := 60 / bpm * float64(sampleRate)
	clickLen := sampleRate / 100
	for beat := 0.0; ; beat++ {
		start := int(math.Round(beat * period))
		if start >= n {
			break
		}
		for i := 0; i < clickLen && start+i < n; i++ {
			decay := math.Exp(-float64(i) / float64(clickLen) * 5)
			out[start+i] = 0.8 * decay * math.Sin(2*math.Pi*1000*float64(i)/float64(sampleRate))
		}
	}
	return out
}

// WriteClickTrack writes a mono 16-bit click track to path. The container
// follows the extension.
func WriteClickTrack(t testing.TB, path string, bpm, seconds float64, sampleRate int) {
	t.Helper()
	buf := &audio.Buffer{
		SampleRate: sampleRate,
		BitDepth:   16,
		Channels:   [][]float64{ClickTrack(bpm, seconds, sampleRate)},
	}
	if err := audio.Write(path, buf, 16); err != nil {
		t.Fatalf("write click track %s: %v", path, err)
	}
}
