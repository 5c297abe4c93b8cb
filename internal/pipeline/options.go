package pipeline

import (
	"fmt"
	"math"
	"strings"

	"breakstretch/internal/convert"
	"breakstretch/internal/services"
	"breakstretch/internal/services/rubberband"
)

// Options is the per-run processing bundle. It is passed by value so every
// asset in a batch sees the same settings.
type Options struct {
	OutputDir string
	// ManualBPM overrides tempo resolution when positive.
	ManualBPM    float64
	WarnMismatch bool
	Crispness    int
	SampleRate   int
	BitDepth     int
	Mono         bool
}

// DefaultOptions returns options with the default output root and crispness.
func DefaultOptions() Options {
	return Options{
		OutputDir: "./output",
		Crispness: rubberband.DefaultCrispness,
	}
}

// Conversion extracts the post-stretch conversion settings.
func (o Options) Conversion() convert.Options {
	return convert.Options{SampleRate: o.SampleRate, BitDepth: o.BitDepth, Mono: o.Mono}
}

// Validate rejects out-of-range values before any file is touched.
func (o Options) Validate() error {
	if strings.TrimSpace(o.OutputDir) == "" {
		return optionError("output directory must be set")
	}
	if o.ManualBPM < 0 || math.IsNaN(o.ManualBPM) || math.IsInf(o.ManualBPM, 0) {
		return optionError(fmt.Sprintf("source BPM must be positive (got %v)", o.ManualBPM))
	}
	if o.Crispness < rubberband.MinCrispness || o.Crispness > rubberband.MaxCrispness {
		return optionError(fmt.Sprintf("crispness must be between %d and %d (got %d)",
			rubberband.MinCrispness, rubberband.MaxCrispness, o.Crispness))
	}
	if o.SampleRate < 0 {
		return optionError(fmt.Sprintf("sample rate must be positive (got %d)", o.SampleRate))
	}
	switch o.BitDepth {
	case 0, 16, 24:
	default:
		return optionError(fmt.Sprintf("bit depth must be 16 or 24 (got %d)", o.BitDepth))
	}
	return nil
}

func optionError(msg string) error {
	return services.Wrap(services.ErrConfiguration, "", "", msg, nil)
}
