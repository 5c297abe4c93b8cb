package stretch

import (
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Only the first pattern that matches is removed.
var tempoMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[ _-]?\d{2,3}[ _-]?bpm$`),
	regexp.MustCompile(`[_-]\d{2,3}$`),
}

// Plan describes one stretch of one asset to one target tempo.
type Plan struct {
	SourceBPM float64
	TargetBPM float64
	// Ratio is a playback-rate multiplier: above 1 plays faster.
	Ratio  float64
	Output string
}

// Identity reports whether the plan needs no DSP at all.
func (p Plan) Identity() bool {
	return p.Ratio == 1.0
}

// Ratio returns target/source. Callers guarantee both are positive.
func Ratio(sourceBPM, targetBPM float64) float64 {
	return targetBPM / sourceBPM
}

// StripTempoMarker removes a trailing "140bpm", "_140 BPM" or "-140" style
// suffix so repeated runs do not pile up tempo tags. A stem that would become
// empty is returned unchanged.
func StripTempoMarker(stem string) string {
	for _, re := range tempoMarkers {
		loc := re.FindStringIndex(stem)
		if loc == nil {
			continue
		}
		if stripped := stem[:loc[0]]; stripped != "" {
			return stripped
		}
		return stem
	}
	return stem
}

// OutputPath returns root/<stem>/<stripped stem>_<int target><ext>. The
// target is truncated, so 120.2 and 120.8 share a path.
func OutputPath(root, inputPath string, targetBPM float64) string {
	name := filepath.Base(inputPath)
	ext := filepath.Ext(name)
	stem := norm.NFC.String(strings.TrimSuffix(name, ext))
	file := fmt.Sprintf("%s_%d%s", StripTempoMarker(stem), int64(math.Trunc(targetBPM)), ext)
	return filepath.Join(root, stem, file)
}

// NewPlan validates both tempos and derives the ratio and output path.
func NewPlan(root, inputPath string, sourceBPM, targetBPM float64) (Plan, error) {
	if !(sourceBPM > 0) || math.IsInf(sourceBPM, 0) {
		return Plan{}, fmt.Errorf("source BPM must be positive (got %v)", sourceBPM)
	}
	if !(targetBPM > 0) || math.IsInf(targetBPM, 0) {
		return Plan{}, fmt.Errorf("target BPM must be positive (got %v)", targetBPM)
	}
	return Plan{
		SourceBPM: sourceBPM,
		TargetBPM: targetBPM,
		Ratio:     Ratio(sourceBPM, targetBPM),
		Output:    OutputPath(root, inputPath, targetBPM),
	}, nil
}
