package tempo

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// FilenameMinBPM and FilenameMaxBPM bound the tempos trusted from names.
	FilenameMinBPM = 90
	FilenameMaxBPM = 180
)

// Patterns are tried in order; only the leftmost match of each is considered.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d{2,3})[\s_-]?bpm`),
	regexp.MustCompile(`^(\d{2,3})[\s_-]`),
	regexp.MustCompile(`[\s_-](\d{2,3})(?:[\s_-]|$)`),
}

// ParseFilename extracts a BPM from a base name without extension. The second
// return value is false when the name carries no plausible tempo.
func ParseFilename(stem string) (float64, bool) {
	stem = norm.NFKC.String(stem)
	for _, pattern := range filenamePatterns {
		match := pattern.FindStringSubmatch(stem)
		if match == nil {
			continue
		}
		bpm, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		if bpm >= FilenameMinBPM && bpm <= FilenameMaxBPM {
			return bpm, true
		}
	}
	return 0, false
}

// FilenameCandidate parses the tempo embedded in path's base name.
func FilenameCandidate(path string) (Candidate, bool) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	bpm, ok := ParseFilename(stem)
	if !ok {
		return Candidate{}, false
	}
	return Candidate{BPM: bpm, Source: SourceFilename}, true
}
