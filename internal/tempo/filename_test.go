package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		stem string
		want float64
		ok   bool
	}{
		{"amen_170", 170, true},
		{"break_140bpm", 140, true},
		{"break-140bpm", 140, true},
		{"think_120_BPM", 120, true},
		{"funky_90-bpm", 90, true},
		{"drum_loop_140BPM", 140, true},
		{"groove 128 bpm", 128, true},
		{"164_HT_Drums", 164, true},
		{"120-break", 120, true},
		{"break-140", 140, true},
		{"amen_170_chopped", 170, true},
		{"loop 175", 175, true},
		{"track_01", 0, false},
		{"sample_500", 0, false},
		{"amen", 0, false},
		{"amen170", 0, false},
		{"edge_90", 90, true},
		{"edge_180", 180, true},
		{"edge_89", 0, false},
		{"edge_181", 0, false},
		{"fullwidth_１６０", 160, true},
	}
	for _, tt := range tests {
		t.Run(tt.stem, func(t *testing.T) {
			got, ok := ParseFilename(tt.stem)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFilenameOnlyFirstMatchPerPattern(t *testing.T) {
	// The bpm-token pattern matches 200bpm first and is rejected; later
	// patterns still get a chance.
	got, ok := ParseFilename("loop_200bpm_from_150")
	assert.True(t, ok)
	assert.Equal(t, 150.0, got)

	// Only the leftmost trailing-number match is considered.
	_, ok = ParseFilename("loop_050_170")
	assert.False(t, ok)
}

func TestFilenameCandidateUsesStem(t *testing.T) {
	c, ok := FilenameCandidate("/loops/amen_170.wav")
	assert.True(t, ok)
	assert.Equal(t, Candidate{BPM: 170, Source: SourceFilename}, c)

	_, ok = FilenameCandidate("/loops/170/break.flac")
	assert.False(t, ok)
}
