package stretch

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio(120, 120))
	assert.Equal(t, 0.5, Ratio(170, 85))
	assert.Equal(t, 2.0, Ratio(85, 170))
	assert.Equal(t, 140.0/170.0, Ratio(170, 140))
}

func TestStripTempoMarker(t *testing.T) {
	cases := map[string]string{
		"amen_170":        "amen",
		"amen-170":        "amen",
		"break_140bpm":    "break",
		"break 140 BPM":   "break",
		"break-140_bpm":   "break",
		"think140bpm":     "think",
		"funky_drummer":   "funky_drummer",
		"loop_1":          "loop_1",
		"loop_01":         "loop",
		"loop_1000":       "loop_1000",
		"170bpm":          "170bpm",
		"_170":            "_170",
		"amen_170_140bpm": "amen_170",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripTempoMarker(in), in)
	}
}

func TestOutputPath(t *testing.T) {
	root := filepath.FromSlash("/out")
	assert.Equal(t, filepath.FromSlash("/out/amen_170/amen_120.wav"), OutputPath(root, "amen_170.wav", 120))
	assert.Equal(t, filepath.FromSlash("/out/amen_170/amen_120.wav"), OutputPath(root, "/in/amen_170.wav", 120.5))
	assert.Equal(t, filepath.FromSlash("/out/Think/Think_95.FLAC"), OutputPath(root, "Think.FLAC", 95.99))
	assert.Equal(t, filepath.FromSlash("/out/break_140bpm/break_160.flac"), OutputPath(root, "break_140bpm.flac", 160))
}

func TestOutputPathCollidesOnTruncation(t *testing.T) {
	assert.Equal(t, OutputPath("/out", "amen.wav", 120.2), OutputPath("/out", "amen.wav", 120.8))
}

func TestNewPlan(t *testing.T) {
	plan, err := NewPlan("/out", "amen_170.wav", 170, 85)
	require.NoError(t, err)
	assert.Equal(t, 0.5, plan.Ratio)
	assert.False(t, plan.Identity())
	assert.Equal(t, filepath.Join("/out", "amen_170", "amen_85.wav"), plan.Output)

	plan, err = NewPlan("/out", "amen_170.wav", 170, 170)
	require.NoError(t, err)
	assert.True(t, plan.Identity())

	_, err = NewPlan("/out", "amen.wav", 0, 120)
	require.Error(t, err)
	_, err = NewPlan("/out", "amen.wav", 120, -1)
	require.Error(t, err)
}
