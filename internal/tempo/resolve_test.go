package tempo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakstretch/internal/services"
)

type fakeDetector struct {
	bpm   float64
	err   error
	calls int
}

func (f *fakeDetector) DetectFile(context.Context, string) (float64, error) {
	f.calls++
	return f.bpm, f.err
}

type lineSink struct {
	lines []string
}

func (s *lineSink) Report(line string) {
	s.lines = append(s.lines, line)
}

func TestResolveManualAlwaysWins(t *testing.T) {
	det := &fakeDetector{bpm: 100}
	sink := &lineSink{}
	r := NewResolver(det)

	res, err := r.Resolve(context.Background(), Request{Path: "/loops/amen_170.wav", Manual: 150, Warn: true}, sink)
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.BPM)
	assert.Equal(t, SourceManual, res.Source)
	assert.Zero(t, det.calls)
	assert.Empty(t, sink.lines)
}

func TestResolveFilenameSkipsDetectionWithoutWarn(t *testing.T) {
	det := &fakeDetector{bpm: 100}
	r := NewResolver(det)

	res, err := r.Resolve(context.Background(), Request{Path: "/loops/amen_170.wav"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 170.0, res.BPM)
	assert.Equal(t, SourceFilename, res.Source)
	assert.Zero(t, det.calls)
}

func TestResolveFallsBackToAcoustic(t *testing.T) {
	det := &fakeDetector{bpm: 172.3}
	r := NewResolver(det)

	res, err := r.Resolve(context.Background(), Request{Path: "/loops/think.wav"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 172.3, res.BPM)
	assert.Equal(t, SourceAcoustic, res.Source)
	assert.Nil(t, res.Filename)
	assert.Equal(t, 1, det.calls)
}

func TestResolveDetectionFailure(t *testing.T) {
	boom := errors.New("decode failed")
	r := NewResolver(&fakeDetector{err: boom})

	_, err := r.Resolve(context.Background(), Request{Path: "/loops/think.wav"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrDetection)
	assert.ErrorIs(t, err, boom)
	var detErr *DetectionError
	require.ErrorAs(t, err, &detErr)
	assert.Equal(t, "/loops/think.wav", detErr.Path)
	assert.Equal(t, "could not determine BPM for /loops/think.wav: decode failed", err.Error())
}

func TestResolveWithoutDetector(t *testing.T) {
	_, err := NewResolver(nil).Resolve(context.Background(), Request{Path: "think.wav"}, nil)
	assert.ErrorIs(t, err, services.ErrDetection)
}

func TestResolveWarnsOnMismatch(t *testing.T) {
	sink := &lineSink{}
	r := NewResolver(&fakeDetector{bpm: 120})

	res, err := r.Resolve(context.Background(), Request{Path: "amen_170.wav", Warn: true}, sink)
	require.NoError(t, err)
	assert.Equal(t, 170.0, res.BPM)
	assert.True(t, res.Mismatch)
	require.NotNil(t, res.Acoustic)
	assert.Equal(t, 120.0, res.Acoustic.BPM)
	assert.Equal(t, []string{"Filename suggests 170 BPM, but detected 120.0 BPM"}, sink.lines)
}

func TestResolveAcceptsHalfTime(t *testing.T) {
	sink := &lineSink{}
	r := NewResolver(&fakeDetector{bpm: 85.4})

	res, err := r.Resolve(context.Background(), Request{Path: "amen_170.wav", Warn: true}, sink)
	require.NoError(t, err)
	assert.False(t, res.Mismatch)
	assert.Empty(t, sink.lines)
}

func TestResolveToleranceOption(t *testing.T) {
	sink := &lineSink{}
	r := NewResolver(&fakeDetector{bpm: 172}, WithTolerance(1))

	_, err := r.Resolve(context.Background(), Request{Path: "amen_170.wav", Warn: true}, sink)
	require.NoError(t, err)
	assert.Len(t, sink.lines, 1)
}

func TestResolveWarnIgnoresDetectionFailureWithFilename(t *testing.T) {
	boom := errors.New("too short")
	sink := &lineSink{}
	r := NewResolver(&fakeDetector{err: boom})

	res, err := r.Resolve(context.Background(), Request{Path: "amen_170.wav", Warn: true}, sink)
	require.NoError(t, err)
	assert.Equal(t, 170.0, res.BPM)
	assert.ErrorIs(t, res.AcousticErr, boom)
	assert.Empty(t, sink.lines)
}
