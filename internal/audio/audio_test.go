package audio_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breakstretch/internal/audio"
	"breakstretch/internal/services"
)

func sine(n, rate int, freq, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}

func stereoBuffer(frames int) *audio.Buffer {
	return &audio.Buffer{
		SampleRate: 44100,
		BitDepth:   16,
		Channels: [][]float64{
			sine(frames, 44100, 440, 0.5),
			sine(frames, 44100, 220, 0.25),
		},
	}
}

func TestIsSupported(t *testing.T) {
	assert.True(t, audio.IsSupported("loop.wav"))
	assert.True(t, audio.IsSupported("LOOP.WAV"))
	assert.True(t, audio.IsSupported("dir/amen.Flac"))
	assert.False(t, audio.IsSupported("loop.mp3"))
	assert.False(t, audio.IsSupported("wav"))
}

func TestNewAsset(t *testing.T) {
	asset, err := audio.NewAsset("/samples/amen_170.WAV")
	require.NoError(t, err)
	assert.Equal(t, "amen_170", asset.Base)
	assert.Equal(t, ".WAV", asset.Ext)
	assert.Equal(t, audio.FormatWAV, asset.Format)
	assert.Equal(t, "amen_170.WAV", asset.Name())

	_, err = audio.NewAsset("/samples/amen.aiff")
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
	assert.Contains(t, err.Error(), ".wav, .flac")
}

func TestListDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_loop.flac", "a_loop.wav", "notes.txt", "c.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.wav"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested.wav", "inner.wav"), []byte("x"), 0o644))

	assets, err := audio.ListDir(dir)
	require.NoError(t, err)
	require.Len(t, assets, 2)
	assert.Equal(t, "a_loop.wav", assets[0].Name())
	assert.Equal(t, "b_loop.flac", assets[1].Name())
}

func TestListDirMissing(t *testing.T) {
	_, err := audio.ListDir(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}

func TestWAVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	in := stereoBuffer(4410)
	require.NoError(t, audio.Write(path, in, 0))

	info, err := audio.Probe(path)
	require.NoError(t, err)
	assert.Equal(t, audio.FormatWAV, info.Format)
	assert.Equal(t, 44100, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.EqualValues(t, 4410, info.Frames)
	assert.InDelta(t, 0.1, info.Duration.Seconds(), 1e-6)

	out, err := audio.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 2, out.NumChannels())
	require.Equal(t, 4410, out.Frames())
	for ch := range in.Channels {
		for i := 0; i < out.Frames(); i += 97 {
			assert.InDelta(t, in.Channels[ch][i], out.Channels[ch][i], 1.0/32768)
		}
	}
}

func TestFLACRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.flac")
	in := stereoBuffer(10000)
	require.NoError(t, audio.Write(path, in, 24))

	info, err := audio.Probe(path)
	require.NoError(t, err)
	assert.Equal(t, audio.FormatFLAC, info.Format)
	assert.Equal(t, 24, info.BitDepth)
	assert.EqualValues(t, 10000, info.Frames)

	out, err := audio.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 10000, out.Frames())
	for i := 0; i < out.Frames(); i += 113 {
		assert.InDelta(t, in.Channels[1][i], out.Channels[1][i], 1e-6)
	}
}

func TestWriteRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	require.Error(t, audio.Write(filepath.Join(dir, "x.ogg"), stereoBuffer(10), 0))
	require.Error(t, audio.Write(filepath.Join(dir, "x.wav"), stereoBuffer(10), 4))
	require.Error(t, audio.Write(filepath.Join(dir, "x.wav"), &audio.Buffer{SampleRate: 44100, BitDepth: 16}, 0))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o644))
	_, err := audio.Decode(path)
	require.Error(t, err)
	_, err = audio.Probe(path)
	require.Error(t, err)
}

func TestLoadMono(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mix.wav")
	buf := &audio.Buffer{
		SampleRate: 22050,
		BitDepth:   16,
		Channels:   [][]float64{{0.5, 0.5, -0.5}, {0.0, -0.5, -0.5}},
	}
	require.NoError(t, audio.Write(path, buf, 0))

	mono, rate, err := audio.LoadMono(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, rate)
	require.Len(t, mono, 3)
	assert.InDelta(t, 0.25, mono[0], 1e-4)
	assert.InDelta(t, 0.0, mono[1], 1e-4)
	assert.InDelta(t, -0.5, mono[2], 1e-4)
}

func TestMonoMix(t *testing.T) {
	assert.Nil(t, audio.MonoMix(nil))
	single := []float64{1, 2}
	assert.Equal(t, single, audio.MonoMix([][]float64{single}))
	assert.Equal(t, []float64{1, 0}, audio.MonoMix([][]float64{{2, 1}, {0, -1}}))
}

// writeExtensibleWAV writes a WAVE_FORMAT_EXTENSIBLE file with 16-bit stereo
// samples and the given SubFormat code, the layout DAWs use for multichannel
// and high bit depth exports.
func writeExtensibleWAV(t *testing.T, path string, subFormat uint16, left, right []int16) {
	t.Helper()
	const (
		channels = 2
		rate     = 48000
		bits     = 16
	)
	blockAlign := channels * bits / 8

	var data bytes.Buffer
	for i := range left {
		require.NoError(t, binary.Write(&data, binary.LittleEndian, left[i]))
		require.NoError(t, binary.Write(&data, binary.LittleEndian, right[i]))
	}

	var fmtChunk bytes.Buffer
	fields := []any{
		uint16(0xFFFE), uint16(channels), uint32(rate), uint32(rate * blockAlign),
		uint16(blockAlign), uint16(bits),
		uint16(22), uint16(bits), uint32(0x3),
		subFormat,
		[]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71},
	}
	for _, f := range fields {
		require.NoError(t, binary.Write(&fmtChunk, binary.LittleEndian, f))
	}
	require.Equal(t, 40, fmtChunk.Len())

	var file bytes.Buffer
	file.WriteString("RIFF")
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(4+8+fmtChunk.Len()+8+data.Len())))
	file.WriteString("WAVE")
	file.WriteString("fmt ")
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(fmtChunk.Len())))
	file.Write(fmtChunk.Bytes())
	file.WriteString("data")
	require.NoError(t, binary.Write(&file, binary.LittleEndian, uint32(data.Len())))
	file.Write(data.Bytes())

	require.NoError(t, os.WriteFile(path, file.Bytes(), 0o644))
}

func TestExtensiblePCMWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daw_export.wav")
	left := make([]int16, 4800)
	right := make([]int16, 4800)
	for i := range left {
		left[i] = int16((i % 64) * 256)
		right[i] = -left[i]
	}
	writeExtensibleWAV(t, path, 0x0001, left, right)

	info, err := audio.Probe(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, info.SampleRate)
	assert.Equal(t, 2, info.Channels)
	assert.Equal(t, 16, info.BitDepth)
	assert.EqualValues(t, 4800, info.Frames)

	buf, err := audio.Decode(path)
	require.NoError(t, err)
	require.Equal(t, 4800, buf.Frames())
	for i := 0; i < buf.Frames(); i += 37 {
		assert.InDelta(t, float64(left[i])/32768, buf.Channels[0][i], 1e-9)
		assert.InDelta(t, float64(right[i])/32768, buf.Channels[1][i], 1e-9)
	}

	mono, rate, err := audio.LoadMono(path)
	require.NoError(t, err)
	assert.Equal(t, 48000, rate)
	require.Len(t, mono, 4800)
	assert.InDelta(t, 0.0, mono[100], 1e-9)
}

func TestExtensibleFloatWAVRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "float_export.wav")
	writeExtensibleWAV(t, path, 0x0003, make([]int16, 480), make([]int16, 480))

	_, err := audio.Decode(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WAV format 3")
}
