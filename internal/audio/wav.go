package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// fmt chunk bytes before the extensible SubFormat GUID: the 16-byte
	// base header, cbSize, wValidBitsPerSample and dwChannelMask.
	extensibleGUIDOffset = 24
)

// pcmGUIDTail follows the two-byte format code in a KSDATAFORMAT_SUBTYPE GUID.
var pcmGUIDTail = []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71}

func openWAV(path string) (*os.File, *wav.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is not a valid WAV file", path)
	}
	format := dec.WavAudioFormat
	if format == wavFormatExtensible {
		sub, err := extensibleSubFormat(path)
		if err != nil {
			_ = f.Close()
			return nil, nil, fmt.Errorf("%s: read extensible format: %w", path, err)
		}
		format = sub
	}
	if format != wavFormatPCM {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s uses WAV format %d; only integer PCM is supported", path, format)
	}
	return f, dec, nil
}

// extensibleSubFormat returns the format code carried in the SubFormat GUID of
// a WAVE_FORMAT_EXTENSIBLE fmt chunk. The wav decoder skips those bytes.
func extensibleSubFormat(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	parser := riff.New(f)
	if err := parser.ParseHeaders(); err != nil {
		return 0, err
	}
	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, errors.New("no fmt chunk")
			}
			return 0, err
		}
		if chunk.ID != riff.FmtID {
			chunk.Drain()
			continue
		}
		if chunk.Size < extensibleGUIDOffset+16 {
			return 0, fmt.Errorf("fmt chunk too short (%d bytes)", chunk.Size)
		}
		header := make([]byte, extensibleGUIDOffset+16)
		if _, err := io.ReadFull(chunk, header); err != nil {
			return 0, err
		}
		guid := header[extensibleGUIDOffset:]
		if !bytes.Equal(guid[2:], pcmGUIDTail) {
			return 0, fmt.Errorf("unknown SubFormat GUID %x", guid)
		}
		return uint16(guid[0]) | uint16(guid[1])<<8, nil
	}
}

func probeWAV(path string) (Info, error) {
	f, dec, err := openWAV(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("locate WAV data: %w", err)
	}
	rate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	var frames int64
	if frameBytes := int64(channels * ((bitDepth + 7) / 8)); frameBytes > 0 {
		frames = dec.PCMLen() / frameBytes
	}
	return Info{
		Format:     FormatWAV,
		SampleRate: rate,
		Channels:   channels,
		BitDepth:   bitDepth,
		Frames:     frames,
		Duration:   framesDuration(frames, rate),
	}, nil
}

func decodeWAV(path string) (*Buffer, error) {
	f, dec, err := openWAV(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode WAV: %w", err)
	}
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels < 1 {
		return nil, errors.New("decode WAV: no channels")
	}

	frames := len(pcm.Data) / channels
	out := &Buffer{
		SampleRate: int(dec.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float64, channels),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := int64(pcm.Data[i*channels+ch])
			if bitDepth == 8 {
				v -= 128
			}
			out.Channels[ch][i] = intToFloat(v, bitDepth)
		}
	}
	return out, nil
}

func encodeWAV(w io.WriteSeeker, buf *Buffer, bitDepth int) error {
	channels := buf.NumChannels()
	frames := buf.Frames()
	data := make([]int, frames*channels)
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			v := floatToInt(buf.Channels[ch][i], bitDepth)
			if bitDepth == 8 {
				v += 128
			}
			data[i*channels+ch] = int(v)
		}
	}

	enc := wav.NewEncoder(w, buf.SampleRate, bitDepth, channels, wavFormatPCM)
	pcm := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: buf.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("encode WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize WAV: %w", err)
	}
	return nil
}

func framesDuration(frames int64, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(float64(frames) / float64(rate) * float64(time.Second))
}
