package audio

import (
	"fmt"
	"os"

	"breakstretch/internal/fileutil"
)

// Probe reads stream properties without decoding samples.
func Probe(path string) (Info, error) {
	format, ok := FormatFor(path)
	if !ok {
		return Info{}, fmt.Errorf("probe %s: unsupported file type", path)
	}
	var (
		info Info
		err  error
	)
	switch format {
	case FormatFLAC:
		info, err = probeFLAC(path)
	default:
		info, err = probeWAV(path)
	}
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", path, err)
	}
	return info, nil
}

// Decode reads the whole file into memory.
func Decode(path string) (*Buffer, error) {
	format, ok := FormatFor(path)
	if !ok {
		return nil, fmt.Errorf("decode %s: unsupported file type", path)
	}
	var (
		buf *Buffer
		err error
	)
	switch format {
	case FormatFLAC:
		buf, err = decodeFLAC(path)
	default:
		buf, err = decodeWAV(path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// Write encodes buf to path atomically, choosing the container from the
// extension. A zero bitDepth keeps buf.BitDepth.
func Write(path string, buf *Buffer, bitDepth int) error {
	format, ok := FormatFor(path)
	if !ok {
		return fmt.Errorf("write %s: unsupported file type", path)
	}
	if bitDepth <= 0 {
		bitDepth = buf.BitDepth
	}
	if bitDepth < 8 || bitDepth > 32 {
		return fmt.Errorf("write %s: unsupported bit depth %d", path, bitDepth)
	}
	if buf.NumChannels() == 0 {
		return fmt.Errorf("write %s: buffer has no channels", path)
	}
	return fileutil.WriteAtomic(path, func(f *os.File) error {
		if format == FormatFLAC {
			return encodeFLAC(f, buf, bitDepth)
		}
		return encodeWAV(f, buf, bitDepth)
	})
}

// LoadMono decodes path and mixes it to one channel.
func LoadMono(path string) ([]float64, int, error) {
	buf, err := Decode(path)
	if err != nil {
		return nil, 0, err
	}
	return buf.Mono(), buf.SampleRate, nil
}
