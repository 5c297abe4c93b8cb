package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"
)

const flacBlockSize = 4096

func probeFLAC(path string) (Info, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open FLAC: %w", err)
	}
	defer stream.Close()

	si := stream.Info
	frames := int64(si.NSamples)
	return Info{
		Format:     FormatFLAC,
		SampleRate: int(si.SampleRate),
		Channels:   int(si.NChannels),
		BitDepth:   int(si.BitsPerSample),
		Frames:     frames,
		Duration:   framesDuration(frames, int(si.SampleRate)),
	}, nil
}

func decodeFLAC(path string) (*Buffer, error) {
	stream, err := flac.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FLAC: %w", err)
	}
	defer stream.Close()

	si := stream.Info
	channels := int(si.NChannels)
	if channels < 1 {
		return nil, errors.New("decode FLAC: no channels")
	}
	bitDepth := int(si.BitsPerSample)
	out := &Buffer{
		SampleRate: int(si.SampleRate),
		BitDepth:   bitDepth,
		Channels:   make([][]float64, channels),
	}
	for ch := range out.Channels {
		out.Channels[ch] = make([]float64, 0, si.NSamples)
	}
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode FLAC frame: %w", err)
		}
		for ch, sub := range f.Subframes {
			if ch >= channels {
				break
			}
			for _, s := range sub.Samples {
				out.Channels[ch] = append(out.Channels[ch], intToFloat(int64(s), bitDepth))
			}
		}
	}
	return out, nil
}

// encodeFLAC writes verbatim subframes in fixed-size blocks.
func encodeFLAC(w io.Writer, buf *Buffer, bitDepth int) error {
	channels := buf.NumChannels()
	total := buf.Frames()
	blockSize := flacBlockSize
	if total < blockSize {
		blockSize = max(total, 16)
	}
	info := &meta.StreamInfo{
		BlockSizeMin:  uint16(blockSize),
		BlockSizeMax:  uint16(blockSize),
		SampleRate:    uint32(buf.SampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(total),
	}
	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("create FLAC encoder: %w", err)
	}

	for start, num := 0, uint64(0); start < total; start, num = start+blockSize, num+1 {
		end := min(start+blockSize, total)
		n := end - start
		subframes := make([]*frame.Subframe, channels)
		for ch := range subframes {
			samples := make([]int32, n)
			for i := range samples {
				samples[i] = int32(floatToInt(buf.Channels[ch][start+i], bitDepth))
			}
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  n,
			}
		}
		fr := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(buf.SampleRate),
				Channels:          frame.Channels(channels - 1),
				BitsPerSample:     uint8(bitDepth),
				Num:               num,
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(fr); err != nil {
			_ = enc.Close()
			return fmt.Errorf("encode FLAC frame %d: %w", num, err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize FLAC: %w", err)
	}
	return nil
}
