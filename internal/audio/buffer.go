package audio

import "math"

// Buffer holds decoded PCM as one float64 slice per channel.
type Buffer struct {
	SampleRate int
	BitDepth   int
	Channels   [][]float64
}

// NumChannels returns the channel count.
func (b *Buffer) NumChannels() int {
	return len(b.Channels)
}

// Frames returns the number of sample frames.
func (b *Buffer) Frames() int {
	if len(b.Channels) == 0 {
		return 0
	}
	return len(b.Channels[0])
}

// Mono averages all channels into a single slice.
func (b *Buffer) Mono() []float64 {
	return MonoMix(b.Channels)
}

// MonoMix averages channels sample by sample. A single channel is returned
// as-is.
func MonoMix(channels [][]float64) []float64 {
	switch len(channels) {
	case 0:
		return nil
	case 1:
		return channels[0]
	}
	n := len(channels[0])
	out := make([]float64, n)
	for _, ch := range channels {
		for i := 0; i < n && i < len(ch); i++ {
			out[i] += ch[i]
		}
	}
	scale := 1 / float64(len(channels))
	for i := range out {
		out[i] *= scale
	}
	return out
}

func fullScale(bitDepth int) float64 {
	return float64(int64(1) << (bitDepth - 1))
}

func intToFloat(v int64, bitDepth int) float64 {
	return float64(v) / fullScale(bitDepth)
}

func floatToInt(v float64, bitDepth int) int64 {
	scale := fullScale(bitDepth)
	s := math.Round(v * scale)
	if s > scale-1 {
		s = scale - 1
	}
	if s < -scale {
		s = -scale
	}
	return int64(s)
}
