package convert

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-dsp/dsp/resample"

	"breakstretch/internal/audio"
	"breakstretch/internal/fileutil"
	"breakstretch/internal/logging"
	"breakstretch/internal/services"
)

// SupportedBitDepths lists accepted output bit depths.
var SupportedBitDepths = []int{16, 24, 32}

// Options selects the conversions to apply. Zero values keep the source
// property.
type Options struct {
	SampleRate int
	BitDepth   int
	Mono       bool
}

// Active reports whether any conversion was requested.
func (o Options) Active() bool {
	return o.SampleRate > 0 || o.BitDepth > 0 || o.Mono
}

// Validate checks option ranges.
func (o Options) Validate() error {
	if o.SampleRate < 0 {
		return services.Wrap(services.ErrValidation, "convert", "options",
			fmt.Sprintf("sample rate must be positive (got %d)", o.SampleRate), nil)
	}
	if o.BitDepth != 0 && !validBitDepth(o.BitDepth) {
		return services.Wrap(services.ErrValidation, "convert", "options",
			fmt.Sprintf("bit depth must be 16, 24 or 32 (got %d)", o.BitDepth), nil)
	}
	return nil
}

func validBitDepth(bits int) bool {
	for _, b := range SupportedBitDepths {
		if b == bits {
			return true
		}
	}
	return false
}

// ParseQuality maps a config value to a resampler quality.
func ParseQuality(value string) (resample.Quality, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "best":
		return resample.QualityBest, nil
	case "balanced":
		return resample.QualityBalanced, nil
	case "fast":
		return resample.QualityFast, nil
	default:
		return 0, fmt.Errorf("unknown resample quality %q (expected fast, balanced or best)", value)
	}
}

// Option configures a Converter.
type Option func(*Converter)

// WithQuality sets the resampler quality profile.
func WithQuality(q resample.Quality) Option {
	return func(c *Converter) {
		c.quality = q
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Converter decodes, transforms and re-encodes WAV and FLAC files.
type Converter struct {
	quality resample.Quality
	logger  *slog.Logger
}

// New builds a Converter with best-quality resampling by default.
func New(opts ...Option) *Converter {
	c := &Converter{quality: resample.QualityBest, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "convert")
	return c
}

// Convert reads input, applies opts and writes output. Input and output may
// be the same path.
func (c *Converter) Convert(ctx context.Context, input, output string, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	if !audio.IsSupported(output) {
		return services.Wrap(services.ErrValidation, "convert", "output",
			fmt.Sprintf("unsupported output type %q", filepath.Ext(output)), nil)
	}
	logger := logging.WithContext(ctx, c.logger)

	buf, err := audio.Decode(input)
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	needRate := opts.SampleRate > 0 && opts.SampleRate != buf.SampleRate
	needMono := opts.Mono && buf.NumChannels() > 1
	needDepth := opts.BitDepth > 0 && opts.BitDepth != buf.BitDepth
	samePath := filepath.Clean(input) == filepath.Clean(output)

	if !needRate && !needMono && !needDepth {
		if samePath {
			logger.Debug("conversion not needed", logging.String("path", output))
			return nil
		}
		inFormat, _ := audio.FormatFor(input)
		outFormat, _ := audio.FormatFor(output)
		if inFormat == outFormat {
			return fileutil.CopyVerified(input, output)
		}
	}

	if needMono {
		buf.Channels = [][]float64{buf.Mono()}
	}
	if needRate {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.resample(buf, opts.SampleRate); err != nil {
			return fmt.Errorf("convert: resample %d -> %d Hz: %w", buf.SampleRate, opts.SampleRate, err)
		}
	}
	bitDepth := buf.BitDepth
	if needDepth {
		bitDepth = opts.BitDepth
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := audio.Write(output, buf, bitDepth); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	logger.Debug("converted audio",
		logging.String("path", output),
		logging.Int("sample_rate", buf.SampleRate),
		logging.Int("bit_depth", bitDepth),
		logging.Int("channels", buf.NumChannels()),
	)
	return nil
}

func (c *Converter) resample(buf *audio.Buffer, rate int) error {
	for ch, samples := range buf.Channels {
		r, err := resample.NewForRates(float64(buf.SampleRate), float64(rate), resample.WithQuality(c.quality))
		if err != nil {
			return err
		}
		buf.Channels[ch] = r.Process(samples)
	}
	buf.SampleRate = rate
	return nil
}
