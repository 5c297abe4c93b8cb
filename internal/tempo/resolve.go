package tempo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"breakstretch/internal/logging"
	"breakstretch/internal/services"
)

// Detector estimates the tempo of an audio file acoustically.
type Detector interface {
	DetectFile(ctx context.Context, path string) (float64, error)
}

// Sink receives advisory lines such as mismatch warnings.
type Sink interface {
	Report(line string)
}

// DetectionError reports that no source produced a tempo for an asset.
type DetectionError struct {
	Path string
	Err  error
}

func (e *DetectionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not determine BPM for %s", e.Path)
	}
	return fmt.Sprintf("could not determine BPM for %s: %v", e.Path, e.Err)
}

func (e *DetectionError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrDetection}
	}
	return []error{services.ErrDetection, e.Err}
}

// Request describes one resolution.
type Request struct {
	Path string
	// Manual, when positive, is used verbatim as the source tempo.
	Manual float64
	// Warn compares a filename tempo against acoustic detection.
	Warn bool
}

// Resolution is the outcome of resolving one asset.
type Resolution struct {
	BPM      float64
	Source   Source
	Filename *Candidate
	Acoustic *Candidate
	// AcousticErr records a failed estimate that did not block resolution.
	AcousticErr error
	Mismatch    bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTolerance overrides DefaultTolerance for mismatch checks.
func WithTolerance(tolerance float64) ResolverOption {
	return func(r *Resolver) {
		if tolerance > 0 {
			r.tolerance = tolerance
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "tempo")
	}
}

// Resolver picks the authoritative source tempo for an asset.
type Resolver struct {
	detector  Detector
	tolerance float64
	logger    *slog.Logger
}

// NewResolver constructs a Resolver. detector may be nil, in which case
// assets without a manual or filename tempo fail to resolve.
func NewResolver(detector Detector, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		detector:  detector,
		tolerance: DefaultTolerance,
		logger:    logging.NewComponentLogger(nil, "tempo"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve applies manual > filename > acoustic priority. Mismatch warnings
// go to sink, which may be nil.
func (r *Resolver) Resolve(ctx context.Context, req Request, sink Sink) (Resolution, error) {
	logger := logging.WithContext(ctx, r.logger)

	if req.Manual > 0 {
		logger.Debug("using manual tempo", logging.Float64("bpm", req.Manual))
		return Resolution{BPM: req.Manual, Source: SourceManual}, nil
	}

	var res Resolution
	if c, ok := FilenameCandidate(req.Path); ok {
		res.Filename = &c
	}

	if res.Filename == nil || req.Warn {
		bpm, err := r.detect(ctx, req.Path)
		switch {
		case err == nil:
			res.Acoustic = &Candidate{BPM: bpm, Source: SourceAcoustic}
		case res.Filename == nil:
			return Resolution{}, &DetectionError{Path: req.Path, Err: err}
		case errors.Is(err, context.Canceled):
			return Resolution{}, err
		default:
			res.AcousticErr = err
			logger.Info("acoustic tempo unavailable, keeping filename tempo", logging.Error(err))
		}
	}

	if res.Filename != nil {
		res.BPM = res.Filename.BPM
		res.Source = SourceFilename
		if req.Warn && res.Acoustic != nil && !BPMsMatch(res.Filename.BPM, res.Acoustic.BPM, r.tolerance) {
			res.Mismatch = true
			msg := fmt.Sprintf("Filename suggests %s BPM, but detected %.1f BPM", FormatBPM(res.Filename.BPM), res.Acoustic.BPM)
			logging.WarnWithContext(logger, "filename tempo disagrees with detection", "tempo_mismatch",
				logging.Float64("filename_bpm", res.Filename.BPM),
				logging.Float64("detected_bpm", res.Acoustic.BPM),
				logging.String(logging.FieldErrorHint, "pass --bpm to override the source tempo"),
				logging.String(logging.FieldImpact, "filename tempo used"),
			)
			if sink != nil {
				sink.Report(msg)
			}
		}
		return res, nil
	}

	res.BPM = res.Acoustic.BPM
	res.Source = SourceAcoustic
	logger.Debug("using acoustic tempo", logging.Float64("bpm", res.BPM))
	return res, nil
}

func (r *Resolver) detect(ctx context.Context, path string) (float64, error) {
	if r.detector == nil {
		return 0, errors.New("acoustic detection unavailable")
	}
	return r.detector.DetectFile(ctx, path)
}
