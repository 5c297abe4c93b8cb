package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"breakstretch/internal/audio"
	"breakstretch/internal/convert"
	"breakstretch/internal/fileutil"
	"breakstretch/internal/logging"
	"breakstretch/internal/services"
	"breakstretch/internal/stretch"
	"breakstretch/internal/tempo"
)

// Resolver decides the source tempo of one file.
type Resolver interface {
	Resolve(ctx context.Context, req tempo.Request, sink tempo.Sink) (tempo.Resolution, error)
}

// Stretcher changes tempo without changing pitch.
type Stretcher interface {
	Stretch(ctx context.Context, inputPath, outputPath string, ratio float64, crispness int) error
}

// Converter rewrites sample rate, bit depth or channel layout.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, opts convert.Options) error
}

// Result records one written output.
type Result struct {
	Input     string
	Output    string
	SourceBPM float64
	Source    tempo.Source
	TargetBPM float64
	Ratio     float64
	// Copied is true for identity stretches.
	Copied    bool
	Converted bool
}

// Outputs lists the output paths of results in order.
func Outputs(results []Result) []string {
	paths := make([]string, 0, len(results))
	for _, r := range results {
		paths = append(paths, r.Output)
	}
	return paths
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Processor sequences resolve, stretch and convert for each asset.
type Processor struct {
	resolver  Resolver
	stretcher Stretcher
	converter Converter
	copyFile  func(src, dst string) error
	logger    *slog.Logger
}

// NewProcessor wires a Processor. converter may be nil when no run will ask
// for conversion.
func NewProcessor(resolver Resolver, stretcher Stretcher, converter Converter, opts ...ProcessorOption) *Processor {
	p := &Processor{
		resolver:  resolver,
		stretcher: stretcher,
		converter: converter,
		copyFile:  fileutil.CopyVerified,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.NewComponentLogger(p.logger, "pipeline")
	return p
}

// ProcessFile stretches one file to every target. On error the results
// written so far are returned with it.
func (p *Processor) ProcessFile(ctx context.Context, path string, targets []float64, opts Options, reporter Reporter) ([]Result, error) {
	if reporter == nil {
		reporter = Discard
	}
	asset, err := audio.NewAsset(path)
	if err != nil {
		return nil, err
	}
	ctx = services.WithAsset(ctx, asset.Path)
	logger := logging.WithContext(ctx, p.logger)

	reporter.Report(fmt.Sprintf("Detecting BPM for %s...", asset.Name()))
	res, err := p.resolver.Resolve(ctx, tempo.Request{
		Path:   asset.Path,
		Manual: opts.ManualBPM,
		Warn:   opts.WarnMismatch,
	}, reporter)
	if err != nil {
		return nil, err
	}
	reporter.Report(fmt.Sprintf("  Source BPM: %s", tempo.FormatBPM(res.BPM)))
	logger.Info("source tempo resolved",
		logging.Float64("bpm", res.BPM),
		logging.String("source", string(res.Source)),
	)

	conversion := opts.Conversion()
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := p.processTarget(services.WithTargetBPM(ctx, target), asset, res, target, opts, conversion, reporter)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Processor) processTarget(ctx context.Context, asset audio.Asset, res tempo.Resolution, target float64, opts Options, conversion convert.Options, reporter Reporter) (Result, error) {
	logger := logging.WithContext(ctx, p.logger)
	plan, err := stretch.NewPlan(opts.OutputDir, asset.Path, res.BPM, target)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "plan", asset.Name(), err)
	}
	reporter.Report(fmt.Sprintf("  Stretching to %d BPM -> %s", int64(plan.TargetBPM), plan.Output))

	if err := fileutil.EnsureParentDir(plan.Output); err != nil {
		return Result{}, err
	}

	result := Result{
		Input:     asset.Path,
		Output:    plan.Output,
		SourceBPM: res.BPM,
		Source:    res.Source,
		TargetBPM: target,
		Ratio:     plan.Ratio,
	}
	if fileutil.SameFile(asset.Path, plan.Output) && (!plan.Identity() || conversion.Active()) {
		return Result{}, services.Wrap(services.ErrValidation, "pipeline", "plan",
			fmt.Sprintf("output %s would overwrite its own input", plan.Output), nil)
	}
	if plan.Identity() {
		if err := p.copyFile(asset.Path, plan.Output); err != nil {
			return Result{}, fmt.Errorf("copy %s: %w", asset.Name(), err)
		}
		result.Copied = true
		logger.Debug("identity stretch, copied input", logging.String("output", plan.Output))
	} else {
		if err := p.stretcher.Stretch(ctx, asset.Path, plan.Output, plan.Ratio, opts.Crispness); err != nil {
			return Result{}, err
		}
		logger.Debug("stretched",
			logging.String("output", plan.Output),
			logging.Float64("ratio", plan.Ratio),
			logging.Int("crispness", opts.Crispness),
		)
	}

	if conversion.Active() {
		if p.converter == nil {
			return Result{}, services.Wrap(services.ErrConfiguration, "pipeline", "convert", "no converter configured", nil)
		}
		if err := p.converter.Convert(ctx, plan.Output, plan.Output, conversion); err != nil {
			return Result{}, err
		}
		result.Converted = true
	}
	return result, nil
}

// ProcessDirectory processes every supported file directly inside dir in
// name order. It fails before any work when the directory holds none.
func (p *Processor) ProcessDirectory(ctx context.Context, dir string, targets []float64, opts Options, reporter Reporter) ([]Result, error) {
	if reporter == nil {
		reporter = Discard
	}
	assets, err := audio.ListDir(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "list input directory", err)
	}
	if len(assets) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "", "",
			fmt.Sprintf("No audio files found in %s", dir), nil)
	}
	reporter.Report(fmt.Sprintf("Found %d audio file(s)", len(assets)))

	var all []Result
	for _, asset := range assets {
		results, err := p.ProcessFile(ctx, asset.Path, targets, opts, reporter)
		all = append(all, results...)
		if err != nil {
			return all, err
		}
	}
	return all, nil
}
