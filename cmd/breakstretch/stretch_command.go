package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"breakstretch/internal/config"
	"breakstretch/internal/convert"
	"breakstretch/internal/logging"
	"breakstretch/internal/pipeline"
	"breakstretch/internal/services"
	"breakstretch/internal/services/rubberband"
)

type stretchFlags struct {
	target     float64
	targets    string
	rangeSpec  string
	step       int
	bpm        float64
	output     string
	sampleRate int
	bitDepth   int
	mono       bool
	warn       bool
	crispness  int
}

func newStretchCommand(ctx *commandContext) *cobra.Command {
	var flags stretchFlags

	cmd := &cobra.Command{
		Use:   "stretch <input>",
		Short: "Time-stretch audio file(s) to target BPM(s)",
		Long: `Time-stretch a WAV/FLAC file, or every WAV/FLAC file directly inside a
directory, to one or more target BPMs. Outputs are written to
<output>/<name>/<name>_<target>.<ext>.`,
		Example: `  breakstretch stretch break.wav --target 140
  breakstretch stretch break.wav --targets 90,120,140
  breakstretch stretch break.wav --range 80-160 --step 10
  breakstretch stretch ./breaks/ -t 140 --sample-rate 44100 --mono`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStretch(cmd, ctx, args[0], flags)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&flags.target, "target", "t", 0, "Single target BPM")
	f.StringVar(&flags.targets, "targets", "", "Comma-separated target BPMs (e.g. 90,120,140)")
	f.StringVarP(&flags.rangeSpec, "range", "r", "", "BPM range, inclusive (e.g. 80-160)")
	f.IntVarP(&flags.step, "step", "s", pipeline.DefaultRangeStep, "Step size for --range")
	f.Float64VarP(&flags.bpm, "bpm", "b", 0, "Manual source BPM override")
	f.StringVarP(&flags.output, "output", "o", "", "Output directory (default from config, ./output)")
	f.IntVar(&flags.sampleRate, "sample-rate", 0, "Target sample rate in Hz (e.g. 44100, 48000)")
	f.IntVar(&flags.bitDepth, "bit-depth", 0, "Target bit depth (16 or 24)")
	f.BoolVar(&flags.mono, "mono", false, "Convert output to mono")
	f.BoolVarP(&flags.warn, "warn", "w", false, "Warn if detected BPM differs from filename")
	f.IntVar(&flags.crispness, "crispness", rubberband.DefaultCrispness, "Rubber Band crispness (0-6, higher preserves transients)")

	return cmd
}

func runStretch(cmd *cobra.Command, ctx *commandContext, input string, flags stretchFlags) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := ctx.stretchEngine().Ensure(); err != nil {
		return err
	}

	targets, err := targetSpec(cmd, cfg, flags).Parse()
	if err != nil {
		return err
	}

	opts := processingOptions(cmd, cfg, flags)
	if err := opts.Validate(); err != nil {
		return err
	}

	isDir, err := inputKind(input)
	if err != nil {
		return err
	}

	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	quality, err := convert.ParseQuality(cfg.Conversion.ResampleQuality)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Target BPM(s): %s\n", formatTargets(targets))
	fmt.Fprintf(out, "Output directory: %s\n", opts.OutputDir)
	fmt.Fprintln(out)

	lock, err := pipeline.LockOutput(opts.OutputDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release output lock failed", logging.Error(err))
		}
	}()

	processor := pipeline.NewProcessor(
		newResolver(cfg, logger),
		rubberband.NewCLI(rubberband.WithBinary(cfg.Stretch.RubberbandBinary)),
		convert.New(convert.WithQuality(quality), convert.WithLogger(logger)),
		pipeline.WithLogger(logger),
	)
	reporter := pipeline.ReporterFunc(func(line string) {
		fmt.Fprintln(out, line)
	})

	runCtx := ctx.runContext(cmd)
	var results []pipeline.Result
	if isDir {
		results, err = processor.ProcessDirectory(runCtx, input, targets, opts, reporter)
	} else {
		results, err = processor.ProcessFile(runCtx, input, targets, opts, reporter)
	}
	if err != nil {
		attrs := []logging.Attr{
			logging.String("error_kind", services.Kind(err)),
			logging.Int("completed", len(results)),
			logging.Error(err),
		}
		if services.IsUserError(err) {
			logger.Info("stretch rejected", logging.Args(attrs...)...)
		} else {
			logger.Error("stretch failed", logging.Args(attrs...)...)
		}
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Created %d file(s)\n", len(results))
	return nil
}

func targetSpec(cmd *cobra.Command, cfg *config.Config, flags stretchFlags) pipeline.TargetSpec {
	spec := pipeline.TargetSpec{Step: cfg.Stretch.RangeStep}
	f := cmd.Flags()
	if f.Changed("target") {
		v := flags.target
		spec.Single = &v
	}
	if f.Changed("targets") {
		v := flags.targets
		spec.List = &v
	}
	if f.Changed("range") {
		v := flags.rangeSpec
		spec.Range = &v
	}
	if f.Changed("step") {
		spec.Step = flags.step
	}
	return spec
}

// processingOptions layers explicitly set flags over config values.
func processingOptions(cmd *cobra.Command, cfg *config.Config, flags stretchFlags) pipeline.Options {
	f := cmd.Flags()
	opts := pipeline.Options{
		OutputDir:    cfg.Paths.OutputDir,
		WarnMismatch: cfg.Detection.WarnMismatch,
		Crispness:    cfg.Stretch.Crispness,
		SampleRate:   cfg.Conversion.SampleRate,
		BitDepth:     cfg.Conversion.BitDepth,
		Mono:         cfg.Conversion.Mono,
	}
	if f.Changed("output") {
		opts.OutputDir = flags.output
	}
	if f.Changed("bpm") {
		opts.ManualBPM = flags.bpm
	}
	if f.Changed("warn") {
		opts.WarnMismatch = flags.warn
	}
	if f.Changed("crispness") {
		opts.Crispness = flags.crispness
	}
	if f.Changed("sample-rate") {
		opts.SampleRate = flags.sampleRate
	}
	if f.Changed("bit-depth") {
		opts.BitDepth = flags.bitDepth
	}
	if f.Changed("mono") {
		opts.Mono = flags.mono
	}
	return opts
}

func formatTargets(targets []float64) string {
	parts := make([]string, len(targets))
	for i, t := range targets {
		parts[i] = strconv.FormatInt(int64(t), 10)
	}
	return strings.Join(parts, ", ")
}
