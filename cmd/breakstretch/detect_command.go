package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"breakstretch/internal/audio"
	"breakstretch/internal/pipeline"
	"breakstretch/internal/services"
	"breakstretch/internal/tempo"
)

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var manual float64
	var warn bool

	cmd := &cobra.Command{
		Use:   "detect <input>",
		Short: "Show the source BPM breakstretch would use",
		Long: `Resolve the source tempo of a WAV/FLAC file, or of every WAV/FLAC file
directly inside a directory, without stretching anything. The stretch
engine is not required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("warn") {
				warn = cfg.Detection.WarnMismatch
			}
			if manual < 0 {
				return services.Wrap(services.ErrConfiguration, "", "",
					fmt.Sprintf("source BPM must be positive (got %v)", manual), nil)
			}

			input := args[0]
			isDir, err := inputKind(input)
			if err != nil {
				return err
			}
			assets, err := detectAssets(input, isDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reporter := pipeline.ReporterFunc(func(line string) {
				fmt.Fprintln(out, line)
			})
			resolver := newResolver(cfg, logger)
			runCtx := ctx.runContext(cmd)

			rows := make([][]string, 0, len(assets))
			for _, asset := range assets {
				res, err := resolver.Resolve(services.WithAsset(runCtx, asset.Path), tempo.Request{
					Path:   asset.Path,
					Manual: manual,
					Warn:   warn,
				}, reporter)
				if err != nil {
					return err
				}
				rows = append(rows, detectRow(asset, res))
			}

			fmt.Fprintln(out, renderTable(
				[]string{"File", "Filename", "Acoustic", "Resolved", "Source", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().Float64VarP(&manual, "bpm", "b", 0, "Manual source BPM override")
	cmd.Flags().BoolVarP(&warn, "warn", "w", false, "Also run acoustic detection when the filename has a BPM")
	return cmd
}

func detectAssets(input string, isDir bool) ([]audio.Asset, error) {
	if !isDir {
		asset, err := audio.NewAsset(input)
		if err != nil {
			return nil, err
		}
		return []audio.Asset{asset}, nil
	}
	assets, err := audio.ListDir(input)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "", "", "list input directory", err)
	}
	if len(assets) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "", "",
			fmt.Sprintf("No audio files found in %s", input), nil)
	}
	return assets, nil
}

func detectRow(asset audio.Asset, res tempo.Resolution) []string {
	row := []string{asset.Name(), "-", "-", tempo.FormatBPM(res.BPM), string(res.Source), "-"}
	if res.Filename != nil {
		row[1] = tempo.FormatBPM(res.Filename.BPM)
	}
	switch {
	case res.Acoustic != nil:
		row[2] = fmt.Sprintf("%.1f", res.Acoustic.BPM)
	case res.AcousticErr != nil:
		row[2] = "failed"
	}
	if res.Mismatch {
		row[4] += " (mismatch)"
	}
	if probed, err := asset.Probed(); err == nil {
		row[5] = fmt.Sprintf("%.2fs", probed.Info.Duration.Seconds())
	}
	return row
}
