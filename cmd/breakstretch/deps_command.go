package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"breakstretch/internal/deps"
	"breakstretch/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check external dependencies and output paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cfg)
			for _, line := range dependencyLines(results, colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				if r.Name == deps.RubberbandRequirement("").Name && !r.Passed {
					fmt.Fprintln(out)
					fmt.Fprintf(out, "Install Rubber Band with:\n  %s\n", deps.InstallHint(runtime.GOOS))
					break
				}
			}
			return nil
		},
	}
}

// dependencyLines renders a summary line followed by one line per check.
func dependencyLines(results []preflight.Result, colorize bool) []string {
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	lines := renderSectionHeader("Dependencies", colorize)
	switch {
	case len(results) == 0:
		lines = append(lines, renderStatusLine("Summary", statusInfo, "No checks configured", colorize))
	case failed == 0:
		lines = append(lines, renderStatusLine("Summary", statusOK, fmt.Sprintf("All %d checks passed", len(results)), colorize))
	default:
		lines = append(lines, renderStatusLine("Summary", statusError, fmt.Sprintf("%d of %d checks failed", failed, len(results)), colorize))
	}
	for _, r := range results {
		kind := statusOK
		if !r.Passed {
			kind = statusError
		}
		lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
	}
	return lines
}
