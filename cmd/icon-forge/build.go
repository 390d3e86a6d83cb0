package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ironsheep/icon-forge/internal/batch"
	"github.com/ironsheep/icon-forge/internal/config"
)

var (
	buildWorkers int
	buildJSON    bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compose every icon listed in the layering file",
	Long: `Composes every asset of the layering file concurrently and prints a summary
of skipped assets (base image missing) and missing layer files.

Icons are written to <output_path>/<last element of element type>/<asset>.png.
The command fails when an icon could not be saved.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&buildWorkers, "workers", "j", 0, "Concurrent compositions (default: settings, then one per CPU)")
	cmd.Flags().BoolVar(&buildJSON, "json", false, "Print the run report as JSON")
}

// buildInputs is everything a build needs, resolved from the settings and
// layering files.
type buildInputs struct {
	settings config.Settings
	layering config.Layering
	opts     batch.Options
}

func loadInputs() (*buildInputs, error) {
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}
	if buildWorkers > 0 {
		settings.Workers = buildWorkers
	}

	opts, err := batch.OptionsFromSettings(settings, logger)
	if err != nil {
		return nil, err
	}

	layering, err := config.LoadLayering(layeringPath)
	if err != nil {
		return nil, err
	}

	return &buildInputs{settings: settings, layering: layering, opts: opts}, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	in, err := loadInputs()
	if err != nil {
		return err
	}
	return build(cmd.Context(), cmd.OutOrStdout(), in)
}

func build(ctx context.Context, out io.Writer, in *buildInputs) error {
	if !buildJSON {
		renderHeader(out, in.opts, in.layering.ElementTypes())
	}

	report, err := batch.New(in.layering, in.opts, logger).Run(ctx)
	if report != nil {
		if buildJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return encErr
			}
		} else {
			renderReport(out, report)
		}
	}
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d icon(s) could not be written", report.Failed)
	}
	return nil
}
