package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the pack whenever its inputs change",
	Long: `Builds the pack, then watches the settings file, the layering file and the
layer folders and rebuilds once changes have settled. Stop with Ctrl+C.

Changes to the settings are picked up on the next rebuild, but the set of
watched layer folders is fixed when the command starts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInputs()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		rebuild := func(ctx context.Context) {
			next, err := loadInputs()
			if err != nil {
				logger.Error("cannot rebuild", zap.Error(err))
				return
			}
			if err := build(ctx, out, next); err != nil {
				logger.Error("build failed", zap.Error(err))
			}
		}

		if err := build(cmd.Context(), out, in); err != nil {
			logger.Error("build failed", zap.Error(err))
		}

		var dirs []string
		seen := map[string]bool{}
		for _, et := range in.layering.ElementTypes() {
			if d := in.opts.LayerFolder(et); d != "" && !seen[d] {
				seen[d] = true
				dirs = append(dirs, d)
			}
		}

		w, err := watch.New(watch.Options{
			Files:    []string{settingsPath, layeringPath},
			Dirs:     dirs,
			Debounce: watchDebounce,
		}, logger)
		if err != nil {
			return err
		}

		logger.Info("watching for changes", zap.Strings("layer_folders", dirs))
		return w.Run(cmd.Context(), rebuild)
	},
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a rebuild")
}
