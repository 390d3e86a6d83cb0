package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/catalog"
	"github.com/ironsheep/icon-forge/internal/config"
	"github.com/ironsheep/icon-forge/internal/paths"
)

var scanSource string

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Update the layering file from the base images on disk",
	Long: `Scans the source folder and rewrites the layering file so it lists every base
image. Existing entries keep their layers, new images get a single empty layer
and entries whose image is gone are removed. Changes are printed.

The source folder defaults to input_path from the settings file, or Source_Pack
when there is no settings file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := scanSource
		if source == "" {
			source = config.DefaultInputPath
			settings, err := config.LoadSettings(settingsPath)
			switch {
			case err == nil:
				source = paths.ResolveOrDefault(settings.InputPath, config.DefaultInputPath, paths.DetectPlatform(), logger)
			case errors.Is(err, config.ErrNoSettings):
				logger.Debug("no settings file, scanning default source folder", zap.String("source", source))
			default:
				return err
			}
		}

		res, err := catalog.Update(source, layeringPath, logger)
		if err != nil {
			return err
		}
		renderCatalog(cmd.OutOrStdout(), layeringPath, res)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanSource, "source", "", "Source folder to scan")
}
