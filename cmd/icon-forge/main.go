package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/config"
	"github.com/ironsheep/icon-forge/internal/logging"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var (
	// Global flags
	verbose      bool
	jsonLogs     bool
	settingsPath string
	layeringPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "icon-forge",
	Short: "Compose game icons from base images and tinted layers",
	Long: `icon-forge builds a pack of game icons.

Every asset listed in the layering file gets its layers (frames, glows,
backgrounds) drawn in order on a transparent canvas, with the base image on top.
Layers written as name#RRGGBB are grayscale masks recolored to that tint.

Run without a subcommand to build the pack described by settings.json and
elements_layering.json in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logging.Options{Verbose: verbose, JSON: jsonLogs})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runBuild,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "icon-forge %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "log-json", false, "Write logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", config.DefaultSettingsFile, "Settings file (JSON or YAML)")
	rootCmd.PersistentFlags().StringVar(&layeringPath, "layering", config.DefaultLayeringFile, "Layering file")

	addBuildFlags(rootCmd)

	rootCmd.AddCommand(buildCmd, scanCmd, watchCmd, serveCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
