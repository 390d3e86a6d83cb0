// Package logging builds the zap logger shared by every icon-forge command.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvLevel names the environment variable that overrides the log level.
const EnvLevel = "ICON_FORGE_LOG_LEVEL"

// Options configures New.
type Options struct {
	// Verbose enables debug output.
	Verbose bool

	// JSON switches from the console encoder to JSON lines.
	JSON bool
}

// New returns a logger writing to stderr. stdout stays free for command
// output and the MCP protocol stream.
//
// The level is info, or debug with Verbose. A valid level in
// ICON_FORGE_LOG_LEVEL takes precedence over both.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	if v := strings.TrimSpace(os.Getenv(EnvLevel)); v != "" {
		parsed, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLevel, err)
		}
		level = parsed
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Sampling = nil
	if !opts.JSON {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.DisableStacktrace = level > zapcore.DebugLevel

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
