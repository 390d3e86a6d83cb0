package batch

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/compose"
	"github.com/ironsheep/icon-forge/internal/config"
	"github.com/ironsheep/icon-forge/internal/imaging"
	"github.com/ironsheep/icon-forge/internal/paths"
)

// FolderMode selects how configured layer folders are turned into the folder
// each task stacks from.
type FolderMode int

const (
	// FolderFixed uses the configured folders verbatim.
	FolderFixed FolderMode = iota

	// FolderSettings makes configured folders absolute and skips empty entries.
	FolderSettings

	// FolderPlatform additionally drops folders that are incompatible with the
	// platform or do not exist.
	FolderPlatform
)

// ParseFolderMode maps "fixed", "settings" and "platform" to a mode. The
// empty string selects FolderPlatform.
func ParseFolderMode(s string) (FolderMode, error) {
	switch s {
	case "fixed":
		return FolderFixed, nil
	case "settings":
		return FolderSettings, nil
	case "", "platform":
		return FolderPlatform, nil
	default:
		return FolderPlatform, fmt.Errorf("unknown folder mode %q", s)
	}
}

func (m FolderMode) String() string {
	switch m {
	case FolderFixed:
		return "fixed"
	case FolderSettings:
		return "settings"
	default:
		return "platform"
	}
}

// Options configures an Orchestrator.
type Options struct {
	// SourceDir holds one sub-folder of base images per element type.
	SourceDir string

	// OutputDir receives one sub-folder of icons per element type.
	OutputDir string

	Mode FolderMode

	// Folders maps element types to their layer folder. Element types without
	// an entry are composed without layers.
	Folders map[string]string

	// Platform is checked in FolderPlatform mode.
	Platform paths.Platform

	// Workers bounds concurrent compositions. Zero or less uses runtime.NumCPU.
	Workers int

	Tinter        imaging.Tinter
	MissingPolicy compose.MissingPolicy

	// CacheLayers shares decoded layer images across tasks.
	CacheLayers bool

	// Assets, Layers and Output override the filesystem stores.
	Assets compose.Source
	Layers compose.Source
	Output compose.Sink
}

// LayerFolder returns the layer folder of elementType under the configured
// mode, or "" when the element type gets no layers.
func (o Options) LayerFolder(elementType string) string {
	folder := o.Folders[elementType]
	if folder == "" {
		return ""
	}

	switch o.Mode {
	case FolderFixed:
		return folder
	case FolderSettings:
		return paths.ResolveFullPath(folder)
	default:
		resolved := paths.ResolveFullPath(folder)
		if !paths.IsCompatible(resolved, o.Platform) || !paths.Exists(resolved) {
			return ""
		}
		return resolved
	}
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// OptionsFromSettings resolves settings into orchestrator options.
//
// The source folder must exist; the output folder is created. Both fall back
// to their defaults when the configured path is unusable on this platform.
func OptionsFromSettings(s config.Settings, logger *zap.Logger) (Options, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	platform := paths.DetectPlatform()

	mode, err := ParseFolderMode(s.LayersMode)
	if err != nil {
		return Options{}, err
	}
	policy, err := compose.ParseMissingPolicy(s.MissingLayers)
	if err != nil {
		return Options{}, err
	}

	source := paths.ResolveFullPath(paths.ResolveOrDefault(s.InputPath, config.DefaultInputPath, platform, logger))
	if !paths.IsDir(source) {
		return Options{}, fmt.Errorf("input folder does not exist or is not a directory: %s", source)
	}

	output := s.OutputPath
	if output == "" || !paths.IsCompatible(paths.ResolveFullPath(output), platform) {
		output = config.DefaultOutputPath
	}
	output = paths.ResolveFullPath(output)
	if err := os.MkdirAll(output, 0o755); err != nil {
		return Options{}, fmt.Errorf("failed to create output folder: %w", err)
	}

	folders := make(map[string]string, len(s.LayersLocation))
	for k, v := range s.LayersLocation {
		folders[k] = v
	}

	return Options{
		SourceDir:     source,
		OutputDir:     output,
		Mode:          mode,
		Folders:       folders,
		Platform:      platform,
		Workers:       s.Workers,
		Tinter:        s.Tinter(),
		MissingPolicy: policy,
		CacheLayers:   s.CacheLayers,
	}, nil
}
