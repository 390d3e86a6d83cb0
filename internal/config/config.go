// Package config loads the settings and layering files that drive a build.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/icon-forge/internal/imaging"
)

// Default file and folder names, relative to the working directory.
const (
	DefaultSettingsFile = "settings.json"
	DefaultLayeringFile = "elements_layering.json"
	DefaultInputPath    = "Source_Pack"
	DefaultOutputPath   = "Output_Pack"
)

// ErrNoSettings is returned when the settings file does not exist.
var ErrNoSettings = errors.New("settings file not found")

// Settings holds all icon-forge build configuration.
type Settings struct {
	// LayersLocation maps an element type to the folder holding its layers.
	LayersLocation map[string]string `yaml:"layers_location" json:"layers_location"`

	InputPath  string `yaml:"input_path" json:"input_path"`
	OutputPath string `yaml:"output_path" json:"output_path"`

	// LayersMode is how LayersLocation entries are checked: fixed, settings or platform.
	LayersMode string `yaml:"layers_mode" json:"layers_mode"`

	// Workers bounds concurrent compositions. 0 uses one per CPU.
	Workers int `yaml:"workers" json:"workers"`

	Tint TintSettings `yaml:"tint" json:"tint"`

	// MissingLayers is "aggregate" (report) or "ignore".
	MissingLayers string `yaml:"missing_layers" json:"missing_layers"`

	// CacheLayers keeps decoded layer images in memory for the whole build.
	CacheLayers bool `yaml:"cache_layers" json:"cache_layers"`
}

// TintSettings configures mask recoloring.
type TintSettings struct {
	Threshold    int  `yaml:"threshold" json:"threshold"`
	UseThreshold bool `yaml:"use_threshold" json:"use_threshold"`
}

// DefaultSettings returns the settings used when a file omits a field.
func DefaultSettings() Settings {
	return Settings{
		LayersLocation: map[string]string{},
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		LayersMode:     "platform",
		Tint: TintSettings{
			Threshold:    imaging.DefaultTintThreshold,
			UseThreshold: true,
		},
		MissingLayers: "aggregate",
	}
}

// LoadSettings reads settings from path over DefaultSettings.
//
// Files ending in .yaml or .yml are decoded as YAML, anything else as JSON.
// Environment overrides are applied afterwards.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, fmt.Errorf("%w: %s", ErrNoSettings, path)
		}
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		err = json.Unmarshal(data, &s)
	}
	if err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if s.LayersLocation == nil {
		s.LayersLocation = map[string]string{}
	}

	if err := ApplyEnv(&s); err != nil {
		return s, err
	}
	return s, s.Validate()
}

// ApplyEnv overrides settings from ICON_FORGE_INPUT, ICON_FORGE_OUTPUT and
// ICON_FORGE_WORKERS when they are set.
func ApplyEnv(s *Settings) error {
	if v := os.Getenv("ICON_FORGE_INPUT"); v != "" {
		s.InputPath = v
	}
	if v := os.Getenv("ICON_FORGE_OUTPUT"); v != "" {
		s.OutputPath = v
	}
	if v := os.Getenv("ICON_FORGE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ICON_FORGE_WORKERS %q: %w", v, err)
		}
		s.Workers = n
	}
	return nil
}

// Validate checks values that cannot be fixed up later.
func (s Settings) Validate() error {
	if s.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", s.Workers)
	}
	if s.Tint.Threshold < 0 || s.Tint.Threshold > 255 {
		return fmt.Errorf("tint threshold must be within 0-255, got %d", s.Tint.Threshold)
	}
	switch s.LayersMode {
	case "", "fixed", "settings", "platform":
	default:
		return fmt.Errorf("unknown layers_mode %q", s.LayersMode)
	}
	switch s.MissingLayers {
	case "", "aggregate", "ignore":
	default:
		return fmt.Errorf("unknown missing_layers %q", s.MissingLayers)
	}
	return nil
}

// Tinter returns the mask tinter described by the settings.
func (s Settings) Tinter() imaging.Tinter {
	return imaging.Tinter{
		Threshold:    uint8(s.Tint.Threshold),
		UseThreshold: s.Tint.UseThreshold,
	}
}
