package compose

import (
	"image"

	"go.uber.org/zap"

	"github.com/ironsheep/icon-forge/internal/imaging"
	"github.com/ironsheep/icon-forge/internal/layer"
)

// Source opens decoded images by path.
type Source interface {
	Open(path string) (image.Image, error)
}

// Sink persists a finished image at path, creating parent directories.
type Sink interface {
	Save(path string, img image.Image) error
}

// Stacker draws an ordered list of layer specs onto a canvas.
type Stacker struct {
	// Layers opens layer files.
	Layers Source

	// Tinter recolors layers whose spec carries a color.
	Tinter imaging.Tinter

	Logger *zap.Logger
}

// Stack applies specs to canvas in order, each one drawn over the result of
// the previous ones, and returns the layer paths that could not be opened.
//
// Placeholder specs are skipped without touching the canvas. A missing layer
// is recorded and stacking continues. A tint that does not parse falls back to
// drawing the layer as loaded.
func (s *Stacker) Stack(canvas *imaging.Canvas, specs []string, folder string) []string {
	log := s.logger()
	var unresolved []string

	for _, raw := range specs {
		if layer.IsSentinel(raw) {
			continue
		}

		path, spec := layer.Resolve(raw, folder)
		img, err := s.Layers.Open(path)
		if err != nil {
			log.Debug("layer unavailable", zap.String("path", path), zap.Error(err))
			unresolved = append(unresolved, path)
			continue
		}

		if spec.Tinted {
			if spec.Tint != nil {
				img = s.Tinter.Colorize(imaging.ToGrayAlpha(img), *spec.Tint)
			} else {
				log.Warn("ignoring unparsable tint",
					zap.String("spec", raw),
					zap.String("path", path),
					zap.Error(spec.TintErr))
			}
		}

		canvas.Overlay(img)
	}

	return unresolved
}

func (s *Stacker) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
