package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ironsheep/icon-forge/internal/batch"
	"github.com/ironsheep/icon-forge/internal/compose"
	"github.com/ironsheep/icon-forge/internal/config"
	"github.com/ironsheep/icon-forge/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "icon_compose", "icon_tint").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Composition
	case "icon_compose":
		return s.handleIconCompose(args)
	case "icon_compose_batch":
		return s.handleIconComposeBatch(ctx, args)
	case "icon_tint":
		return s.handleIconTint(args)

	// Inspection
	case "icon_sample_color":
		return s.handleIconSampleColor(args)
	case "icon_palette":
		return s.handleIconPalette(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// tintArgs are the optional mask settings shared by composing tools.
type tintArgs struct {
	Threshold    *int  `json:"threshold,omitempty"`
	UseThreshold *bool `json:"use_threshold,omitempty"`
}

func (a tintArgs) tinter() (imaging.Tinter, error) {
	t := imaging.DefaultTinter()
	if a.UseThreshold != nil {
		t.UseThreshold = *a.UseThreshold
	}
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return t, fmt.Errorf("threshold must be within 0-255, got %d", *a.Threshold)
		}
		t.Threshold = uint8(*a.Threshold)
	}
	return t, nil
}

// === Composition Handlers ===

type iconComposeArgs struct {
	SourceDir     string   `json:"source_dir"`
	OutputDir     string   `json:"output_dir"`
	ElementType   string   `json:"element_type"`
	AssetID       string   `json:"asset_id"`
	Layers        []string `json:"layers"`
	LayerFolder   string   `json:"layer_folder"`
	MissingLayers string   `json:"missing_layers"`
	ReturnImage   bool     `json:"return_image"`
	tintArgs
}

// IconComposeResult reports a single composition.
type IconComposeResult struct {
	compose.Result
	Skipped       []string                `json:"skipped,omitempty"`
	MissingLayers []compose.MissingLayers `json:"missing_layers,omitempty"`
	Error         string                  `json:"error,omitempty"`
	Image         *imaging.EncodedImage   `json:"image,omitempty"`
}

func (s *Server) handleIconCompose(args json.RawMessage) (interface{}, error) {
	var a iconComposeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.SourceDir == "" || a.OutputDir == "" || a.ElementType == "" || a.AssetID == "" {
		return nil, errors.New("source_dir, output_dir, element_type and asset_id are required")
	}
	tinter, err := a.tinter()
	if err != nil {
		return nil, err
	}
	policy, err := compose.ParseMissingPolicy(a.MissingLayers)
	if err != nil {
		return nil, err
	}

	diag := compose.NewDiagnostics()
	files := imaging.NewFileStore()
	c := &compose.Compositor{
		SourceDir: a.SourceDir,
		OutputDir: a.OutputDir,
		Assets:    files,
		Output:    files,
		Stacker: &compose.Stacker{
			Layers: imaging.NewCachedFileStore(s.cache),
			Tinter: tinter,
			Logger: s.logger,
		},
		Diagnostics:   diag,
		MissingPolicy: policy,
		Logger:        s.logger,
	}

	res := c.Compose(compose.Task{
		ElementType: a.ElementType,
		AssetID:     a.AssetID,
		Layers:      a.Layers,
		LayerFolder: a.LayerFolder,
	})

	out := &IconComposeResult{
		Result:        res,
		Skipped:       diag.Skipped(),
		MissingLayers: diag.Missing(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	if a.ReturnImage && res.Status == compose.StatusWritten {
		img, err := imaging.OpenImage(res.Output)
		if err != nil {
			return nil, err
		}
		if out.Image, err = imaging.EncodePNG(img); err != nil {
			return nil, err
		}
	}
	return out, nil
}

type iconComposeBatchArgs struct {
	Settings string `json:"settings"`
	Layering string `json:"layering"`
}

func (s *Server) handleIconComposeBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a iconComposeBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Settings == "" {
		a.Settings = config.DefaultSettingsFile
	}
	if a.Layering == "" {
		a.Layering = filepath.Join(filepath.Dir(a.Settings), config.DefaultLayeringFile)
	}

	settings, err := config.LoadSettings(a.Settings)
	if err != nil {
		return nil, err
	}
	layering, err := config.LoadLayering(a.Layering)
	if err != nil {
		return nil, err
	}
	opts, err := batch.OptionsFromSettings(settings, s.logger)
	if err != nil {
		return nil, err
	}
	return batch.New(layering, opts, s.logger).Run(ctx)
}

type iconTintArgs struct {
	Path  string `json:"path"`
	Color string `json:"color"`
	tintArgs
}

// IconTintResult is a recolored mask.
type IconTintResult struct {
	Tint string `json:"tint"`
	*imaging.EncodedImage
}

func (s *Server) handleIconTint(args json.RawMessage) (interface{}, error) {
	var a iconTintArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tinter, err := a.tinter()
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	tinted, err := tinter.TintHex(img, a.Color)
	if err != nil {
		return nil, err
	}
	tint, _ := imaging.ParseTintColor(a.Color)
	encoded, err := imaging.EncodePNG(tinted)
	if err != nil {
		return nil, err
	}
	return &IconTintResult{Tint: tint.Hex(), EncodedImage: encoded}, nil
}

// === Inspection Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type iconSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleIconSampleColor(args json.RawMessage) (interface{}, error) {
	var a iconSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type iconPaletteArgs struct {
	Path  string `json:"path"`
	Count int    `json:"count"`
}

func (s *Server) handleIconPalette(args json.RawMessage) (interface{}, error) {
	var a iconPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count == 0 {
		a.Count = 5
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Palette(img, a.Count)
}
