package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/icon-forge/internal/imaging"
)

// writeTestImage encodes img as PNG at path, creating parent folders.
func writeTestImage(t *testing.T, path string, img image.Image) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create folder: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestImageFile creates a solid test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return writeTestImage(t, filepath.Join(t.TempDir(), "test.png"), img)
}

// callTool runs a tools/call request and returns the decoded text payload or
// the error response.
func callTool(t *testing.T, s *Server, name string, args interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	paramsJSON, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &payload); err != nil {
		t.Fatalf("tool result is not a JSON object: %v", err)
	}
	return payload, nil
}

func mustCall(t *testing.T, s *Server, name string, args interface{}) map[string]interface{} {
	t.Helper()
	payload, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %s (%v)", name, mcpErr.Message, mcpErr.Data)
	}
	return payload
}

// composeFixture lays out a source pack with one base image and one white layer.
func composeFixture(t *testing.T) (src, out, layers string) {
	t.Helper()
	root := t.TempDir()
	src = filepath.Join(root, "Source_Pack")
	out = filepath.Join(root, "Output_Pack")
	layers = filepath.Join(root, "layers")

	base := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	base.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	writeTestImage(t, filepath.Join(src, "items", "sword.png"), base)

	white := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	white.SetNRGBA(0, 0, color.NRGBA{255, 255, 255, 255})
	white.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	writeTestImage(t, filepath.Join(layers, "frame.png"), white)
	return src, out, layers
}

func TestHandleToolsCall_IconCompose(t *testing.T) {
	s := New(nil, "")
	src, out, layers := composeFixture(t)

	payload := mustCall(t, s, "icon_compose", map[string]interface{}{
		"source_dir":   src,
		"output_dir":   out,
		"element_type": "items",
		"asset_id":     "sword",
		"layers":       []string{"frame#0000FF", "none", "glow"},
		"layer_folder": layers,
		"return_image": true,
	})

	if payload["status"] != "written" {
		t.Fatalf("status: got %v, want written", payload["status"])
	}
	if payload["output"] != filepath.Join(out, "items", "sword.png") {
		t.Errorf("output: got %v", payload["output"])
	}

	missing, ok := payload["missing_layers"].([]interface{})
	if !ok || len(missing) != 1 {
		t.Fatalf("missing_layers: got %v, want one entry", payload["missing_layers"])
	}
	paths := missing[0].(map[string]interface{})["paths"].([]interface{})
	if len(paths) != 1 || paths[0] != filepath.Join(layers, "glow.png") {
		t.Errorf("missing paths: got %v", paths)
	}

	encoded, ok := payload["image"].(map[string]interface{})
	if !ok || encoded["width"] != float64(2) || encoded["mime_type"] != "image/png" {
		t.Errorf("image: got %v", payload["image"])
	}

	img, err := imaging.OpenImage(filepath.Join(out, "items", "sword.png"))
	if err != nil {
		t.Fatalf("output not readable: %v", err)
	}
	got := color.NRGBAModel.Convert(img.At(1, 0)).(color.NRGBA)
	if got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel (1,0): got %v, want tinted blue", got)
	}
	got = color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	if got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel (0,0): got %v, want base red", got)
	}
}

func TestHandleToolsCall_IconComposeMissingAsset(t *testing.T) {
	s := New(nil, "")
	src, out, layers := composeFixture(t)

	payload := mustCall(t, s, "icon_compose", map[string]interface{}{
		"source_dir":   src,
		"output_dir":   out,
		"element_type": "items",
		"asset_id":     "shield",
		"layers":       []string{"frame"},
		"layer_folder": layers,
	})

	if payload["status"] != "skipped" {
		t.Errorf("status: got %v, want skipped", payload["status"])
	}
	skipped, _ := payload["skipped"].([]interface{})
	if len(skipped) != 1 || skipped[0] != "shield" {
		t.Errorf("skipped: got %v", payload["skipped"])
	}
	if payload["error"] == nil {
		t.Error("expected the open error to be reported")
	}
	if _, err := os.Stat(filepath.Join(out, "items", "shield.png")); !os.IsNotExist(err) {
		t.Error("skipped asset must not produce output")
	}
}

func TestHandleToolsCall_IconComposeInvalidArgs(t *testing.T) {
	s := New(nil, "")
	src, out, _ := composeFixture(t)

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing asset id", map[string]interface{}{"source_dir": src, "output_dir": out, "element_type": "items"}},
		{"threshold out of range", map[string]interface{}{
			"source_dir": src, "output_dir": out, "element_type": "items", "asset_id": "sword", "threshold": 300,
		}},
		{"unknown policy", map[string]interface{}{
			"source_dir": src, "output_dir": out, "element_type": "items", "asset_id": "sword", "missing_layers": "loud",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, mcpErr := callTool(t, s, "icon_compose", tt.args)
			if mcpErr == nil || mcpErr.Code != -32000 {
				t.Errorf("expected tool execution error, got %+v", mcpErr)
			}
		})
	}
}

func TestHandleToolsCall_IconComposeBatch(t *testing.T) {
	s := New(nil, "")
	src, out, layers := composeFixture(t)
	dir := t.TempDir()

	settings := map[string]interface{}{
		"layers_location": map[string]string{"items": layers},
		"input_path":      src,
		"output_path":     out,
		"layers_mode":     "fixed",
		"workers":         2,
	}
	data, _ := json.Marshal(settings)
	settingsPath := filepath.Join(dir, "settings.json")
	if err := os.WriteFile(settingsPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	layering := `{"items": {"sword": ["frame#00FF00"], "shield": ["frame"]}}`
	if err := os.WriteFile(filepath.Join(dir, "elements_layering.json"), []byte(layering), 0o644); err != nil {
		t.Fatal(err)
	}

	payload := mustCall(t, s, "icon_compose_batch", map[string]interface{}{"settings": settingsPath})

	if payload["tasks"] != float64(2) || payload["written"] != float64(1) {
		t.Errorf("report: got %v", payload)
	}
	skipped, _ := payload["skipped"].([]interface{})
	if len(skipped) != 1 || skipped[0] != "shield" {
		t.Errorf("skipped: got %v", payload["skipped"])
	}
	if payload["run_id"] == "" {
		t.Error("run_id should be set")
	}
}

func TestHandleToolsCall_IconComposeBatchNoSettings(t *testing.T) {
	s := New(nil, "")
	_, mcpErr := callTool(t, s, "icon_compose_batch", map[string]interface{}{
		"settings": filepath.Join(t.TempDir(), "settings.json"),
	})
	if mcpErr == nil {
		t.Fatal("expected error for missing settings")
	}
}

func TestHandleToolsCall_IconTint(t *testing.T) {
	s := New(nil, "")
	mask := createTestImageFile(t, 4, 3, color.NRGBA{255, 255, 255, 200})

	payload := mustCall(t, s, "icon_tint", map[string]interface{}{
		"path":  mask,
		"color": "ff8000",
	})

	if payload["tint"] != "#FF8000" {
		t.Errorf("tint: got %v", payload["tint"])
	}
	if payload["width"] != float64(4) || payload["height"] != float64(3) {
		t.Errorf("size: got %vx%v", payload["width"], payload["height"])
	}
	if payload["image_base64"] == "" {
		t.Error("image_base64 should not be empty")
	}
}

func TestHandleToolsCall_IconTintInvalidColor(t *testing.T) {
	s := New(nil, "")
	mask := createTestImageFile(t, 2, 2, color.White)

	for _, c := range []string{"", "#12345", "zzzzzz"} {
		t.Run(fmt.Sprintf("color %q", c), func(t *testing.T) {
			_, mcpErr := callTool(t, s, "icon_tint", map[string]interface{}{"path": mask, "color": c})
			if mcpErr == nil {
				t.Error("expected error for invalid color")
			}
		})
	}
}

func TestHandleToolsCall_IconSampleColor(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 10, 10, color.NRGBA{51, 102, 204, 255})

	payload := mustCall(t, s, "icon_sample_color", map[string]interface{}{"path": imgPath, "x": 3, "y": 7})
	if payload["hex"] != "#3366CC" {
		t.Errorf("hex: got %v, want #3366CC", payload["hex"])
	}

	_, mcpErr := callTool(t, s, "icon_sample_color", map[string]interface{}{"path": imgPath, "x": 10, "y": 0})
	if mcpErr == nil {
		t.Error("expected error for out-of-bounds sample")
	}
}

func TestHandleToolsCall_IconPalette(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 20, 20, color.NRGBA{200, 30, 30, 255})

	payload := mustCall(t, s, "icon_palette", map[string]interface{}{"path": imgPath, "count": 3})
	colors, ok := payload["colors"].([]interface{})
	if !ok || len(colors) == 0 {
		t.Fatalf("colors: got %v", payload["colors"])
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New(nil, "")
	imgPath := createTestImageFile(t, 200, 150, color.NRGBA{0, 255, 0, 255})

	payload := mustCall(t, s, "image_dimensions", map[string]interface{}{"path": imgPath})
	if payload["width"] != float64(200) || payload["height"] != float64(150) {
		t.Errorf("dimensions: got %vx%v, want 200x150", payload["width"], payload["height"])
	}
}

func TestHandleToolsCall_FileNotFound(t *testing.T) {
	s := New(nil, "")
	_, mcpErr := callTool(t, s, "image_dimensions", map[string]interface{}{"path": "/nonexistent/image.png"})
	if mcpErr == nil {
		t.Fatal("expected error for missing file")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New(nil, "")
	_, mcpErr := callTool(t, s, "image_ocr_full", map[string]interface{}{})
	if mcpErr == nil || mcpErr.Code != -32000 {
		t.Errorf("expected tool execution error, got %+v", mcpErr)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil, "")
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{"name": 42}`),
	})
	if resp == nil || resp.Error == nil {
		t.Fatal("expected error response")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
