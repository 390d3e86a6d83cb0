package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var thresholdProperties = map[string]interface{}{
	"threshold": map[string]interface{}{
		"type":        "integer",
		"description": "Mask pixels darker than this keep their gray value instead of taking the tint. Default 37",
		"default":     37,
		"minimum":     0,
		"maximum":     255,
	},
	"use_threshold": map[string]interface{}{
		"type":        "boolean",
		"description": "Apply the dark-pixel threshold. Default true",
		"default":     true,
	},
}

func withTint(props map[string]interface{}) map[string]interface{} {
	for k, v := range thresholdProperties {
		props[k] = v
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Composition
		{
			Name: "icon_compose",
			Description: "Compose one icon: stack the listed layers (optionally tinted with name#RRGGBB) " +
				"onto a transparent canvas, draw the base image <source_dir>/<element_type>/<asset_id>.png on top, " +
				"and write <output_dir>/<last element of element_type>/<asset_id>.png. Reports skipped assets and missing layers.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withTint(map[string]interface{}{
					"source_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder holding one sub-folder of base images per element type",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Folder that receives the finished icon",
					},
					"element_type": map[string]interface{}{
						"type":        "string",
						"description": "Element type, e.g. items or skills/fire",
					},
					"asset_id": map[string]interface{}{
						"type":        "string",
						"description": "Asset name without extension",
					},
					"layers": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Layer specs in drawing order. Empty strings and \"none\" are skipped",
					},
					"layer_folder": map[string]interface{}{
						"type":        "string",
						"description": "Folder the layer names resolve against. Empty disables layers",
					},
					"missing_layers": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"aggregate", "ignore"},
						"description": "Whether missing layer files are reported. Default aggregate",
					},
					"return_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return the finished icon as base64 PNG",
					},
				}),
				"required": []string{"source_dir", "output_dir", "element_type", "asset_id"},
			},
		},
		{
			Name:        "icon_compose_batch",
			Description: "Compose every asset listed in a layering file using a settings file, and return the run report.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"settings": map[string]interface{}{
						"type":        "string",
						"description": "Path to settings.json or settings.yaml. Default settings.json",
					},
					"layering": map[string]interface{}{
						"type":        "string",
						"description": "Path to the layering file. Default elements_layering.json next to the settings",
					},
				},
			},
		},
		{
			Name:        "icon_tint",
			Description: "Recolor a grayscale alpha mask with a hex color and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withTint(map[string]interface{}{
					"path": pathProperty,
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Tint as RRGGBB or #RRGGBB",
					},
				}),
				"required": []string{"path", "color"},
			},
		},

		// Inspection
		{
			Name:        "icon_sample_color",
			Description: "Get the exact color value at a specific pixel coordinate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "icon_palette",
			Description: "Extract the dominant colors of an image, e.g. to pick tints that match a base icon.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of colors to return. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
