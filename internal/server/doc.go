// Package server implements the MCP (Model Context Protocol) server for icon composition.
//
// This package provides a JSON-RPC 2.0 server that exposes the icon-forge compositor
// through the MCP protocol, so an assistant can build icons, preview tints and
// inspect source art while a pack is being authored.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Composition:
//   - icon_compose: Build one icon from a base image and its layers
//   - icon_compose_batch: Build every icon of a layering file
//   - icon_tint: Recolor a grayscale mask
//
// Inspection:
//   - icon_sample_color: Get color at pixel
//   - icon_palette: Extract dominant colors
//   - image_dimensions: Get width and height
//
// # Image Caching
//
// Layer images and inspected images are cached by path for the lifetime of the
// server process. Base images are always read from disk, so edited source art is
// picked up by the next composition.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A composition whose base image is missing is not an error: the result reports
// status "skipped" along with the asset id.
//
// # Usage
//
//	srv := server.New(logger, version)
//	if err := srv.Run(ctx); err != nil {
//	    return err
//	}
package server
