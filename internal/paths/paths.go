// Package paths resolves user supplied folders for the host platform.
//
// Settings files are often shared between machines, so a folder written for
// Windows may reach a Linux build and the other way round. Paths that cannot
// be valid on the running platform are rejected rather than silently turned
// into odd relative paths.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Platform identifies the operating system family a path is checked against.
type Platform int

const (
	Unknown Platform = iota
	Linux
	Windows
	MacOS
)

func (p Platform) String() string {
	switch p {
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	case MacOS:
		return "macos"
	default:
		return "unknown"
	}
}

// DetectPlatform returns the platform of the running binary.
func DetectPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "linux":
		return Linux
	case "windows":
		return Windows
	case "darwin":
		return MacOS
	default:
		return Unknown
	}
}

// IsCompatible reports whether path can be a valid path on platform.
//
// Unix-like platforms reject drive letters and backslashes. Windows rejects
// paths rooted at '/' and home shortcuts. Nothing is compatible with Unknown.
func IsCompatible(path string, platform Platform) bool {
	switch platform {
	case Linux, MacOS:
		return !strings.ContainsAny(path, `:\`)
	case Windows:
		return !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "~")
	default:
		return false
	}
}

// ResolveFullPath expands a leading "~" to the home directory and makes the
// result absolute against the working directory. An empty path stays empty.
func ResolveFullPath(path string) string {
	if path == "" {
		return ""
	}

	p := path
	if runtime.GOOS != "windows" && (p == "~" || strings.HasPrefix(p, "~/")) {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(p, "~"), "/"))
		}
	}

	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return filepath.Join(wd, p)
}

// ResolveOrDefault resolves provided, falling back to def when provided is
// empty, incompatible with platform, or does not exist.
func ResolveOrDefault(provided, def string, platform Platform, logger *zap.Logger) string {
	if logger == nil {
		logger = zap.NewNop()
	}

	candidate := provided
	if candidate == "" {
		candidate = def
	}
	resolved := ResolveFullPath(candidate)

	if !IsCompatible(resolved, platform) {
		logger.Warn("incompatible path for platform, using default",
			zap.Stringer("platform", platform),
			zap.String("path", resolved),
			zap.String("default", def))
		return def
	}
	if !Exists(resolved) {
		logger.Warn("path does not exist, using default",
			zap.String("path", resolved),
			zap.String("default", def))
		return def
	}
	return resolved
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// StripPNG removes a trailing ".png" (any case) from name.
func StripPNG(name string) string {
	if len(name) >= 4 && strings.EqualFold(name[len(name)-4:], ".png") {
		return name[:len(name)-4]
	}
	return name
}

// ForcePNG joins dir and name, making sure the file name ends in ".png"
// exactly once.
func ForcePNG(dir, name string) string {
	return filepath.Join(dir, StripPNG(name)+".png")
}
