package localtts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// RuntimeConfig holds ONNX Runtime library settings.
type RuntimeConfig struct {
	LibraryPath string
	APIVersion  uint32
}

// RuntimeInfo reports the resolved ONNX Runtime shared library.
type RuntimeInfo struct {
	LibraryPath string
	Version     string
}

var versionPattern = regexp.MustCompile(`([0-9]+\.[0-9]+\.[0-9]+)`)

// DetectRuntime resolves the ONNX Runtime shared library path, trying
// the explicit config value, then the SCRIPTVOICE_ORT_LIB and
// ORT_LIBRARY_PATH environment variables, then well-known install
// locations.
func DetectRuntime(cfg RuntimeConfig) (RuntimeInfo, error) {
	path := cfg.LibraryPath
	if path == "" {
		path = os.Getenv("SCRIPTVOICE_ORT_LIB")
	}

	if path == "" {
		path = os.Getenv("ORT_LIBRARY_PATH")
	}

	if path == "" {
		candidates := []string{
			"/usr/lib/libonnxruntime.so",
			"/usr/local/lib/libonnxruntime.so",
			"/opt/homebrew/lib/libonnxruntime.dylib",
			"C:/onnxruntime/lib/onnxruntime.dll",
		}
		for _, c := range candidates {
			if _, err := os.Stat(c); err == nil {
				path = c
				break
			}
		}
	}

	if path == "" {
		return RuntimeInfo{LibraryPath: "not found", Version: "unknown"}, errors.New("unable to detect ONNX Runtime library path")
	}

	if _, err := os.Stat(path); err != nil {
		return RuntimeInfo{LibraryPath: path, Version: "unknown"}, fmt.Errorf("onnx runtime library path check failed: %w", err)
	}

	return RuntimeInfo{LibraryPath: path, Version: inferVersionFromPath(path)}, nil
}

func inferVersionFromPath(path string) string {
	name := filepath.Base(path)
	if m := versionPattern.FindStringSubmatch(name); len(m) == 2 {
		return m[1]
	}

	return "unknown"
}
