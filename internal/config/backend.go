package config

import (
	"fmt"
	"strings"
)

// Backend names identify which provider.Provider backs the engine's
// reference synthesis path: http-relay is the emotion-capable reference
// backend, cli the non-emotion subprocess backend, and local the
// in-process neural backend.
const (
	BackendHTTPRelay = "http-relay"
	BackendCLI       = "cli"
	BackendLocal     = "local"
)

func NormalizeBackend(raw string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(raw))
	if backend == "" {
		backend = BackendHTTPRelay
	}
	switch backend {
	case BackendHTTPRelay, BackendCLI, BackendLocal:
		return backend, nil
	default:
		return "", fmt.Errorf("invalid backend %q (expected %s|%s|%s)", raw, BackendHTTPRelay, BackendCLI, BackendLocal)
	}
}
