package main

import (
	"context"

	"github.com/example/scriptvoice/internal/config"
	"github.com/example/scriptvoice/internal/provider"
)

// buildProviderRegistry assembles the reference provider set: an HTTP
// relay backend when a base URL is configured (the emotion-capable
// reference backend), a CLI subprocess backend when an executable path
// is configured (the non-emotion reference backend), plus the
// in-process neural backend when a bundle manifest is configured. `scriptvoice render`, `scriptvoice voices`, and
// `scriptvoice doctor` all build their Registry this way so they agree
// on which providers are available.
func buildProviderRegistry(cfg config.Config) *provider.Registry {
	var candidates []provider.Provider
	if cfg.TTS.HTTPRelayURL != "" {
		candidates = append(candidates, provider.NewHTTPRelayProvider(config.BackendHTTPRelay, cfg.TTS.HTTPRelayURL, cfg.TTS.HTTPRelayAPIKey))
	}
	if cfg.TTS.CLIPath != "" {
		candidates = append(candidates, provider.NewCLIProvider(config.BackendCLI, cfg.TTS.CLIPath, cfg.TTS.CLIConfigPath))
	}
	if cfg.TTS.ModelManifestPath != "" {
		candidates = append(candidates, provider.NewLocalNeuralProvider(config.BackendLocal, cfg.TTS.ModelManifestPath, cfg.TTS.ORTLibraryPath))
	}

	return provider.NewRegistry(context.Background(), candidates...)
}
