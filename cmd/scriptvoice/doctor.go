package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/example/scriptvoice/internal/config"
	"github.com/example/scriptvoice/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run local runtime and provider checks",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			exe := cfg.TTS.CLIPath
			if exe == "" {
				exe = "pocket-tts"
			}

			backend, err := config.NormalizeBackend(cfg.TTS.Backend)
			if err != nil {
				return err
			}

			cliMode := backend == config.BackendCLI
			_, _ = fmt.Fprintf(os.Stdout, "backend: %s\n", backend)

			var renderAssets []string
			if cfg.TTS.ModelManifestPath != "" {
				renderAssets = append(renderAssets, cfg.TTS.ModelManifestPath)
			}
			if cfg.TTS.CLIConfigPath != "" {
				renderAssets = append(renderAssets, cfg.TTS.CLIConfigPath)
			}

			dcfg := doctor.Config{
				PocketTTSVersion: func() (string, error) {
					return probePocketTTSVersion(exe)
				},
				SkipPocketTTS: !cliMode,
				PythonVersion: probePythonVersion,
				SkipPython:    true,
				ProviderNames: collectRenderProviderNames(cfg),
				RenderAssets:  renderAssets,
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					// #nosec G705 -- Writes plain diagnostic text to stderr for CLI output, not HTML rendering.
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}

// probePocketTTSVersion runs `pocket-tts --version` and returns its output.
func probePocketTTSVersion(exe string) (string, error) {
	out, err := exec.CommandContext(context.Background(), exe, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("%s --version failed: %w", exe, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// probePythonVersion tries python3 then python and returns the version string.
func probePythonVersion() (string, error) {
	for _, bin := range []string{"python3", "python"} {
		out, err := exec.CommandContext(context.Background(), bin, "--version").Output()
		if err != nil {
			continue
		}
		// Output is e.g. "Python 3.11.4\n"
		raw := strings.TrimSpace(string(out))

		raw = strings.TrimPrefix(raw, "Python ")
		if raw != "" {
			return raw, nil
		}
	}

	return "", errors.New("python3/python not found on PATH")
}

// collectRenderProviderNames builds the same provider Registry the
// render engine would use and reports which providers initialized
// successfully, so `scriptvoice doctor` catches a misconfigured render
// pipeline before a client ever sends a RenderPlan.
func collectRenderProviderNames(cfg config.Config) []string {
	return buildProviderRegistry(cfg).Names()
}
