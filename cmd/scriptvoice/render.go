package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/scriptvoice/internal/config"
	"github.com/example/scriptvoice/internal/mixer"
	"github.com/example/scriptvoice/internal/pipeline"
	"github.com/example/scriptvoice/internal/renderplan"
	"github.com/example/scriptvoice/internal/voiceengine"
	"github.com/spf13/cobra"
)

func newRenderCmd() *cobra.Command {
	var planPath string
	var outDir string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a RenderPlan JSON file into per-character and master WAV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			plan, err := loadRenderPlan(planPath)
			if err != nil {
				return err
			}

			engine, err := buildRenderPipelineEngine(cfg)
			if err != nil {
				return err
			}

			opts := pipeline.DefaultOptions()
			opts.Mixer = mixer.Options{
				Normalize:        cfg.Mixer.Normalize,
				CompressionLevel: cfg.Mixer.CompressionLevel,
				CrossfadeMs:      cfg.Mixer.CrossfadeMs,
				Spatial:          cfg.Mixer.Spatial,
			}

			result, err := pipeline.Render(cmd.Context(), plan, engine, opts)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			return writeRenderOutput(outDir, result)
		},
	}

	cmd.Flags().StringVar(&planPath, "plan", "", "Path to a RenderPlan JSON file (required)")
	cmd.Flags().StringVar(&outDir, "out-dir", "render-out", "Directory to write per-character and master WAV files into")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func loadRenderPlan(path string) (*renderplan.RenderPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read render plan %q: %w", path, err)
	}

	var plan renderplan.RenderPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("parse render plan %q: %w", path, err)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render plan: %w", err)
	}

	return &plan, nil
}

// buildRenderPipelineEngine assembles the same provider Registry as the
// server's /render endpoint, so `scriptvoice render` and `scriptvoice serve`
// dispatch synthesis identically.
func buildRenderPipelineEngine(cfg config.Config) (*voiceengine.Engine, error) {
	registry := buildProviderRegistry(cfg)
	if registry.Len() == 0 {
		return nil, fmt.Errorf("no render provider initialized; run `scriptvoice doctor` to diagnose")
	}

	return voiceengine.New(registry), nil
}

func writeRenderOutput(outDir string, result pipeline.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", outDir, err)
	}

	for _, track := range result.Tracks {
		wav, err := pipeline.EncodeTrackWAV(track)
		if err != nil {
			return fmt.Errorf("encode track %q: %w", track.CharacterID, err)
		}

		path := filepath.Join(outDir, track.CharacterID+".wav")
		if err := os.WriteFile(path, wav, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	if result.Master != nil {
		wav, err := pipeline.EncodeMasterWAV(*result.Master)
		if err != nil {
			return fmt.Errorf("encode master: %w", err)
		}

		path := filepath.Join(outDir, "master.wav")
		if err := os.WriteFile(path, wav, 0o644); err != nil {
			return fmt.Errorf("write %q: %w", path, err)
		}
	}

	return nil
}
