package provider

import (
	"context"
	"math"

	"github.com/example/scriptvoice/internal/localtts"
	"github.com/example/scriptvoice/internal/pcm"
)

// LocalNeuralProvider runs a neural synthesis model in-process through
// ONNX Runtime. It is the voice-cloning-capable reference backend: the
// model conditions on exported voice embeddings, but has no emotion
// input, so emotion collapses into rate/pitch/volume before dispatch.
type LocalNeuralProvider struct {
	ManifestPath string
	Runtime      localtts.RuntimeConfig

	name   string
	engine *localtts.Engine
}

// NewLocalNeuralProvider constructs an in-process neural provider for
// the bundle described by manifestPath. The engine loads in Initialize
// so a broken bundle excludes the provider instead of failing startup.
func NewLocalNeuralProvider(name, manifestPath, ortLibraryPath string) *LocalNeuralProvider {
	return &LocalNeuralProvider{
		ManifestPath: manifestPath,
		Runtime:      localtts.RuntimeConfig{LibraryPath: ortLibraryPath},
		name:         name,
	}
}

func (p *LocalNeuralProvider) Name() string {
	if p.name == "" {
		return "local"
	}

	return p.name
}

func (p *LocalNeuralProvider) Initialize(_ context.Context) error {
	engine, err := localtts.NewEngine(p.ManifestPath, p.Runtime)
	if err != nil {
		return err
	}

	p.engine = engine

	return nil
}

func (p *LocalNeuralProvider) ListVoices(_ context.Context) ([]VoiceDescriptor, error) {
	if p.engine == nil {
		return nil, nil
	}

	entries := p.engine.Manifest().Voices
	voices := make([]VoiceDescriptor, len(entries))
	for i, v := range entries {
		voices[i] = VoiceDescriptor{ID: v.ID, Name: v.Name}
	}

	return voices, nil
}

func (p *LocalNeuralProvider) SupportsEmotions() bool     { return false }
func (p *LocalNeuralProvider) SupportsVoiceCloning() bool { return true }

func (p *LocalNeuralProvider) Synthesize(ctx context.Context, req SynthesisRequest) (pcm.Buffer, error) {
	if p.engine == nil {
		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureBackend, Cause: errNotInitialized}
	}

	if req.Emotion != nil {
		req = CollapseEmotion(req, *req.Emotion)
	}

	samples, err := p.engine.Synthesize(ctx, req.Text, req.VoiceID)
	if err != nil {
		if ctx.Err() != nil {
			return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureTimeout, Cause: ctx.Err()}
		}

		return pcm.Buffer{}, &SynthesisFailedError{Provider: p.Name(), Kind: FailureBackend, Cause: err}
	}

	if req.Volume > 0 && req.Volume != 1.0 {
		for i, s := range samples {
			samples[i] = float32(math.Max(-1, math.Min(1, float64(s)*req.Volume)))
		}
	}

	// The model has no prosody input, so the rate multiplier is applied
	// as a playback-speed change: reinterpreting the source rate before
	// canonicalization stretches or squeezes the output (pitch rides
	// along with it).
	sourceRate := p.engine.SampleRate()
	if req.Rate > 0 && req.Rate != 1.0 {
		sourceRate = int(math.Round(float64(sourceRate) * req.Rate))
	}

	return pcm.FromFloat32Mono(samples, sourceRate), nil
}

// Close releases the underlying ORT session.
func (p *LocalNeuralProvider) Close() {
	if p.engine != nil {
		p.engine.Close()
	}
}
