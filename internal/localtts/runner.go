package localtts

import (
	"context"
	"fmt"

	ort "github.com/shota3506/onnxruntime-purego/onnxruntime"
)

// Runner wraps an ORT session for the synthesis graph.
type Runner struct {
	runtime  *ort.Runtime
	env      *ort.Env
	session  *ort.Session
	manifest *Manifest
}

// NewRunner loads the manifest's ONNX graph into an ORT session.
func NewRunner(m *Manifest, cfg RuntimeConfig) (*Runner, error) {
	if cfg.APIVersion == 0 {
		cfg.APIVersion = 23
	}

	info, err := DetectRuntime(cfg)
	if err != nil {
		return nil, err
	}

	runtime, err := ort.NewRuntime(info.LibraryPath, cfg.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("ort runtime: %w", err)
	}

	env, err := runtime.NewEnv("scriptvoice", ort.LoggingLevelWarning)
	if err != nil {
		_ = runtime.Close()
		return nil, fmt.Errorf("ort env: %w", err)
	}

	session, err := runtime.NewSession(env, m.ModelPath(), nil)
	if err != nil {
		env.Close()
		_ = runtime.Close()

		return nil, fmt.Errorf("ort session (%s): %w", m.ModelPath(), err)
	}

	return &Runner{
		runtime:  runtime,
		env:      env,
		session:  session,
		manifest: m,
	}, nil
}

// Run executes the synthesis graph for one token sequence. voiceData and
// voiceShape carry an optional conditioning embedding; both nil means the
// graph runs unconditioned.
func (r *Runner) Run(ctx context.Context, tokens []int64, voiceData []float32, voiceShape []int64) ([]float32, error) {
	inputs := make(map[string]*ort.Value, 2)

	tokenValue, err := ort.NewTensorValue(r.runtime, tokens, []int64{1, int64(len(tokens))})
	if err != nil {
		return nil, fmt.Errorf("input %q: %w", r.manifest.TokensIn, err)
	}

	inputs[r.manifest.TokensIn] = tokenValue

	if voiceData != nil && r.manifest.VoiceIn != "" {
		voiceValue, err := ort.NewTensorValue(r.runtime, voiceData, voiceShape)
		if err != nil {
			closeValues(inputs)
			return nil, fmt.Errorf("input %q: %w", r.manifest.VoiceIn, err)
		}

		inputs[r.manifest.VoiceIn] = voiceValue
	}

	defer closeValues(inputs)

	outputs, err := r.session.Run(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("run synthesis graph: %w", err)
	}
	defer closeValues(outputs)

	audio, ok := outputs[r.manifest.AudioOut]
	if !ok {
		return nil, fmt.Errorf("missing %q in graph output", r.manifest.AudioOut)
	}

	samples, _, err := ort.GetTensorData[float32](audio)
	if err != nil {
		return nil, fmt.Errorf("output %q: %w", r.manifest.AudioOut, err)
	}

	return samples, nil
}

// Close releases all ORT resources. Safe to call multiple times.
func (r *Runner) Close() {
	if r.session != nil {
		r.session.Close()
		r.session = nil
	}

	if r.env != nil {
		r.env.Close()
		r.env = nil
	}

	if r.runtime != nil {
		_ = r.runtime.Close()
		r.runtime = nil
	}
}

func closeValues(vals map[string]*ort.Value) {
	for _, v := range vals {
		if v != nil {
			v.Close()
		}
	}
}
