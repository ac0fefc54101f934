package localtts

import (
	"context"
	"fmt"
	"sync"
)

// Engine owns the tokenizer and the ORT session for one synthesis
// bundle. It is constructed once and safe for concurrent use; the ORT
// session serializes runs internally, so Synthesize takes a lock rather
// than assuming the binding is re-entrant.
type Engine struct {
	manifest  *Manifest
	tokenizer *Tokenizer
	runner    *Runner

	mu     sync.Mutex
	voices map[string]voiceEmbedding // lazily loaded, keyed by voice id
}

type voiceEmbedding struct {
	data  []float32
	shape []int64
}

// NewEngine loads a synthesis bundle: manifest, tokenizer, and ONNX
// graph.
func NewEngine(manifestPath string, cfg RuntimeConfig) (*Engine, error) {
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	tok, err := NewTokenizer(m.TokenizerPath())
	if err != nil {
		return nil, err
	}

	runner, err := NewRunner(m, cfg)
	if err != nil {
		return nil, err
	}

	return &Engine{
		manifest:  m,
		tokenizer: tok,
		runner:    runner,
		voices:    make(map[string]voiceEmbedding),
	}, nil
}

// Manifest exposes the loaded bundle description.
func (e *Engine) Manifest() *Manifest { return e.manifest }

// SampleRate reports the model's native output rate in Hz.
func (e *Engine) SampleRate() int { return e.manifest.SampleRate }

// Synthesize tokenizes text and runs the synthesis graph, conditioning
// on the named voice embedding when voiceID is non-empty. It returns
// float32 mono PCM at the model's native sample rate.
func (e *Engine) Synthesize(ctx context.Context, text, voiceID string) ([]float32, error) {
	tokens, err := e.tokenizer.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}

	if len(tokens) == 0 {
		return []float32{}, nil
	}

	var voiceData []float32
	var voiceShape []int64

	if voiceID != "" {
		emb, err := e.voice(voiceID)
		if err != nil {
			return nil, err
		}

		voiceData, voiceShape = emb.data, emb.shape
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.runner.Run(ctx, tokens, voiceData, voiceShape)
}

func (e *Engine) voice(id string) (voiceEmbedding, error) {
	e.mu.Lock()
	cached, ok := e.voices[id]
	e.mu.Unlock()

	if ok {
		return cached, nil
	}

	path, ok := e.manifest.VoicePath(id)
	if !ok {
		return voiceEmbedding{}, fmt.Errorf("unknown voice %q", id)
	}

	data, shape, err := LoadVoiceEmbedding(path)
	if err != nil {
		return voiceEmbedding{}, err
	}

	emb := voiceEmbedding{data: data, shape: shape}

	e.mu.Lock()
	e.voices[id] = emb
	e.mu.Unlock()

	return emb, nil
}

// Close releases the ORT session.
func (e *Engine) Close() {
	if e.runner != nil {
		e.runner.Close()
	}
}
