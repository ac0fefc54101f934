// Package localtts runs a neural text-to-speech model in-process through
// ONNX Runtime. It backs the local render provider: text is tokenized
// with a SentencePiece model, pushed through a single ONNX synthesis
// graph, and returned as float32 PCM at the model's native sample rate.
package localtts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// VoiceEntry describes one voice embedding shipped alongside the model.
type VoiceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Manifest describes a local synthesis bundle: the ONNX graph, the
// tokenizer model, the graph's input/output tensor names, and the voice
// embeddings available for conditioning.
type Manifest struct {
	Model      string       `json:"model"`
	SampleRate int          `json:"sample_rate"`
	Tokenizer  string       `json:"tokenizer"`
	TokensIn   string       `json:"tokens_input"`
	VoiceIn    string       `json:"voice_input"`
	AudioOut   string       `json:"audio_output"`
	Voices     []VoiceEntry `json:"voices"`

	baseDir string
}

// LoadManifest reads and validates a bundle manifest. Relative paths in
// the manifest resolve against the manifest's own directory.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, errors.New("manifest path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode model manifest: %w", err)
	}

	if m.Model == "" {
		return nil, errors.New("manifest has no model filename")
	}

	if m.Tokenizer == "" {
		return nil, errors.New("manifest has no tokenizer filename")
	}

	if m.SampleRate <= 0 {
		return nil, fmt.Errorf("manifest sample_rate %d must be positive", m.SampleRate)
	}

	if m.TokensIn == "" {
		m.TokensIn = "tokens"
	}

	if m.AudioOut == "" {
		m.AudioOut = "audio"
	}

	seen := make(map[string]struct{}, len(m.Voices))
	for _, v := range m.Voices {
		if v.ID == "" {
			return nil, errors.New("manifest voice has empty id")
		}

		if _, dup := seen[v.ID]; dup {
			return nil, fmt.Errorf("duplicate voice id %q in manifest", v.ID)
		}

		seen[v.ID] = struct{}{}
	}

	m.baseDir = filepath.Dir(path)

	return &m, nil
}

// ModelPath returns the absolute path of the ONNX graph file.
func (m *Manifest) ModelPath() string { return m.resolve(m.Model) }

// TokenizerPath returns the absolute path of the SentencePiece model.
func (m *Manifest) TokenizerPath() string { return m.resolve(m.Tokenizer) }

// VoicePath returns the absolute path of the named voice embedding.
func (m *Manifest) VoicePath(id string) (string, bool) {
	for _, v := range m.Voices {
		if v.ID == id {
			return m.resolve(v.Path), true
		}
	}

	return "", false
}

func (m *Manifest) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Clean(filepath.Join(m.baseDir, p))
}
