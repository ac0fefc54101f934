package localtts

import (
	"encoding/binary"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// ---------------------------------------------------------------------------
// Manifest
// ---------------------------------------------------------------------------

func writeManifest(t *testing.T, dir string, body string) string {
	t.Helper()

	path := filepath.Join(dir, "manifest.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}

	return path
}

func TestLoadManifest_ResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `{
		"model": "model.onnx",
		"sample_rate": 24000,
		"tokenizer": "tokenizer.model",
		"voices": [{"id": "narrator", "name": "Narrator", "path": "narrator.safetensors"}]
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if got, want := m.ModelPath(), filepath.Join(dir, "model.onnx"); got != want {
		t.Errorf("ModelPath = %q, want %q", got, want)
	}

	if got, want := m.TokenizerPath(), filepath.Join(dir, "tokenizer.model"); got != want {
		t.Errorf("TokenizerPath = %q, want %q", got, want)
	}

	vp, ok := m.VoicePath("narrator")
	if !ok {
		t.Fatal("VoicePath(narrator) not found")
	}

	if want := filepath.Join(dir, "narrator.safetensors"); vp != want {
		t.Errorf("VoicePath = %q, want %q", vp, want)
	}

	if _, ok := m.VoicePath("missing"); ok {
		t.Error("VoicePath(missing) = ok, want not found")
	}
}

func TestLoadManifest_DefaultsTensorNames(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `{
		"model": "m.onnx",
		"sample_rate": 22050,
		"tokenizer": "sp.model"
	}`)

	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}

	if m.TokensIn != "tokens" {
		t.Errorf("TokensIn = %q, want %q", m.TokensIn, "tokens")
	}

	if m.AudioOut != "audio" {
		t.Errorf("AudioOut = %q, want %q", m.AudioOut, "audio")
	}
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing model", `{"sample_rate": 24000, "tokenizer": "sp.model"}`},
		{"missing tokenizer", `{"model": "m.onnx", "sample_rate": 24000}`},
		{"zero sample rate", `{"model": "m.onnx", "tokenizer": "sp.model"}`},
		{"negative sample rate", `{"model": "m.onnx", "sample_rate": -1, "tokenizer": "sp.model"}`},
		{"empty voice id", `{"model": "m.onnx", "sample_rate": 24000, "tokenizer": "sp.model", "voices": [{"id": "", "path": "v.safetensors"}]}`},
		{"duplicate voice id", `{"model": "m.onnx", "sample_rate": 24000, "tokenizer": "sp.model", "voices": [{"id": "a", "path": "1"}, {"id": "a", "path": "2"}]}`},
		{"not json", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tt.body)
			if _, err := LoadManifest(path); err == nil {
				t.Error("LoadManifest succeeded, want error")
			}
		})
	}
}

func TestLoadManifest_EmptyPath(t *testing.T) {
	if _, err := LoadManifest(""); err == nil {
		t.Error("LoadManifest(\"\") succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// Voice embeddings
// ---------------------------------------------------------------------------

func float32Bytes(vals []float32) []byte {
	buf := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	return buf
}

func buildSafetensors(t *testing.T, name, dtype string, shape []int64, data []byte) []byte {
	t.Helper()

	header := map[string]safetensorsEntry{
		name: {DType: dtype, Shape: shape, Offsets: [2]int{0, len(data)}},
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}

	var buf []byte
	lenBuf := make([]byte, 8)
	binary.LittleEndian.PutUint64(lenBuf, uint64(len(headerJSON)))
	buf = append(buf, lenBuf...)
	buf = append(buf, headerJSON...)
	buf = append(buf, data...)

	return buf
}

func writeTempSafetensors(t *testing.T, blob []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "voice.safetensors")
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		t.Fatalf("write safetensors: %v", err)
	}

	return path
}

func TestLoadVoiceEmbedding_Reshapes2DTo3D(t *testing.T) {
	vals := []float32{1, 2, 3, 4, 5, 6}
	blob := buildSafetensors(t, "voice_emb", "F32", []int64{2, 3}, float32Bytes(vals))

	data, shape, err := LoadVoiceEmbedding(writeTempSafetensors(t, blob))
	if err != nil {
		t.Fatalf("LoadVoiceEmbedding: %v", err)
	}

	if len(shape) != 3 || shape[0] != 1 || shape[1] != 2 || shape[2] != 3 {
		t.Errorf("shape = %v, want [1 2 3]", shape)
	}

	for i, v := range vals {
		if data[i] != v {
			t.Errorf("data[%d] = %v, want %v", i, data[i], v)
		}
	}
}

func TestLoadVoiceEmbedding_Keeps3DShape(t *testing.T) {
	vals := []float32{1, 2, 3, 4}
	blob := buildSafetensors(t, "v", "F32", []int64{1, 2, 2}, float32Bytes(vals))

	_, shape, err := LoadVoiceEmbedding(writeTempSafetensors(t, blob))
	if err != nil {
		t.Fatalf("LoadVoiceEmbedding: %v", err)
	}

	if len(shape) != 3 || shape[0] != 1 || shape[1] != 2 || shape[2] != 2 {
		t.Errorf("shape = %v, want [1 2 2]", shape)
	}
}

func TestLoadVoiceEmbedding_Rejects(t *testing.T) {
	tests := []struct {
		name string
		blob []byte
	}{
		{"too small", []byte{1, 2, 3}},
		{"wrong dtype", buildSafetensors(t, "v", "F16", []int64{1, 2}, make([]byte, 4))},
		{"1D tensor", buildSafetensors(t, "v", "F32", []int64{4}, float32Bytes([]float32{1, 2, 3, 4}))},
		{"batch != 1", buildSafetensors(t, "v", "F32", []int64{2, 1, 2}, float32Bytes([]float32{1, 2, 3, 4}))},
		{"shape mismatch", buildSafetensors(t, "v", "F32", []int64{3, 3}, float32Bytes([]float32{1, 2}))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := LoadVoiceEmbedding(writeTempSafetensors(t, tt.blob)); err == nil {
				t.Error("LoadVoiceEmbedding succeeded, want error")
			}
		})
	}
}

func TestLoadVoiceEmbedding_FileNotFound(t *testing.T) {
	if _, _, err := LoadVoiceEmbedding(filepath.Join(t.TempDir(), "missing.safetensors")); err == nil {
		t.Error("LoadVoiceEmbedding succeeded, want error")
	}
}

// ---------------------------------------------------------------------------
// Runtime detection
// ---------------------------------------------------------------------------

func TestDetectRuntime_ExplicitPath(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "libonnxruntime.1.23.0.so")
	if err := os.WriteFile(lib, []byte{0}, 0o644); err != nil {
		t.Fatalf("write lib stub: %v", err)
	}

	info, err := DetectRuntime(RuntimeConfig{LibraryPath: lib})
	if err != nil {
		t.Fatalf("DetectRuntime: %v", err)
	}

	if info.LibraryPath != lib {
		t.Errorf("LibraryPath = %q, want %q", info.LibraryPath, lib)
	}

	if info.Version != "1.23.0" {
		t.Errorf("Version = %q, want %q", info.Version, "1.23.0")
	}
}

func TestDetectRuntime_EnvOverride(t *testing.T) {
	lib := filepath.Join(t.TempDir(), "libonnxruntime.so")
	if err := os.WriteFile(lib, []byte{0}, 0o644); err != nil {
		t.Fatalf("write lib stub: %v", err)
	}

	t.Setenv("SCRIPTVOICE_ORT_LIB", lib)

	info, err := DetectRuntime(RuntimeConfig{})
	if err != nil {
		t.Fatalf("DetectRuntime: %v", err)
	}

	if info.LibraryPath != lib {
		t.Errorf("LibraryPath = %q, want %q", info.LibraryPath, lib)
	}

	if info.Version != "unknown" {
		t.Errorf("Version = %q, want %q", info.Version, "unknown")
	}
}

func TestDetectRuntime_MissingFile(t *testing.T) {
	_, err := DetectRuntime(RuntimeConfig{LibraryPath: filepath.Join(t.TempDir(), "nope.so")})
	if err == nil {
		t.Error("DetectRuntime succeeded for missing file, want error")
	}
}
