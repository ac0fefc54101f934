package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/scriptvoice/internal/config"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/provider"
)

// --- New & WithShutdownTimeout ---

func TestNew_DefaultShutdownTimeout(t *testing.T) {
	cfg := config.DefaultConfig()

	s := New(cfg)
	if s == nil {
		t.Fatal("New() returned nil")
	}

	if s.shutdownTimeout != 30*time.Second {
		t.Errorf("shutdownTimeout = %v; want 30s", s.shutdownTimeout)
	}
}

func TestWithShutdownTimeout(t *testing.T) {
	cfg := config.DefaultConfig()

	s := New(cfg).WithShutdownTimeout(5 * time.Second)
	if s.shutdownTimeout != 5*time.Second {
		t.Errorf("shutdownTimeout = %v; want 5s", s.shutdownTimeout)
	}
}

func TestWithShutdownTimeout_Chaining(t *testing.T) {
	cfg := config.DefaultConfig()
	s := New(cfg)
	returned := s.WithShutdownTimeout(10 * time.Second)
	// Must return the same *Server for chaining.
	if returned != s {
		t.Error("WithShutdownTimeout should return the same *Server")
	}
}

// --- fake provider for registry tests ---

type fakeProvider struct {
	name      string
	voices    []provider.VoiceDescriptor
	voicesErr error
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) Initialize(_ context.Context) error { return nil }
func (f *fakeProvider) ListVoices(_ context.Context) ([]provider.VoiceDescriptor, error) {
	return f.voices, f.voicesErr
}
func (f *fakeProvider) SupportsEmotions() bool     { return false }
func (f *fakeProvider) SupportsVoiceCloning() bool { return false }
func (f *fakeProvider) Synthesize(_ context.Context, _ provider.SynthesisRequest) (pcm.Buffer, error) {
	return pcm.NewSilence(10, pcm.DefaultSampleRate, pcm.DefaultChannels), nil
}

// --- buildRegistry ---

func TestBuildRegistry_EmptyConfigHasNoProviders(t *testing.T) {
	cfg := config.DefaultConfig()
	s := New(cfg)

	if got := s.buildRegistry().Len(); got != 0 {
		t.Errorf("buildRegistry().Len() = %d; want 0 for unconfigured backends", got)
	}
}

func TestBuildRegistry_CLIBackendRegisters(t *testing.T) {
	cfg := config.DefaultConfig()
	// Any resolvable executable keeps the CLI provider's Initialize happy.
	cfg.TTS.CLIPath = "/bin/sh"
	s := New(cfg)

	registry := s.buildRegistry()
	if registry.Len() != 1 {
		t.Fatalf("buildRegistry().Len() = %d; want 1", registry.Len())
	}

	if _, ok := registry.Get(config.BackendCLI); !ok {
		t.Errorf("registry is missing %q; names = %v", config.BackendCLI, registry.Names())
	}
}

// --- registryVoiceLister ---

func TestRegistryVoiceLister_AggregatesAcrossProviders(t *testing.T) {
	registry := provider.NewRegistry(context.Background(),
		&fakeProvider{name: "a", voices: []provider.VoiceDescriptor{{ID: "a1"}}},
		&fakeProvider{name: "b", voices: []provider.VoiceDescriptor{{ID: "b1"}, {ID: "b2"}}},
	)

	vl := &registryVoiceLister{registry: registry}

	got := vl.ListVoices()
	if len(got) != 3 {
		t.Fatalf("ListVoices() returned %d voices; want 3 (%v)", len(got), got)
	}

	if got[0].ID != "a1" || got[1].ID != "b1" || got[2].ID != "b2" {
		t.Errorf("unexpected voice order: %v", got)
	}
}

func TestRegistryVoiceLister_SkipsFailingProvider(t *testing.T) {
	registry := provider.NewRegistry(context.Background(),
		&fakeProvider{name: "broken", voicesErr: errors.New("backend down")},
		&fakeProvider{name: "ok", voices: []provider.VoiceDescriptor{{ID: "v1"}}},
	)

	vl := &registryVoiceLister{registry: registry}

	got := vl.ListVoices()
	if len(got) != 1 || got[0].ID != "v1" {
		t.Errorf("ListVoices() = %v; want just v1 from the healthy provider", got)
	}
}

// --- ProbeHTTP ---

func TestProbeHTTP_Success(t *testing.T) {
	// Start a test HTTP server that returns 200 /health.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	// ProbeHTTP uses "http://" prefix + addr, so strip the scheme.
	addr := srv.Listener.Addr().String()

	err := ProbeHTTP(addr)
	if err != nil {
		t.Errorf("ProbeHTTP(%q) = %v; want nil", addr, err)
	}
}

func TestProbeHTTP_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	addr := srv.Listener.Addr().String()

	err := ProbeHTTP(addr)
	if err == nil {
		t.Error("ProbeHTTP() = nil; want error for non-200 response")
	}
}

func TestProbeHTTP_ConnectionRefused(t *testing.T) {
	err := ProbeHTTP("127.0.0.1:1")
	if err == nil {
		t.Error("ProbeHTTP() = nil; want error for unreachable host")
	}
}

// --- Start: invalid or empty backend config ---

func TestStart_InvalidBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TTS.Backend = "bogus"
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	err := s.Start(ctx)
	if err == nil {
		t.Error("Start() = nil; want error for invalid backend")
	}
}

func TestStart_NoProvidersConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	s := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	if err == nil {
		t.Error("Start() = nil; want error when no provider is configured")
	}
}

// --- Functional options ---

func TestOptions_WithMaxTextBytes(t *testing.T) {
	opts := defaultOptions()
	WithMaxTextBytes(1024)(&opts)

	if opts.maxTextBytes != 1024 {
		t.Errorf("maxTextBytes = %d; want 1024", opts.maxTextBytes)
	}
}

func TestOptions_WithWorkers(t *testing.T) {
	opts := defaultOptions()
	WithWorkers(8)(&opts)

	if opts.workers != 8 {
		t.Errorf("workers = %d; want 8", opts.workers)
	}
}

func TestOptions_WithRequestTimeout(t *testing.T) {
	opts := defaultOptions()
	WithRequestTimeout(90 * time.Second)(&opts)

	if opts.requestTimeout != 90*time.Second {
		t.Errorf("requestTimeout = %v; want 90s", opts.requestTimeout)
	}
}

func TestOptions_WithLogger(_ *testing.T) {
	// Just verify it doesn't panic when given a nil logger.
	opts := defaultOptions()
	WithLogger(nil)(&opts)
	// nil logger is valid (caller's choice); no panic expected.
}
