package voiceengine

import (
	"context"
	"errors"
	"testing"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/provider"
	"github.com/example/scriptvoice/internal/renderplan"
)

type stubProvider struct {
	name        string
	emotions    bool
	synthesized int
}

func (s *stubProvider) Name() string                       { return s.name }
func (s *stubProvider) Initialize(context.Context) error    { return nil }
func (s *stubProvider) ListVoices(context.Context) ([]provider.VoiceDescriptor, error) {
	return nil, nil
}
func (s *stubProvider) SupportsEmotions() bool     { return s.emotions }
func (s *stubProvider) SupportsVoiceCloning() bool { return false }
func (s *stubProvider) Synthesize(_ context.Context, req provider.SynthesisRequest) (pcm.Buffer, error) {
	s.synthesized++
	if req.Text == "fail" {
		return pcm.Buffer{}, errors.New("stub failure")
	}
	return pcm.NewSilence(200, pcm.DefaultSampleRate, pcm.DefaultChannels), nil
}

func newTestEngine(emotions bool) (*Engine, *stubProvider) {
	p := &stubProvider{name: "stub", emotions: emotions}
	registry := provider.NewRegistry(context.Background(), p)
	return New(registry), p
}

func TestSynthesizeConcatenatesSegments(t *testing.T) {
	engine, p := newTestEngine(false)
	buf, err := engine.Synthesize(context.Background(), Request{Text: "hello there friend"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.synthesized != 3 {
		t.Fatalf("expected 3 segments synthesized (one per word), got %d", p.synthesized)
	}
	if len(buf.Samples) == 0 {
		t.Fatal("expected non-empty concatenated buffer")
	}
}

func TestSynthesizeBatchIsolatesFailures(t *testing.T) {
	engine, _ := newTestEngine(false)
	reqs := []Request{
		{Text: "hello"},
		{Text: "fail"},
	}
	bufs := engine.SynthesizeBatch(context.Background(), reqs)
	if len(bufs) != 2 {
		t.Fatalf("expected 2 results, got %d", len(bufs))
	}
	if len(bufs[0].Samples) == 0 {
		t.Fatal("expected the successful request to keep its audio")
	}
	if len(bufs[1].Samples) != 0 {
		t.Fatalf("expected an empty buffer for the failed request, got %d samples", len(bufs[1].Samples))
	}
}

func TestResolveVoiceUsesPromptWhenSpecNil(t *testing.T) {
	engine, _ := newTestEngine(false)
	spec := engine.ResolveVoice("Young British female voice, cheerful and energetic, high pitch", nil)
	if spec.Gender != character.GenderFemale {
		t.Fatalf("expected female voice spec, got %+v", spec)
	}
}

func TestResolveVoicePrefersExplicitSpec(t *testing.T) {
	engine, _ := newTestEngine(false)
	explicit := character.VoiceSpec{Gender: character.GenderMale}
	spec := engine.ResolveVoice("anything", &explicit)
	if spec.Gender != character.GenderMale {
		t.Fatalf("expected explicit spec to win, got %+v", spec)
	}
}

func TestSynthesizeLineImplementsSchedulerInterface(t *testing.T) {
	engine, p := newTestEngine(true)
	ch := character.Character{ID: "alice", VoiceSpec: character.Default(), DefaultEmotion: emotion.Neutral()}
	line := renderplan.Line{ID: "l1", CharacterID: "alice", Text: "hello world"}

	result, err := engine.SynthesizeLine(context.Background(), ch, line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if p.synthesized != 2 {
		t.Fatalf("expected 2 provider calls, got %d", p.synthesized)
	}
}

func TestSupportsEmotionsReflectsRegisteredProviders(t *testing.T) {
	engineNo, _ := newTestEngine(false)
	if engineNo.SupportsEmotions() {
		t.Fatal("expected no emotion support")
	}
	engineYes, _ := newTestEngine(true)
	if !engineYes.SupportsEmotions() {
		t.Fatal("expected emotion support")
	}
}
