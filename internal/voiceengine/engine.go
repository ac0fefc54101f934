// Package voiceengine implements the voice engine orchestrator: a thin
// coordinator wiring the prompt interpreter, emotion timeline engine,
// SSML emitter, and provider adapter together for a single synthesis
// request or a batch of them.
package voiceengine

import (
	"context"
	"fmt"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/prompt"
	"github.com/example/scriptvoice/internal/provider"
	"github.com/example/scriptvoice/internal/renderplan"
	"github.com/example/scriptvoice/internal/scheduler"
	"github.com/example/scriptvoice/internal/ssml"
)

// Engine is the voice engine value: constructed once around a Registry
// and passed by reference, never a global singleton.
type Engine struct {
	providers *provider.Registry
	limits    emotion.ValidationLimits
	ssmlOpts  ssml.Options
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithValidationLimits overrides the default transition validation limits.
func WithValidationLimits(limits emotion.ValidationLimits) Option {
	return func(e *Engine) { e.limits = limits }
}

// WithSSMLOptions overrides the default SSML emitter options.
func WithSSMLOptions(opts ssml.Options) Option {
	return func(e *Engine) { e.ssmlOpts = opts }
}

// New constructs an Engine around an already-initialized provider Registry.
func New(providers *provider.Registry, opts ...Option) *Engine {
	e := &Engine{
		providers: providers,
		limits:    emotion.DefaultValidationLimits(),
		ssmlOpts:  ssml.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SupportsEmotions reports whether any registered provider accepts
// emotion directly.
func (e *Engine) SupportsEmotions() bool {
	for _, name := range e.providers.Names() {
		p, _ := e.providers.Get(name)
		if p.SupportsEmotions() {
			return true
		}
	}
	return false
}

// SupportsVoiceCloning reports whether any registered provider supports
// voice cloning.
func (e *Engine) SupportsVoiceCloning() bool {
	for _, name := range e.providers.Names() {
		p, _ := e.providers.Get(name)
		if p.SupportsVoiceCloning() {
			return true
		}
	}
	return false
}

// Providers returns the registered provider names in stable order.
func (e *Engine) Providers() []string {
	return e.providers.Names()
}

// ResolveVoice interprets a free-text prompt into a VoiceSpec when the
// caller supplies only a prompt; an explicit spec always wins.
func (e *Engine) ResolveVoice(promptText string, existing *character.VoiceSpec) character.VoiceSpec {
	if existing != nil {
		return *existing
	}
	return prompt.Interpret(promptText)
}

// SynthesizeLine implements scheduler.LineSynthesizer: it builds the
// line's emotion timeline, emits SSML per segment, dispatches each
// segment through the selected provider, and returns the ordered
// segments relative to the line's own start.
func (e *Engine) SynthesizeLine(ctx context.Context, ch character.Character, line renderplan.Line) (scheduler.LineSynthesisResult, error) {
	defaultEmotion := ch.DefaultEmotion
	if line.Emotion != nil {
		defaultEmotion = *line.Emotion
	}

	built := emotion.Build(line.Text, line.Transitions, defaultEmotion, e.limits)

	needsEmotion := len(built.Timeline.Keyframes) > 1
	p, err := e.providers.Select("", needsEmotion)
	if err != nil {
		return scheduler.LineSynthesisResult{}, fmt.Errorf("select provider for line %q: %w", line.ID, err)
	}

	segments := make([]scheduler.LineSegment, 0, len(built.Segments))
	for _, seg := range built.Segments {
		segProfile := emotion.Profile{Kind: seg.Emotion.Kind, Intensity: seg.Emotion.Intensity}

		req := provider.SynthesisRequest{
			Text:    seg.Text,
			VoiceID: ch.VoiceSpec.BackendVoiceID,
			Emotion: &segProfile,
			Rate:    paceRate(ch.VoiceSpec.Pace),
			Pitch:   1.0,
			Volume:  1.0,
		}

		if p.SupportsEmotions() {
			markup, err := ssml.Emit(seg.Text, ch, segProfile, e.ssmlOpts)
			if err == nil {
				req.SSML = markup
			}
		}

		buf, err := p.Synthesize(ctx, req)
		if err != nil {
			return scheduler.LineSynthesisResult{}, fmt.Errorf("synthesize segment of line %q: %w", line.ID, err)
		}

		segments = append(segments, scheduler.LineSegment{
			Emotion:    segProfile,
			Buffer:     buf,
			OffsetMs:   seg.StartMs,
			DurationMs: seg.EndMs - seg.StartMs,
		})
	}

	return scheduler.LineSynthesisResult{Segments: segments}, nil
}

func paceRate(p character.Pace) float64 {
	switch p {
	case character.PaceSlow:
		return 0.85
	case character.PaceFast:
		return 1.2
	default:
		return 1.0
	}
}
