// Package provider implements the capability-negotiated synthesis
// backend trait: providers are values registered in a
// Registry and selected by capability, never a class hierarchy.
package provider

import (
	"context"

	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
)

// VoiceDescriptor is a backend-reported voice option.
type VoiceDescriptor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Language string `json:"language"`
}

// SynthesisRequest carries everything a Provider needs to synthesize one
// segment.
type SynthesisRequest struct {
	Text       string
	SSML       string // optional; populated when the provider supports SSML
	VoiceID    string
	Emotion    *emotion.Profile // optional
	Rate       float64          // multiplier, 1.0 = normal
	Pitch      float64          // percent offset, 0 = normal
	Volume     float64          // multiplier, 1.0 = normal
	FormatHint string           // e.g. "wav"; providers may ignore
}

// Provider is a remote (or local) synthesis backend, accessed only
// through this trait. Implementations are values, not subclasses.
type Provider interface {
	Name() string
	Initialize(ctx context.Context) error
	ListVoices(ctx context.Context) ([]VoiceDescriptor, error)
	SupportsEmotions() bool
	SupportsVoiceCloning() bool
	Synthesize(ctx context.Context, req SynthesisRequest) (pcm.Buffer, error)
}

// CollapseEmotion maps an EmotionProfile into rate/pitch/volume deltas
// for providers that report SupportsEmotions()==false, using the same
// per-unit-intensity table the SSML emitter scales from, applied
// numerically instead of as markup. Both paths call emotion.Prosody so
// they cannot drift apart.
func CollapseEmotion(base SynthesisRequest, p emotion.Profile) SynthesisRequest {
	offsets := emotion.Prosody(p)
	base.Rate += offsets.RateMultiplier
	base.Pitch += offsets.PitchPercent
	base.Volume += offsets.VolumeMultiplier
	return base
}
