package voiceengine

import (
	"context"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/provider"
	"github.com/example/scriptvoice/internal/ssml"
)

// Request is a single ad hoc synthesis request, independent of a full
// RenderPlan (e.g. a one-off "speak this text" call from a CLI or HTTP
// endpoint). Prompt is used to resolve a VoiceSpec only when VoiceSpec
// is nil.
type Request struct {
	Prompt      string
	VoiceSpec   *character.VoiceSpec
	Text        string
	Emotion     *emotion.Profile
	Transitions []emotion.Transition
	ProviderID  string
}

// Synthesize runs the full single-request path: resolve voice, build the
// emotion timeline, synthesize each segment, and concatenate.
func (e *Engine) Synthesize(ctx context.Context, req Request) (pcm.Buffer, error) {
	spec := e.ResolveVoice(req.Prompt, req.VoiceSpec)

	defaultEmotion := spec.DefaultEmotion
	if req.Emotion != nil {
		defaultEmotion = *req.Emotion
	}

	built := emotion.Build(req.Text, req.Transitions, defaultEmotion, e.limits)
	needsEmotion := len(built.Timeline.Keyframes) > 1

	p, err := e.providers.Select(req.ProviderID, needsEmotion)
	if err != nil {
		return pcm.Buffer{}, err
	}

	ch := character.Character{VoiceSpec: spec, DefaultEmotion: defaultEmotion}

	buffers := make([]pcm.Buffer, 0, len(built.Segments))
	for _, seg := range built.Segments {
		segProfile := emotion.Profile{Kind: seg.Emotion.Kind, Intensity: seg.Emotion.Intensity}

		synthReq := provider.SynthesisRequest{
			Text:    seg.Text,
			VoiceID: spec.BackendVoiceID,
			Emotion: &segProfile,
			Rate:    paceRate(spec.Pace),
			Pitch:   1.0,
			Volume:  1.0,
		}
		if p.SupportsEmotions() {
			if markup, err := ssml.Emit(seg.Text, ch, segProfile, e.ssmlOpts); err == nil {
				synthReq.SSML = markup
			}
		}

		buf, err := p.Synthesize(ctx, synthReq)
		if err != nil {
			return pcm.Buffer{}, err
		}
		buffers = append(buffers, buf)
	}

	if len(buffers) == 0 {
		return pcm.NewSilence(0, pcm.DefaultSampleRate, pcm.DefaultChannels), nil
	}

	return pcm.Concat(buffers[0], buffers[1:]...), nil
}

// SynthesizeStream runs the same per-segment pipeline as Synthesize but
// delivers each segment's buffer to fn as soon as it is ready instead of
// concatenating them, for callers that forward audio incrementally (e.g.
// a long line synthesized segment by segment over HTTP).
func (e *Engine) SynthesizeStream(ctx context.Context, req Request, fn func(pcm.Buffer) error) error {
	spec := e.ResolveVoice(req.Prompt, req.VoiceSpec)

	defaultEmotion := spec.DefaultEmotion
	if req.Emotion != nil {
		defaultEmotion = *req.Emotion
	}

	built := emotion.Build(req.Text, req.Transitions, defaultEmotion, e.limits)
	needsEmotion := len(built.Timeline.Keyframes) > 1

	p, err := e.providers.Select(req.ProviderID, needsEmotion)
	if err != nil {
		return err
	}

	ch := character.Character{VoiceSpec: spec, DefaultEmotion: defaultEmotion}

	for _, seg := range built.Segments {
		segProfile := emotion.Profile{Kind: seg.Emotion.Kind, Intensity: seg.Emotion.Intensity}

		synthReq := provider.SynthesisRequest{
			Text:    seg.Text,
			VoiceID: spec.BackendVoiceID,
			Emotion: &segProfile,
			Rate:    paceRate(spec.Pace),
			Pitch:   1.0,
			Volume:  1.0,
		}
		if p.SupportsEmotions() {
			if markup, err := ssml.Emit(seg.Text, ch, segProfile, e.ssmlOpts); err == nil {
				synthReq.SSML = markup
			}
		}

		buf, err := p.Synthesize(ctx, synthReq)
		if err != nil {
			return err
		}

		if err := fn(buf); err != nil {
			return err
		}
	}

	return nil
}

// SynthesizeBatch runs Synthesize independently over every request. A
// failing request yields an empty buffer at its index rather than
// aborting the batch.
func (e *Engine) SynthesizeBatch(ctx context.Context, reqs []Request) []pcm.Buffer {
	out := make([]pcm.Buffer, len(reqs))
	for i, req := range reqs {
		buf, err := e.Synthesize(ctx, req)
		if err != nil {
			out[i] = pcm.Buffer{SampleRate: pcm.DefaultSampleRate, ChannelCount: pcm.DefaultChannels}
			continue
		}
		out[i] = buf
	}
	return out
}
