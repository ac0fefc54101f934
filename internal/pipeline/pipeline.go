// Package pipeline wires the conversation scheduler, audio mixer, and
// PCM codec together into the single top-level Render entry point.
package pipeline

import (
	"context"
	"fmt"

	"github.com/example/scriptvoice/internal/mixer"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/renderplan"
	"github.com/example/scriptvoice/internal/scheduler"
	"github.com/example/scriptvoice/internal/voiceengine"
)

// Options controls the render: whether to produce a mixed master buffer
// in addition to per-character tracks, and the mixer settings to use
// when it does.
type Options struct {
	ProduceMaster bool
	Mixer         mixer.Options
}

// DefaultOptions produces a master with default mixer settings.
func DefaultOptions() Options {
	return Options{ProduceMaster: true, Mixer: mixer.DefaultOptions()}
}

// Result is the fully rendered output of one RenderPlan: per-character
// PCM tracks, the optional master buffer, the conversation timeline, and
// render statistics.
type Result struct {
	Tracks     []scheduler.CharacterTrack
	Master     *pcm.Buffer
	Timeline   scheduler.ConversationTimeline
	Statistics scheduler.RenderStatistics
}

// Render schedules plan through engine, then mixes the resulting tracks
// into a master buffer when requested.
func Render(ctx context.Context, plan *renderplan.RenderPlan, engine *voiceengine.Engine, opts Options) (Result, error) {
	scheduled, err := scheduler.Schedule(ctx, plan, engine)
	if err != nil {
		return Result{}, fmt.Errorf("schedule render plan: %w", err)
	}

	result := Result{
		Tracks:     scheduled.Tracks,
		Timeline:   scheduled.Timeline,
		Statistics: scheduled.Statistics,
	}

	if opts.ProduceMaster {
		master := mixer.Mix(scheduled.Timeline, scheduled.Tracks, scheduled.AttenuationWindows, opts.Mixer)
		result.Master = &master
	}

	return result, nil
}

// EncodeTrackWAV encodes a single character's track to a WAV container.
func EncodeTrackWAV(track scheduler.CharacterTrack) ([]byte, error) {
	return pcm.EncodeWAV(track.Buffer)
}

// EncodeMasterWAV encodes the master buffer to a WAV container.
func EncodeMasterWAV(master pcm.Buffer) ([]byte, error) {
	return pcm.EncodeWAV(master)
}
