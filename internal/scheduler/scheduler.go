package scheduler

import (
	"context"
	"log/slog"
	"sort"

	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/renderplan"
)

// Schedule validates plan, computes line
// timings, synthesizes every line through synth, and assembles the
// resulting tracks, timeline, and statistics. Validation failures are
// fatal (*renderplan.InvalidPlanError); per-line synthesis failures are
// not and instead degrade to a zero-filled segment.
func Schedule(ctx context.Context, plan *renderplan.RenderPlan, synth LineSynthesizer) (RenderResult, error) {
	if err := plan.Validate(); err != nil {
		return RenderResult{}, err
	}

	timings := computeLineTimings(plan.Lines, plan.GlobalSettings.PauseBetweenLinesMs)
	timingByLineID := make(map[string]LineTimingResult, len(timings))
	for _, t := range timings {
		timingByLineID[t.LineID] = t
	}

	tracksByChar := make(map[string]*CharacterTrack)
	var order []string

	var events []TimelineEvent
	stats := RenderStatistics{
		SpeakingTimeMsByChar: make(map[string]int),
		EmotionDistribution:  make(map[emotion.Kind]int),
	}

	totalMs := 0
	var attenuations []AttenuationWindow

	for _, line := range plan.Lines {
		timing := timingByLineID[line.ID]
		ch, _ := plan.CharacterByID(line.CharacterID)

		track, ok := tracksByChar[line.CharacterID]
		if !ok {
			track = &CharacterTrack{CharacterID: line.CharacterID}
			tracksByChar[line.CharacterID] = track
			order = append(order, line.CharacterID)
		}

		result, err := synth.SynthesizeLine(ctx, ch, line)
		durationMs := timing.EndMs - timing.StartMs

		var segments []AudioSegment
		if err != nil {
			slog.Warn("line synthesis failed, substituting silence",
				"line_id", line.ID, "character_id", line.CharacterID, "error", err)
			stats.FailedSegments++
			segments = []AudioSegment{{
				LineID:    line.ID,
				StartMs:   timing.StartMs,
				EndMs:     timing.EndMs,
				Emotion:   lineDefaultEmotion(line),
				Buffer:    pcm.NewSilence(durationMs, pcm.DefaultSampleRate, pcm.DefaultChannels),
				Synthetic: true,
			}}
		} else {
			segments = make([]AudioSegment, 0, len(result.Segments))
			for _, seg := range result.Segments {
				segments = append(segments, AudioSegment{
					LineID:  line.ID,
					StartMs: timing.StartMs + seg.OffsetMs,
					EndMs:   timing.StartMs + seg.OffsetMs + seg.DurationMs,
					Emotion: seg.Emotion,
					Buffer:  seg.Buffer,
				})
			}
			if len(segments) == 0 {
				segments = []AudioSegment{{
					LineID:  line.ID,
					StartMs: timing.StartMs,
					EndMs:   timing.EndMs,
					Emotion: lineDefaultEmotion(line),
					Buffer:  pcm.NewSilence(durationMs, pcm.DefaultSampleRate, pcm.DefaultChannels),
				}}
			}
		}

		track.Segments = append(track.Segments, segments...)

		events = append(events, TimelineEvent{TimeMs: timing.StartMs, Kind: EventLineStart, CharacterID: line.CharacterID, LineID: line.ID})
		for i, seg := range segments {
			if i > 0 {
				events = append(events, TimelineEvent{TimeMs: seg.StartMs, Kind: EventEmotionChange, CharacterID: line.CharacterID, LineID: line.ID})
			}
			stats.EmotionDistribution[seg.Emotion.Kind]++
		}
		events = append(events, TimelineEvent{TimeMs: timing.EndMs, Kind: EventLineEnd, CharacterID: line.CharacterID, LineID: line.ID})

		if ov := line.Timing.Overlap; ov != nil {
			overlapStart := timing.StartMs
			overlapEnd := timing.StartMs + ov.OverlapDurationMs
			events = append(events, TimelineEvent{TimeMs: overlapStart, Kind: EventOverlapStart, CharacterID: line.CharacterID, LineID: line.ID})
			events = append(events, TimelineEvent{TimeMs: overlapEnd, Kind: EventOverlapEnd, CharacterID: line.CharacterID, LineID: line.ID})
			stats.OverlappingLines++

			if targetLine, ok := plan.LineByID(ov.TargetLineID); ok {
				attenuations = append(attenuations, AttenuationWindow{
					CharacterID: targetLine.CharacterID,
					StartMs:     overlapStart,
					EndMs:       overlapEnd,
					Factor:      1.0 - ov.VolumeAttenuation,
				})
			}
		}

		stats.SpeakingTimeMsByChar[line.CharacterID] += durationMs
		if timing.EndMs > totalMs {
			totalMs = timing.EndMs
		}
	}

	sortEvents(events)

	tracks := make([]CharacterTrack, 0, len(order))
	for _, charID := range order {
		t := tracksByChar[charID]
		buffers := make([]pcm.Buffer, len(t.Segments))
		for i, seg := range t.Segments {
			buffers[i] = seg.Buffer
		}
		t.Buffer = pcm.Concat(pcm.Buffer{SampleRate: pcm.DefaultSampleRate, ChannelCount: pcm.DefaultChannels}, buffers...)
		tracks = append(tracks, *t)
	}

	speakingTotal := 0
	for _, v := range stats.SpeakingTimeMsByChar {
		speakingTotal += v
	}
	stats.TotalMs = totalMs
	stats.SilenceDurationMs = max(0, totalMs-speakingTotal)

	timeline := ConversationTimeline{
		Events:               events,
		SpeakingTimeMsByChar: stats.SpeakingTimeMsByChar,
		TotalMs:              totalMs,
	}

	return RenderResult{Tracks: tracks, Timeline: timeline, Statistics: stats, AttenuationWindows: attenuations}, nil
}

func lineDefaultEmotion(line renderplan.Line) emotion.Profile {
	if line.Emotion != nil {
		return *line.Emotion
	}
	return emotion.Neutral()
}

func sortEvents(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].TimeMs != events[j].TimeMs {
			return events[i].TimeMs < events[j].TimeMs
		}
		return events[i].Kind.priority() < events[j].Kind.priority()
	})
}
