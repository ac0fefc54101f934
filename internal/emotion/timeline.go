package emotion

import (
	"log/slog"
	"sort"
	"strings"
)

// wordsPerMinute is the rate used for the line's total duration
// estimate, distinct from charsPerSecond used for trigger-time
// resolution; the two constants must not be conflated.
const wordsPerMinute = 180.0

// Keyframe is a time-stamped emotion state in a Timeline. If Transition is
// non-nil, the keyframe marks the start of a transition window running
// from TimeMs to TimeMs+Transition.DurationMs.
type Keyframe struct {
	TimeMs     int
	Emotion    Profile
	Transition *Transition
}

// Timeline is an ordered sequence of Keyframes. The first keyframe is
// always at t=0 with the line's default emotion.
type Timeline struct {
	Keyframes []Keyframe
}

// Segment is a time-sliced piece of text with an effective emotion state,
// covering the closed-open interval [StartMs, EndMs).
type Segment struct {
	StartMs      int
	EndMs        int
	Text         string
	Emotion      Profile
	IsTransition bool
	Progress     float64 // valid only when IsTransition
}

// BuildResult bundles the outputs of Build: the keyframe timeline, the
// per-token segments, the estimated total duration, and the count of
// transitions that were actually applied (validated + trigger resolved).
type BuildResult struct {
	Timeline        Timeline
	Segments        []Segment
	TotalDurationMs int
	TransitionCount int
}

// Build compiles text, an ordered list of candidate transitions, and the
// line's default emotion into a Timeline and segmentation.
// Invalid or unresolved transitions are dropped silently with a
// logged warning; they never cause Build to fail.
func Build(text string, transitions []Transition, defaultEmotion Profile, limits ValidationLimits) BuildResult {
	tokens := strings.Fields(text)
	wordCount := len(tokens)
	totalDurationMs := int(float64(wordCount) / wordsPerMinute * 60000.0)

	tl := Timeline{Keyframes: []Keyframe{{TimeMs: 0, Emotion: defaultEmotion}}}

	applied := 0

	for i := range transitions {
		tr := transitions[i]

		if err := tr.Validate(limits); err != nil {
			slog.Warn("emotion: dropping invalid transition", "index", i, "reason", err)
			continue
		}

		t, ok := ResolveTriggerMs(tr.Trigger, text)
		if !ok {
			slog.Warn("emotion: dropping transition with unresolved trigger", "index", i)
			continue
		}

		tl.Keyframes = append(tl.Keyframes,
			Keyframe{TimeMs: t, Emotion: tr.From, Transition: &transitions[i]},
			Keyframe{TimeMs: t + tr.DurationMs, Emotion: tr.To},
		)
		applied++
	}

	sort.SliceStable(tl.Keyframes, func(a, b int) bool {
		return tl.Keyframes[a].TimeMs < tl.Keyframes[b].TimeMs
	})

	segments := segment(tokens, totalDurationMs, tl)

	return BuildResult{
		Timeline:        tl,
		Segments:        segments,
		TotalDurationMs: totalDurationMs,
		TransitionCount: applied,
	}
}

// segment assigns each whitespace token the emotion in force at its
// nominal time (its position's proportional share of totalDurationMs).
func segment(tokens []string, totalDurationMs int, tl Timeline) []Segment {
	n := len(tokens)
	if n == 0 {
		return nil
	}

	segments := make([]Segment, 0, n)

	for i, tok := range tokens {
		startMs := tokenNominalMs(i, n, totalDurationMs)
		endMs := tokenNominalMs(i+1, n, totalDurationMs)

		state, isTransition, progress := stateAt(tl, startMs)

		segments = append(segments, Segment{
			StartMs:      startMs,
			EndMs:        endMs,
			Text:         tok,
			Emotion:      state,
			IsTransition: isTransition,
			Progress:     progress,
		})
	}

	return segments
}

func tokenNominalMs(idx, total, totalDurationMs int) int {
	if total == 0 {
		return 0
	}
	return int(float64(idx) / float64(total) * float64(totalDurationMs))
}

// stateAt finds the effective emotion state at timeMs by locating the
// most recent keyframe at or before timeMs. If that keyframe opens a
// transition window still in progress at timeMs, the returned state is
// interpolated along the transition's curve; emotion Kind switches at the
// transition's midpoint (progress >= 0.5).
func stateAt(tl Timeline, timeMs int) (state Profile, isTransition bool, progress float64) {
	var left Keyframe
	found := false

	for _, kf := range tl.Keyframes {
		if kf.TimeMs <= timeMs {
			left = kf
			found = true
			continue
		}
		break
	}

	if !found {
		left = tl.Keyframes[0]
	}

	if left.Transition != nil {
		tr := left.Transition
		if timeMs >= left.TimeMs && timeMs <= left.TimeMs+tr.DurationMs {
			p := 0.0
			if tr.DurationMs > 0 {
				p = float64(timeMs-left.TimeMs) / float64(tr.DurationMs)
			}
			p = clamp01(p)

			eased := p
			if tr.Curve == CurveBezier {
				eased = EaseBezier(tr.ControlPoints[0], tr.ControlPoints[1], p)
			} else {
				eased = Ease(tr.Curve, p)
			}

			kind := tr.From.Kind
			if p >= 0.5 {
				kind = tr.To.Kind
			}

			intensity := Lerp(tr.From.Intensity, tr.To.Intensity, eased)

			return Profile{Kind: kind, Intensity: clamp01(intensity)}, true, p
		}
	}

	return left.Emotion, false, 0
}
