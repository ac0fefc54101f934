// Package scheduler implements the conversation scheduler:
// per-line timing, overlap resolution, per-character track assembly, and
// the resulting conversation timeline and statistics.
package scheduler

import (
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
)

// AudioSegment is one synthesized piece of a line's audio, tagged with
// the line it came from and its scheduled position.
type AudioSegment struct {
	LineID    string
	StartMs   int
	EndMs     int
	Emotion   emotion.Profile
	Buffer    pcm.Buffer
	Synthetic bool // true when this segment is a zero-filled fallback
}

// CharacterTrack owns one character's sorted segments plus their
// contiguous concatenation. The concatenation has no inter-line silence;
// spatial placement on the master timeline is the mixer's job.
type CharacterTrack struct {
	CharacterID string
	Segments    []AudioSegment
	Buffer      pcm.Buffer
}

// EventKind names a ConversationTimeline event.
type EventKind int

const (
	EventLineStart EventKind = iota
	EventOverlapStart
	EventEmotionChange
	EventOverlapEnd
	EventLineEnd
)

// priority orders events sharing a timestamp:
// line_start < overlap_start < emotion_change < overlap_end < line_end.
func (k EventKind) priority() int { return int(k) }

// TimelineEvent is one entry in the ConversationTimeline event log.
type TimelineEvent struct {
	TimeMs      int
	Kind        EventKind
	CharacterID string
	LineID      string
}

// ConversationTimeline is the time-sorted event log plus cumulative
// per-character speaking time.
type ConversationTimeline struct {
	Events               []TimelineEvent
	SpeakingTimeMsByChar map[string]int
	TotalMs              int
}

// RenderStatistics summarizes a completed schedule.
type RenderStatistics struct {
	TotalMs              int
	SpeakingTimeMsByChar map[string]int
	EmotionDistribution  map[emotion.Kind]int
	OverlappingLines     int
	SilenceDurationMs    int
	FailedSegments       int
}

// LineTimingResult is the computed timing for one line.
type LineTimingResult struct {
	LineID  string
	StartMs int
	EndMs   int
}

// AttenuationWindow marks a master-timeline interval during which a
// character's track must be attenuated because another line overlaps a
// line of theirs.
type AttenuationWindow struct {
	CharacterID string
	StartMs     int
	EndMs       int
	Factor      float64 // multiplier applied to samples in [StartMs, EndMs)
}

// RenderResult is the scheduler's output, consumed by the mixer and codec.
type RenderResult struct {
	Tracks             []CharacterTrack
	Timeline           ConversationTimeline
	Statistics         RenderStatistics
	AttenuationWindows []AttenuationWindow
}
