// Package renderplan defines the RenderPlan input data model and its
// validation.
package renderplan

import (
	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
)

// Overlap schedules a simultaneous period between two lines, attenuating
// the target line's volume during the overlap window.
type Overlap struct {
	TargetLineID       string  `json:"target_line_id"`
	OffsetIntoTargetMs int     `json:"offset_into_target_ms"`
	OverlapDurationMs  int     `json:"overlap_duration_ms"`
	VolumeAttenuation  float64 `json:"volume_attenuation"` // [0,1]
}

// LineTiming is a line's scheduling input. StartMs > 0 pins the line to
// an absolute position; 0 means "schedule after the previous line".
type LineTiming struct {
	StartMs         int      `json:"start_ms"`
	EndMs           *int     `json:"end_ms,omitempty"`
	PauseBeforeMs   *int     `json:"pause_before_ms,omitempty"`
	PauseAfterMs    int      `json:"pause_after_ms"`
	SpeedMultiplier *float64 `json:"speed_multiplier,omitempty"` // [0.5, 2.0]
	Overlap         *Overlap `json:"overlap,omitempty"`
}

// AudioEffect names a post-process effect hint attached to a line
// (consumed by the mixer/codec collaborator; the set is open-ended and
// effects not recognized by the current mixer are ignored).
type AudioEffect struct {
	Name   string             `json:"name"`
	Params map[string]float64 `json:"params,omitempty"`
}

// Line is one utterance in a RenderPlan.
type Line struct {
	ID           string               `json:"id"`
	CharacterID  string               `json:"character_id"`
	Text         string               `json:"text"`
	Emotion      *emotion.Profile     `json:"emotion,omitempty"`
	Transitions  []emotion.Transition `json:"transitions,omitempty"`
	Timing       LineTiming           `json:"timing"`
	AudioEffects []AudioEffect        `json:"audio_effects,omitempty"`
}

// GlobalSettings are plan-wide render parameters.
type GlobalSettings struct {
	PauseBetweenLinesMs int     `json:"pause_between_lines_ms"`
	CrossfadeMs         int     `json:"crossfade_ms"`
	MasterVolume        float64 `json:"master_volume"` // [0,2]
	NaturalTiming       bool    `json:"natural_timing"`
}

// DefaultGlobalSettings gives every field an explicit, sensible value.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		PauseBetweenLinesMs: 500,
		CrossfadeMs:         0,
		MasterVolume:        1.0,
		NaturalTiming:       true,
	}
}

// RenderPlan is the fully specified input to the pipeline.
type RenderPlan struct {
	Characters     []character.Character `json:"characters"`
	Lines          []Line                `json:"lines"`
	GlobalSettings GlobalSettings        `json:"global_settings"`
	Metadata       map[string]string     `json:"metadata,omitempty"`
}
