// Package character holds the voice, personality, and registry data model
// shared by the prompt interpreter, SSML emitter, and conversation
// scheduler.
package character

import "github.com/example/scriptvoice/internal/emotion"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

type Age string

const (
	AgeChild  Age = "child"
	AgeYoung  Age = "young"
	AgeAdult  Age = "adult"
	AgeSenior Age = "senior"
)

type Timbre string

const (
	TimbreDeep   Timbre = "deep"
	TimbreMedium Timbre = "medium"
	TimbreHigh   Timbre = "high"
)

type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// PersonalityTag is one of the closed vocabulary of accumulable
// personality descriptors.
type PersonalityTag string

const (
	TagCheerful     PersonalityTag = "cheerful"
	TagCalm         PersonalityTag = "calm"
	TagEnergetic    PersonalityTag = "energetic"
	TagWise         PersonalityTag = "wise"
	TagFriendly     PersonalityTag = "friendly"
	TagProfessional PersonalityTag = "professional"
	TagDramatic     PersonalityTag = "dramatic"
	TagMysterious   PersonalityTag = "mysterious"
	TagConfident    PersonalityTag = "confident"
	TagGentle       PersonalityTag = "gentle"
)

// VoiceSpec is a derived voice description, not a backend identifier.
// Every field is always populated; the prompt interpreter never returns a
// partially-filled spec.
type VoiceSpec struct {
	Gender         Gender           `json:"gender"`
	Age            Age              `json:"age"`
	Accent         string           `json:"accent"`
	Timbre         Timbre           `json:"timbre"`
	Pace           Pace             `json:"pace"`
	Personality    []PersonalityTag `json:"personality,omitempty"`
	DefaultEmotion emotion.Profile  `json:"default_emotion"`
	// BackendVoiceID, if non-empty, is a backend-specific voice
	// identifier resolved out-of-band (e.g. by voice cloning or manual
	// selection); the Provider Adapter includes it in SynthesisRequest
	// when known.
	BackendVoiceID string `json:"backend_voice_id,omitempty"`
	// Language is a BCP-47-ish language tag used by the SSML emitter's
	// <voice> element; defaults to "en-US".
	Language string `json:"language,omitempty"`
}

// HasTag reports whether tag is present in the spec's personality set.
func (v VoiceSpec) HasTag(tag PersonalityTag) bool {
	for _, t := range v.Personality {
		if t == tag {
			return true
		}
	}
	return false
}

// Default returns the VoiceSpec used when the prompt interpreter cannot
// match any keyword.
func Default() VoiceSpec {
	return VoiceSpec{
		Gender:         GenderNeutral,
		Age:            AgeAdult,
		Accent:         "neutral",
		Timbre:         TimbreMedium,
		Pace:           PaceNormal,
		Personality:    nil,
		DefaultEmotion: emotion.Profile{Kind: emotion.KindNeutral, Intensity: 0.5},
		Language:       "en-US",
	}
}
