package character

import "github.com/example/scriptvoice/internal/emotion"

// Trait is a named personality dimension with an intensity in [0,1].
type Trait struct {
	Name      string  `json:"name"`
	Intensity float64 `json:"intensity"`
}

// SpeakingStyle describes how a character delivers lines, independent of
// the underlying VoiceSpec. Every field except Pace is in [0,1].
type SpeakingStyle struct {
	Pace                 Pace    `json:"pace"`
	Formality            float64 `json:"formality"`
	Confidence           float64 `json:"confidence"`
	Enthusiasm           float64 `json:"enthusiasm"`
	InterruptionTendency float64 `json:"interruption_tendency"`
}

// EmotionalRange bounds how far a character's emotion can swing.
type EmotionalRange struct {
	Baseline        emotion.Profile `json:"baseline"`
	Volatility      float64         `json:"volatility"`    // [0,1]
	MaxIntensity    float64         `json:"max_intensity"` // [0,1]
	DominantEmotion []emotion.Kind  `json:"dominant_emotions,omitempty"`
}

// Personality composes traits, speaking style, emotional range, and
// verbosity into the character's non-acoustic behavioral profile.
type Personality struct {
	Traits         []Trait        `json:"traits,omitempty"`
	SpeakingStyle  SpeakingStyle  `json:"speaking_style"`
	EmotionalRange EmotionalRange `json:"emotional_range"`
	Verbosity      float64        `json:"verbosity"` // [0,1]
}

// SpeechPatterns captures recurring verbal tics used by the SSML emitter's
// filler/catchphrase insertion (disabled in deterministic mode).
type SpeechPatterns struct {
	Fillers       []string      `json:"fillers,omitempty"`
	Catchphrases  []string      `json:"catchphrases,omitempty"`
	EmphasisStyle EmphasisStyle `json:"emphasis_style,omitempty"`
}

// EmphasisStyle adjusts the SSML emitter's emphasis level selection.
type EmphasisStyle string

const (
	EmphasisStandard EmphasisStyle = "standard"
	EmphasisMuted    EmphasisStyle = "muted"
	EmphasisStrong   EmphasisStyle = "strong"
)

// Character is a single speaking role within a RenderPlan.
type Character struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	VoiceSpec      VoiceSpec       `json:"voice_spec"`
	Personality    Personality     `json:"personality"`
	SpeechPatterns SpeechPatterns  `json:"speech_patterns"`
	DefaultEmotion emotion.Profile `json:"default_emotion"`
}

// Registry is the set of characters in a render plan, keyed by ID. It is
// mutable only before synthesis begins; callers must not mutate a
// Registry concurrently with an in-flight render.
type Registry struct {
	byID  map[string]Character
	order []string
}

// NewRegistry builds a Registry from characters, rejecting duplicate IDs.
func NewRegistry(characters []Character) (*Registry, error) {
	r := &Registry{byID: make(map[string]Character, len(characters))}
	for _, c := range characters {
		if c.ID == "" {
			return nil, errEmptyID
		}
		if _, exists := r.byID[c.ID]; exists {
			return nil, duplicateIDError(c.ID)
		}
		r.byID[c.ID] = c
		r.order = append(r.order, c.ID)
	}
	return r, nil
}

// Get returns the character with the given id.
func (r *Registry) Get(id string) (Character, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// IDs returns character IDs in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Len reports the number of registered characters.
func (r *Registry) Len() int {
	return len(r.order)
}
