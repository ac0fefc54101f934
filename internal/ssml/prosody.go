package ssml

import "github.com/example/scriptvoice/internal/emotion"

// ProsodyOffsets is the rate/pitch/range multiplier delta contributed by
// one source (pace, speaking style, or emotion). It is an alias for
// emotion.ProsodyOffsets so the emitter and non-emotion providers share
// one coefficient table instead of hand-duplicating it; a provider that
// collapses emotion numerically must land on the same values as the
// markup path.
type ProsodyOffsets = emotion.ProsodyOffsets

// EmotionProsody scales the canonical per-unit coefficients by p's
// intensity (e.g. happy: rate * 1+0.2*i, pitch +15*i%, range +25*i%).
func EmotionProsody(p emotion.Profile) ProsodyOffsets {
	return emotion.Prosody(p)
}
