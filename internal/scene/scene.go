// Package scene maps a supplied scene context onto prosody/reverb/EQ
// hints shaped for the SSML emitter's prosody attributes and the mixer's
// post-processing. Scene analysis itself (deriving a context from a
// script or video) is an external collaborator's job, and so is
// attaching a context to a render: callers that have one resolve it and
// fold the hints into their prosody and mixer settings.
package scene

// Acoustic names a coarse acoustic environment.
type Acoustic string

const (
	AcousticNeutral   Acoustic = "neutral"
	AcousticSmallRoom Acoustic = "small_room"
	AcousticHall      Acoustic = "hall"
	AcousticOutdoor   Acoustic = "outdoor"
	AcousticPhone     Acoustic = "phone"
)

// Context describes the scene a line or set of lines is spoken within.
type Context struct {
	Acoustic     Acoustic
	Tension      float64 // [0,1]; drives pace/volume hints
	Intimacy     float64 // [0,1]; 1 = close/quiet, 0 = distant/loud
	BackgroundDB float64 // ambient noise floor, used to raise volume hints
}

// ProsodyHints is the scene's effect on SSML prosody attributes, additive
// to the emotion-driven offsets computed in internal/ssml.
type ProsodyHints struct {
	RateDelta   float64
	VolumeDelta float64
}

// MixerHints is the scene's effect on mixer post-processing.
type MixerHints struct {
	ReverbWetness    float64 // [0,1]
	EQLowShelfDb     float64
	EQHighShelfDb    float64
}

// Resolve derives ProsodyHints and MixerHints from a Context. The
// mapping is intentionally simple and deterministic: callers needing a
// richer model supply a different Context, not a different Resolve.
func Resolve(ctx Context) (ProsodyHints, MixerHints) {
	prosody := ProsodyHints{
		RateDelta:   ctx.Tension * 0.15,
		VolumeDelta: ctx.BackgroundDB/60.0 - ctx.Intimacy*0.2,
	}

	mixer := MixerHints{
		ReverbWetness: acousticReverb(ctx.Acoustic),
		EQLowShelfDb:  acousticLowShelf(ctx.Acoustic),
		EQHighShelfDb: acousticHighShelf(ctx.Acoustic),
	}

	return prosody, mixer
}

func acousticReverb(a Acoustic) float64 {
	switch a {
	case AcousticHall:
		return 0.6
	case AcousticSmallRoom:
		return 0.2
	case AcousticOutdoor:
		return 0.05
	case AcousticPhone:
		return 0.0
	default:
		return 0.1
	}
}

func acousticLowShelf(a Acoustic) float64 {
	if a == AcousticPhone {
		return -6.0
	}
	return 0.0
}

func acousticHighShelf(a Acoustic) float64 {
	if a == AcousticPhone {
		return -9.0
	}
	return 0.0
}
