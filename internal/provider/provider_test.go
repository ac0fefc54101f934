package provider

import (
	"testing"

	"github.com/example/scriptvoice/internal/emotion"
)

func TestCollapseEmotionMatchesSSMLTable(t *testing.T) {
	kinds := []emotion.Kind{
		emotion.KindHappy, emotion.KindSad, emotion.KindAngry, emotion.KindExcited,
		emotion.KindCalm, emotion.KindFearful, emotion.KindSurprised, emotion.KindNeutral,
	}

	for _, k := range kinds {
		p := emotion.Profile{Kind: k, Intensity: 0.7}
		got := CollapseEmotion(SynthesisRequest{}, p)
		want := emotion.Prosody(p)

		if got.Rate != want.RateMultiplier {
			t.Errorf("%s: Rate = %v, want %v", k, got.Rate, want.RateMultiplier)
		}
		if got.Pitch != want.PitchPercent {
			t.Errorf("%s: Pitch = %v, want %v", k, got.Pitch, want.PitchPercent)
		}
		if got.Volume != want.VolumeMultiplier {
			t.Errorf("%s: Volume = %v, want %v", k, got.Volume, want.VolumeMultiplier)
		}
	}
}

func TestCollapseEmotionAddsToBase(t *testing.T) {
	base := SynthesisRequest{Rate: 1.0, Pitch: 0, Volume: 1.0}
	got := CollapseEmotion(base, emotion.Profile{Kind: emotion.KindHappy, Intensity: 1.0})

	if got.Rate != 1.2 {
		t.Errorf("Rate = %v, want 1.2", got.Rate)
	}
	if got.Pitch != 15 {
		t.Errorf("Pitch = %v, want 15", got.Pitch)
	}
	if got.Volume != 1.0 {
		t.Errorf("Volume = %v, want 1.0 (happy has no volume offset)", got.Volume)
	}
}
