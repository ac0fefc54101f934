package scene

import "testing"

func TestResolvePhoneDampensHighFrequencies(t *testing.T) {
	_, mixer := Resolve(Context{Acoustic: AcousticPhone})
	if mixer.EQHighShelfDb >= 0 {
		t.Fatalf("expected negative high shelf for phone acoustic, got %v", mixer.EQHighShelfDb)
	}
}

func TestResolveHallHasMoreReverbThanOutdoor(t *testing.T) {
	_, hall := Resolve(Context{Acoustic: AcousticHall})
	_, outdoor := Resolve(Context{Acoustic: AcousticOutdoor})
	if hall.ReverbWetness <= outdoor.ReverbWetness {
		t.Fatalf("expected hall reverb (%v) > outdoor reverb (%v)", hall.ReverbWetness, outdoor.ReverbWetness)
	}
}

func TestResolveTensionRaisesRate(t *testing.T) {
	low, _ := Resolve(Context{Tension: 0.0})
	high, _ := Resolve(Context{Tension: 1.0})
	if high.RateDelta <= low.RateDelta {
		t.Fatalf("expected higher tension to raise rate delta")
	}
}
