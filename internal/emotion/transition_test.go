package emotion

import "testing"

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestResolveTriggerMsPrecedence(t *testing.T) {
	trig := Trigger{
		TimeMs:   intPtr(1000),
		Word:     strPtr("hello"),
		Position: intPtr(5),
		Marker:   strPtr("X"),
	}
	ms, ok := ResolveTriggerMs(trig, "hello world [X]")
	if !ok || ms != 1000 {
		t.Fatalf("expected time trigger to win, got ms=%d ok=%v", ms, ok)
	}
}

func TestResolveTriggerMsWord(t *testing.T) {
	trig := Trigger{Word: strPtr("excited")}
	text := "I was calm, but then I became really excited!"
	ms, ok := ResolveTriggerMs(trig, text)
	if !ok {
		t.Fatal("expected word trigger to resolve")
	}
	idx := findWholeWordIndex(text, "excited")
	want := int(float64(idx) / charsPerSecond * 1000)
	if ms != want {
		t.Fatalf("ms=%d want=%d", ms, want)
	}
}

func TestResolveTriggerMsWordCaseInsensitiveWholeWord(t *testing.T) {
	trig := Trigger{Word: strPtr("CAT")}
	if _, ok := ResolveTriggerMs(trig, "concatenate"); ok {
		t.Fatal("expected substring match inside 'concatenate' to be rejected")
	}
	ms, ok := ResolveTriggerMs(trig, "the cat sat")
	if !ok || ms < 0 {
		t.Fatalf("expected whole-word match, got ms=%d ok=%v", ms, ok)
	}
}

func TestResolveTriggerMsMarker(t *testing.T) {
	trig := Trigger{Marker: strPtr("BEAT")}
	ms, ok := ResolveTriggerMs(trig, "pause here [BEAT] and continue")
	if !ok || ms <= 0 {
		t.Fatalf("expected marker trigger to resolve to positive ms, got ms=%d ok=%v", ms, ok)
	}
}

func TestResolveTriggerMsNoneSet(t *testing.T) {
	if _, ok := ResolveTriggerMs(Trigger{}, "text"); ok {
		t.Fatal("expected no trigger to resolve")
	}
}

func TestTransitionValidateDuration(t *testing.T) {
	limits := DefaultValidationLimits()
	tr := Transition{
		From:       Profile{Kind: KindCalm, Intensity: 0.6},
		To:         Profile{Kind: KindExcited, Intensity: 0.9},
		DurationMs: 1500,
		Curve:      CurveEaseInOut,
	}
	if err := tr.Validate(limits); err != nil {
		t.Fatalf("expected valid transition, got %v", err)
	}

	tr.DurationMs = 499
	if err := tr.Validate(limits); err == nil {
		t.Fatal("expected duration below minimum to be rejected")
	}

	tr.DurationMs = 3001
	if err := tr.Validate(limits); err == nil {
		t.Fatal("expected duration above maximum to be rejected")
	}
}

func TestTransitionValidateIntensityThreshold(t *testing.T) {
	limits := DefaultValidationLimits()
	tr := Transition{
		From:       Profile{Kind: KindCalm, Intensity: 0.5},
		To:         Profile{Kind: KindHappy, Intensity: 0.55},
		DurationMs: 1000,
		Curve:      CurveLinear,
	}
	if err := tr.Validate(limits); err == nil {
		t.Fatal("expected small intensity delta to be rejected")
	}
}

func TestTransitionValidateBezierControlPoints(t *testing.T) {
	limits := DefaultValidationLimits()
	tr := Transition{
		From:          Profile{Kind: KindCalm, Intensity: 0.2},
		To:            Profile{Kind: KindHappy, Intensity: 0.8},
		DurationMs:    1000,
		Curve:         CurveBezier,
		ControlPoints: [2]ControlPoint{{X: -0.1, Y: 0.5}, {X: 0.5, Y: 0.5}},
	}
	if err := tr.Validate(limits); err == nil {
		t.Fatal("expected out-of-range control point to be rejected")
	}
}
