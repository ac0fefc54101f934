package emotion

import (
	"fmt"
	"strings"
)

// Trigger positions a Transition on the line's time axis. Exactly one of
// TimeMs, Word, Position, Marker should be populated by callers; if more
// than one is set, ResolveTriggerMs applies the fixed precedence
// time > word > position > marker.
type Trigger struct {
	TimeMs   *int    `json:"time_ms,omitempty"`
	Word     *string `json:"word,omitempty"`
	Position *int    `json:"position,omitempty"`
	Marker   *string `json:"marker,omitempty"`
}

// charsPerSecond converts a character position (or word-match character
// offset) into a millisecond offset: ~180 wpm expressed as 15 chars/sec.
// This constant is distinct from the 180-wpm line-duration estimate used
// elsewhere and the two must not be conflated.
const charsPerSecond = 15.0

// Transition is a time-bounded morph between two emotion Profiles.
type Transition struct {
	From          Profile         `json:"from"`
	To            Profile         `json:"to"`
	DurationMs    int             `json:"duration_ms"`
	Curve         Curve           `json:"curve"`
	ControlPoints [2]ControlPoint `json:"control_points,omitempty"` // only meaningful when Curve == CurveBezier
	Trigger       Trigger         `json:"trigger"`
}

// ValidationLimits bounds accepted transition durations and the minimum
// intensity delta between From and To.
type ValidationLimits struct {
	MinDurationMs      int
	MaxDurationMs      int
	IntensityThreshold float64
}

// DefaultValidationLimits bounds durations to [500ms, 3s] with a 0.1
// minimum intensity delta.
func DefaultValidationLimits() ValidationLimits {
	return ValidationLimits{MinDurationMs: 500, MaxDurationMs: 3000, IntensityThreshold: 0.1}
}

// Validate reports whether t should be accepted: the
// duration must fall within limits and the intensity delta must clear the
// threshold. A non-nil error means the transition should be dropped
// (logged as a warning by the caller), never surfaced as fatal.
func (t Transition) Validate(limits ValidationLimits) error {
	if t.DurationMs < limits.MinDurationMs || t.DurationMs > limits.MaxDurationMs {
		return fmt.Errorf("emotion: transition duration %dms outside [%d,%d]",
			t.DurationMs, limits.MinDurationMs, limits.MaxDurationMs)
	}

	delta := t.To.Intensity - t.From.Intensity
	if delta < 0 {
		delta = -delta
	}
	if delta < limits.IntensityThreshold {
		return fmt.Errorf("emotion: intensity delta %.3f below threshold %.3f", delta, limits.IntensityThreshold)
	}

	if t.Curve == CurveBezier {
		for _, cp := range t.ControlPoints {
			if cp.X < 0 || cp.X > 1 || cp.Y < 0 || cp.Y > 1 {
				return fmt.Errorf("emotion: bezier control point %+v out of [0,1]", cp)
			}
		}
	}

	return nil
}

// ResolveTriggerMs computes the millisecond offset at which t's trigger
// fires, given the line text. Precedence when multiple Trigger fields are
// populated is time > word > position > marker.
// ok is false if no trigger field is populated, or a word/marker trigger
// does not match the text.
func ResolveTriggerMs(trig Trigger, text string) (ms int, ok bool) {
	if trig.TimeMs != nil {
		return *trig.TimeMs, true
	}
	if trig.Word != nil {
		idx := findWholeWordIndex(text, *trig.Word)
		if idx < 0 {
			return 0, false
		}
		return int(float64(idx) / charsPerSecond * 1000), true
	}
	if trig.Position != nil {
		return int(float64(*trig.Position) / charsPerSecond * 1000), true
	}
	if trig.Marker != nil {
		marker := "[" + *trig.Marker + "]"
		idx := strings.Index(text, marker)
		if idx < 0 {
			return 0, false
		}
		return int(float64(idx) / charsPerSecond * 1000), true
	}
	return 0, false
}

// findWholeWordIndex returns the character index of the first
// case-insensitive whole-word occurrence of word in text, or -1.
func findWholeWordIndex(text, word string) int {
	lowText := strings.ToLower(text)
	lowWord := strings.ToLower(word)
	if lowWord == "" {
		return -1
	}

	start := 0
	for {
		idx := strings.Index(lowText[start:], lowWord)
		if idx < 0 {
			return -1
		}
		abs := start + idx

		leftOK := abs == 0 || !isWordChar(lowText[abs-1])
		rightIdx := abs + len(lowWord)
		rightOK := rightIdx >= len(lowText) || !isWordChar(lowText[rightIdx])

		if leftOK && rightOK {
			return abs
		}
		start = abs + 1
		if start >= len(lowText) {
			return -1
		}
	}
}

func isWordChar(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
