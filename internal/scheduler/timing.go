package scheduler

import (
	"log/slog"
	"strings"

	"github.com/example/scriptvoice/internal/renderplan"
)

// wordsPerSecond is 180 wpm expressed per-second. It must stay equal to
// the timeline engine's 180 wpm line-duration estimate (180/60 = 3),
// even though the two are computed independently.
const wordsPerSecond = 3.0

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func naturalDurationMs(text string) int {
	wc := wordCount(text)
	if wc == 0 {
		return 0
	}
	return int(float64(wc) / wordsPerSecond * 1000.0)
}

// computeLineTimings assigns every line its start/end. Lines are processed
// in the order supplied; an overlap's target line must have already been
// timed (it must appear earlier in the supplied order) or the overlap is
// ignored with a warning and the line falls back to cursor-based timing.
func computeLineTimings(lines []renderplan.Line, pauseBetweenLinesMs int) []LineTimingResult {
	results := make([]LineTimingResult, 0, len(lines))
	byID := make(map[string]LineTimingResult, len(lines))

	cursor := 0
	for i, l := range lines {
		natural := naturalDurationMs(l.Text)

		pauseBefore := pauseBetweenLinesMs
		if i == 0 {
			pauseBefore = 0
		}
		if l.Timing.PauseBeforeMs != nil {
			pauseBefore = *l.Timing.PauseBeforeMs
		}

		startMs := cursor + pauseBefore
		if l.Timing.StartMs > 0 {
			startMs = l.Timing.StartMs
		}

		speed := 1.0
		if l.Timing.SpeedMultiplier != nil {
			speed = *l.Timing.SpeedMultiplier
		}
		endMs := startMs + int(float64(natural)/speed)
		if l.Timing.EndMs != nil {
			endMs = *l.Timing.EndMs
		}

		nonOverlapEnd := endMs

		if ov := l.Timing.Overlap; ov != nil {
			if target, ok := byID[ov.TargetLineID]; ok {
				startMs = target.StartMs + ov.OffsetIntoTargetMs
				endMs = startMs + int(float64(natural)/speed)
				if l.Timing.EndMs != nil {
					endMs = *l.Timing.EndMs
				}
			} else {
				slog.Warn("overlap target not yet scheduled, falling back to cursor timing",
					"line_id", l.ID, "target_line_id", ov.TargetLineID)
			}
		}

		result := LineTimingResult{LineID: l.ID, StartMs: startMs, EndMs: endMs}
		results = append(results, result)
		byID[l.ID] = result

		cursor = nonOverlapEnd + l.Timing.PauseAfterMs
	}

	return results
}
