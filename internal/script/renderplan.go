package script

import (
	"fmt"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/renderplan"
)

// BuildRenderPlan assembles lines (from ParseDialogue, ParseSRT, or
// ParseVTT, via the shared Cue-like shape) into a RenderPlan, creating a
// default character for every distinct speaker encountered and a
// catch-all "narrator" character for unattributed lines.
func BuildRenderPlan(lines []DialogueLine, settings renderplan.GlobalSettings) (*renderplan.RenderPlan, error) {
	if len(lines) == 0 {
		return &renderplan.RenderPlan{GlobalSettings: settings}, nil
	}

	seen := make(map[string]bool)
	var characters []character.Character
	var planLines []renderplan.Line

	for i, dl := range lines {
		id := characterID(dl.Speaker)
		if !seen[id] {
			seen[id] = true
			characters = append(characters, character.Character{
				ID:             id,
				Name:           displayName(dl.Speaker),
				VoiceSpec:      character.Default(),
				DefaultEmotion: emotion.Neutral(),
			})
		}

		var emo *emotion.Profile
		if dl.Emotion != nil {
			emo = &emotion.Profile{Kind: *dl.Emotion, Intensity: 0.7}
		}

		planLines = append(planLines, renderplan.Line{
			ID:          fmt.Sprintf("line-%d", i+1),
			CharacterID: id,
			Text:        dl.Text,
			Emotion:     emo,
		})
	}

	plan := &renderplan.RenderPlan{
		Characters:     characters,
		Lines:          planLines,
		GlobalSettings: settings,
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return plan, nil
}

func characterID(speaker string) string {
	if speaker == "" {
		return "narrator"
	}
	return speaker
}

func displayName(speaker string) string {
	if speaker == "" {
		return "Narrator"
	}
	return speaker
}

// CuesToDialogueLines adapts parsed subtitle cues into DialogueLines for
// BuildRenderPlan, dropping the timing information subtitles carry (the
// scheduler recomputes timing from text; a future enhancement could plumb
// explicit subtitle timing through LineTiming instead of recomputing it).
func CuesToDialogueLines(cues []Cue) []DialogueLine {
	out := make([]DialogueLine, 0, len(cues))
	for _, c := range cues {
		out = append(out, DialogueLine{Speaker: c.Speaker, Text: c.Text, Emotion: c.Emotion})
	}
	return out
}
