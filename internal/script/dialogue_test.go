package script

import (
	"testing"

	"github.com/example/scriptvoice/internal/emotion"
)

func TestParseDialoguePlayFormat(t *testing.T) {
	input := "ALICE: Good morning!\n(She waves.)\nBOB: Morning, Alice.\n"
	lines := ParseDialogue(input)
	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue lines (stage direction dropped), got %d: %+v", len(lines), lines)
	}
	if lines[0].Speaker != "ALICE" || lines[1].Speaker != "BOB" {
		t.Fatalf("unexpected speakers: %+v", lines)
	}
}

func TestParseDialogueExtractsBracketedEmotion(t *testing.T) {
	lines := ParseDialogue("ALICE: I can't believe it [surprised]!\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Emotion == nil || *lines[0].Emotion != emotion.KindSurprised {
		t.Fatalf("expected surprised emotion, got %v", lines[0].Emotion)
	}
}

func TestParseDialogueNovelTrailingAttribution(t *testing.T) {
	lines := ParseDialogue(`"I have to go now," Maria said.` + "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Speaker != "MARIA" {
		t.Fatalf("speaker = %q, want MARIA", lines[0].Speaker)
	}
	if lines[0].Text != "I have to go now" {
		t.Fatalf("text = %q", lines[0].Text)
	}
}

func TestParseDialogueUnattributedNarration(t *testing.T) {
	lines := ParseDialogue("The room fell silent.\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Speaker != "" {
		t.Fatalf("expected unattributed narration, got speaker %q", lines[0].Speaker)
	}
}

func TestParseDialogueSkipsBlankLines(t *testing.T) {
	lines := ParseDialogue("ALICE: Hi\n\n\nBOB: Hey\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}
