package script

import (
	"strings"
	"testing"

	"github.com/example/scriptvoice/internal/emotion"
)

// TestParseSRTScenario parses a speaker- and emotion-annotated block.
func TestParseSRTScenario(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:03,000\nALICE: Hello [happy]!\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	c := cues[0]
	if c.Index != 1 {
		t.Fatalf("index = %d, want 1", c.Index)
	}
	if c.Start.Seconds() != 1.0 || c.End.Seconds() != 3.0 {
		t.Fatalf("times = %v..%v, want 1s..3s", c.Start, c.End)
	}
	if c.Speaker != "ALICE" {
		t.Fatalf("speaker = %q, want ALICE", c.Speaker)
	}
	if c.Text != "Hello !" {
		t.Fatalf("text = %q, want %q", c.Text, "Hello !")
	}
	if c.Emotion == nil || *c.Emotion != emotion.KindHappy {
		t.Fatalf("emotion = %v, want happy", c.Emotion)
	}
}

func TestParseSRTMultipleBlocks(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\nHello\n\n2\n00:00:01,000 --> 00:00:02,500\nBOB: Hi there\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[1].Speaker != "BOB" {
		t.Fatalf("expected BOB as speaker, got %q", cues[1].Speaker)
	}
}

func TestParseSRTStripsHTMLTags(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\n<i>Hello</i>\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cues[0].Text != "Hello" {
		t.Fatalf("text = %q, want Hello", cues[0].Text)
	}
}

func TestParseSRTUnknownBracketLeftAsText(t *testing.T) {
	input := "1\n00:00:00,000 --> 00:00:01,000\nHello [wave]!\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cues[0].Emotion != nil {
		t.Fatal("expected no emotion for unrecognized bracket tag")
	}
	if cues[0].Text != "Hello [wave]!" {
		t.Fatalf("text = %q, want bracket preserved", cues[0].Text)
	}
}

func TestEmitSRTReindexesSequentially(t *testing.T) {
	cues := []Cue{
		{Index: 99, Start: 0, End: 0, Speaker: "ALICE", Text: "Hi"},
	}
	out := EmitSRT(cues)
	if out[:1] != "1" {
		t.Fatalf("expected re-emitted index to start at 1, got %q", out)
	}
}

func TestParseThenEmitSRTRoundTripCRLF(t *testing.T) {
	input := "1\r\n00:00:01,000 --> 00:00:03,000\r\nALICE: Hello there\r\n\r\n2\r\n00:00:03,000 --> 00:00:04,000\r\nBOB: Hi\r\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}

	out := EmitSRT(cues)
	if strings.Contains(out, "\r\n") == false {
		t.Fatalf("expected CRLF line endings in emitted SRT, got %q", out)
	}
	if strings.Contains(out, "\n") && strings.Count(out, "\r\n") != strings.Count(out, "\n") {
		t.Fatalf("expected every LF to be part of a CRLF pair, got %q", out)
	}

	again, err := ParseSRT(out)
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if len(again) != 2 || again[0].Text != cues[0].Text || again[1].Speaker != cues[1].Speaker {
		t.Fatalf("CRLF round trip mismatch: %+v vs %+v", again, cues)
	}
}

func TestEmitSRTDefaultsToLFForProgrammaticCues(t *testing.T) {
	cues := []Cue{{Index: 1, Speaker: "ALICE", Text: "Hi"}}
	out := EmitSRT(cues)
	if strings.Contains(out, "\r\n") {
		t.Fatalf("expected LF line endings for cues with no LineEnding set, got %q", out)
	}
}

func TestParseThenEmitSRTRoundTrip(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:03,000\nALICE: Hello there\n"
	cues, err := ParseSRT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := EmitSRT(cues)
	again, err := ParseSRT(out)
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if again[0].Speaker != cues[0].Speaker || again[0].Text != cues[0].Text {
		t.Fatalf("round trip mismatch: %+v vs %+v", again[0], cues[0])
	}
}
