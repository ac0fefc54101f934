package script

import (
	"strings"
	"testing"
)

func TestParseVTTBasic(t *testing.T) {
	input := "WEBVTT\n\n00:00:01.000 --> 00:00:03.000\nALICE: Hello there\n"
	cues, err := ParseVTT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if cues[0].Speaker != "ALICE" || cues[0].Text != "Hello there" {
		t.Fatalf("unexpected cue: %+v", cues[0])
	}
}

func TestParseVTTIgnoresCueIdentifier(t *testing.T) {
	input := "WEBVTT\n\ncue-1\n00:00:01.000 --> 00:00:03.000\nHello\n"
	cues, err := ParseVTT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 || cues[0].Text != "Hello" {
		t.Fatalf("unexpected cues: %+v", cues)
	}
}

func TestParseVTTRejectsMissingHeader(t *testing.T) {
	_, err := ParseVTT("00:00:01.000 --> 00:00:03.000\nHello\n")
	if err == nil {
		t.Fatal("expected error for missing WEBVTT header")
	}
}

func TestParseThenEmitVTTRoundTripCRLF(t *testing.T) {
	input := "WEBVTT\r\n\r\n00:00:01.000 --> 00:00:03.000\r\nALICE: Hello there\r\n"
	cues, err := ParseVTT(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}

	out := EmitVTT(cues)
	if !strings.Contains(out, "\r\n") {
		t.Fatalf("expected CRLF line endings in emitted VTT, got %q", out)
	}

	again, err := ParseVTT(out)
	if err != nil {
		t.Fatalf("unexpected error re-parsing: %v", err)
	}
	if len(again) != 1 || again[0].Speaker != cues[0].Speaker || again[0].Text != cues[0].Text {
		t.Fatalf("CRLF round trip mismatch: %+v vs %+v", again, cues)
	}
}

func TestEmitVTTPreservesHeaderAndDotSeparator(t *testing.T) {
	cues := []Cue{{Start: 0, End: 0, Text: "Hi"}}
	out := EmitVTT(cues)
	if out[:6] != "WEBVTT" {
		t.Fatalf("expected WEBVTT header, got %q", out[:6])
	}
	if !strings.Contains(out, "00:00:00.000") {
		t.Fatalf("expected dot-separated timecode, got %q", out)
	}
}
