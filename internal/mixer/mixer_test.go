package mixer

import (
	"testing"

	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/scheduler"
)

func constBuffer(value int16, frames int) pcm.Buffer {
	samples := make([]int16, frames*pcm.DefaultChannels)
	for i := range samples {
		samples[i] = value
	}
	return pcm.Buffer{Samples: samples, SampleRate: pcm.DefaultSampleRate, ChannelCount: pcm.DefaultChannels}
}

func TestMixNoClipping(t *testing.T) {
	trackA := scheduler.CharacterTrack{
		CharacterID: "a",
		Segments: []scheduler.AudioSegment{
			{LineID: "a1", StartMs: 0, EndMs: 100, Buffer: constBuffer(30000, 4410)},
		},
	}
	trackB := scheduler.CharacterTrack{
		CharacterID: "b",
		Segments: []scheduler.AudioSegment{
			{LineID: "b1", StartMs: 0, EndMs: 100, Buffer: constBuffer(30000, 4410)},
		},
	}
	timeline := scheduler.ConversationTimeline{TotalMs: 100}

	master := Mix(timeline, []scheduler.CharacterTrack{trackA, trackB}, nil, Options{Normalize: false})
	for _, s := range master.Samples {
		if s > int16Max || s < int16Min {
			t.Fatalf("sample %d outside int16 range", s)
		}
	}
}

func TestMixNormalizationRespectsHeadroom(t *testing.T) {
	track := scheduler.CharacterTrack{
		CharacterID: "a",
		Segments: []scheduler.AudioSegment{
			{LineID: "a1", StartMs: 0, EndMs: 100, Buffer: constBuffer(32000, 4410)},
		},
	}
	timeline := scheduler.ConversationTimeline{TotalMs: 100}

	master := Mix(timeline, []scheduler.CharacterTrack{track}, nil, Options{Normalize: true})

	var peak int
	for _, s := range master.Samples {
		abs := int(s)
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}
	want := int(int16Max * normalizeHeadroom)
	if peak < want-1 || peak > want+1 {
		t.Fatalf("peak = %d, want ~%d", peak, want)
	}
}

func TestMixAppliesOverlapAttenuation(t *testing.T) {
	track := scheduler.CharacterTrack{
		CharacterID: "a",
		Segments: []scheduler.AudioSegment{
			{LineID: "a1", StartMs: 0, EndMs: 200, Buffer: constBuffer(10000, 8820)},
		},
	}
	timeline := scheduler.ConversationTimeline{TotalMs: 200}
	attenuations := []scheduler.AttenuationWindow{
		{CharacterID: "a", StartMs: 0, EndMs: 100, Factor: 0.7},
	}

	master := Mix(timeline, []scheduler.CharacterTrack{track}, attenuations, Options{Normalize: false})

	attenuatedFrame := master.Samples[0]
	unattenuatedFrame := master.Samples[master.FrameCount()/2*pcm.DefaultChannels]

	if int(attenuatedFrame) >= int(unattenuatedFrame) {
		t.Fatalf("expected attenuated sample (%d) to be smaller than unattenuated (%d)", attenuatedFrame, unattenuatedFrame)
	}
}

func TestMixDeterministic(t *testing.T) {
	track := scheduler.CharacterTrack{
		CharacterID: "a",
		Segments: []scheduler.AudioSegment{
			{LineID: "a1", StartMs: 0, EndMs: 100, Buffer: constBuffer(5000, 4410)},
		},
	}
	timeline := scheduler.ConversationTimeline{TotalMs: 100}

	m1 := Mix(timeline, []scheduler.CharacterTrack{track}, nil, DefaultOptions())
	m2 := Mix(timeline, []scheduler.CharacterTrack{track}, nil, DefaultOptions())

	if len(m1.Samples) != len(m2.Samples) {
		t.Fatalf("length mismatch: %d vs %d", len(m1.Samples), len(m2.Samples))
	}
	for i := range m1.Samples {
		if m1.Samples[i] != m2.Samples[i] {
			t.Fatalf("mixer not deterministic at sample %d: %d vs %d", i, m1.Samples[i], m2.Samples[i])
		}
	}
}

func TestCompressReducesLoudSamples(t *testing.T) {
	master := pcm.Buffer{Samples: []int16{30000, -30000, 100, -100}, SampleRate: pcm.DefaultSampleRate, ChannelCount: 2}
	compress(master, 0.5)
	if master.Samples[0] >= 30000 {
		t.Fatalf("expected loud sample to be reduced, got %d", master.Samples[0])
	}
	if master.Samples[2] != 100 {
		t.Fatalf("expected quiet sample unaffected, got %d", master.Samples[2])
	}
}
