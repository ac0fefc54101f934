// Package mixer implements the audio mixer: sample-accurate
// placement of per-character tracks onto a master buffer, with overlap
// attenuation, peak normalization, dynamic range compression, and
// crossfades at speaker-change boundaries. The mixer is a pure function
// of its inputs: the same inputs always produce a bit-identical master.
package mixer

import (
	"math"

	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/scheduler"
)

// Options controls optional mixing behavior: an explicit struct
// enumerating every recognized option rather than a generic options bag.
type Options struct {
	Normalize        bool
	CompressionLevel float64 // (0,1]; 0 disables compression
	CrossfadeMs      int     // 0 disables crossfades
	Spatial          bool    // reserved for stereo placement hints; unused by Mix
}

// DefaultOptions returns the mixer defaults: normalize on, everything
// else off.
func DefaultOptions() Options {
	return Options{Normalize: true, CompressionLevel: 0, CrossfadeMs: 0, Spatial: false}
}

const (
	int16Max          = 32767
	int16Min          = -32768
	normalizeHeadroom = 0.95
)

// Mix places every track onto a single master buffer sized from
// timeline.TotalMs, applies overlap attenuation, optional normalization,
// optional compression, and optional crossfades at speaker-change
// boundaries.
func Mix(timeline scheduler.ConversationTimeline, tracks []scheduler.CharacterTrack, attenuations []scheduler.AttenuationWindow, opts Options) pcm.Buffer {
	sampleRate := pcm.DefaultSampleRate
	channels := pcm.DefaultChannels

	totalSamples := int(math.Ceil(float64(timeline.TotalMs) / 1000.0 * float64(sampleRate)))
	master := pcm.Buffer{
		Samples:      make([]int16, totalSamples*channels),
		SampleRate:   sampleRate,
		ChannelCount: channels,
	}

	for _, track := range tracks {
		placeTrack(master, track, attenuations, sampleRate, channels)
	}

	if opts.Normalize {
		normalize(master)
	}

	if opts.CompressionLevel > 0 {
		compress(master, opts.CompressionLevel)
	}

	if opts.CrossfadeMs > 0 {
		applyCrossfades(master, tracks, opts.CrossfadeMs, sampleRate, channels)
	}

	return master
}

func placeTrack(master pcm.Buffer, track scheduler.CharacterTrack, attenuations []scheduler.AttenuationWindow, sampleRate, channels int) {
	masterFrames := master.FrameCount()

	for _, seg := range track.Segments {
		segCanon := pcm.Canonicalize(seg.Buffer, sampleRate, channels)
		startSample := int(float64(seg.StartMs) / 1000.0 * float64(sampleRate))
		segFrames := segCanon.FrameCount()

		limit := segFrames
		if remaining := masterFrames - startSample; remaining < limit {
			limit = remaining
		}

		for i := 0; i < limit; i++ {
			frameStartMs := seg.StartMs + int(float64(i)/float64(sampleRate)*1000.0)
			atten := attenuationAt(attenuations, track.CharacterID, frameStartMs)
			for c := 0; c < channels; c++ {
				idx := (startSample+i)*channels + c
				if idx < 0 || idx >= len(master.Samples) {
					continue
				}
				sample := float64(segCanon.Samples[i*channels+c]) * atten
				master.Samples[idx] = clampInt16(int(master.Samples[idx]) + int(math.Round(sample)))
			}
		}
	}
}

func attenuationAt(windows []scheduler.AttenuationWindow, characterID string, timeMs int) float64 {
	for _, w := range windows {
		if w.CharacterID != characterID {
			continue
		}
		if timeMs >= w.StartMs && timeMs < w.EndMs {
			return w.Factor
		}
	}
	return 1.0
}

func clampInt16(v int) int16 {
	if v > int16Max {
		return int16Max
	}
	if v < int16Min {
		return int16Min
	}
	return int16(v)
}

func normalize(master pcm.Buffer) {
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
	if peak == 0 {
		return
	}
	scale := math.Min(1.0, float64(int16Max)*normalizeHeadroom/float64(peak))
	if scale >= 1.0 {
		return
	}
	for i, s := range master.Samples {
		master.Samples[i] = clampInt16(int(math.Round(float64(s) * scale)))
	}
}

// compress applies hard-knee compression: the part of a sample's
// magnitude above threshold = int16Max*(1-level) is divided by ratio =
// 1+3*level.
func compress(master pcm.Buffer, level float64) {
	if level <= 0 {
		return
	}
	if level > 1 {
		level = 1
	}
	threshold := float64(int16Max) * (1 - level)
	ratio := 1 + 3*level

	for i, s := range master.Samples {
		abs := math.Abs(float64(s))
		if abs <= threshold {
			continue
		}
		sign := 1.0
		if s < 0 {
			sign = -1.0
		}
		compressed := sign * (threshold + (abs-threshold)/ratio)
		master.Samples[i] = clampInt16(int(math.Round(compressed)))
	}
}
