// Package pcm defines the canonical PCM buffer format consumed by the
// audio mixer: interleaved signed 16-bit little-endian samples at a fixed
// sample rate and channel count. Providers and parsers that produce a
// different format must canonicalize through this package before their
// output reaches the mixer.
package pcm

import "fmt"

// DefaultSampleRate and DefaultChannels are the canonical mixer format.
const (
	DefaultSampleRate = 44100
	DefaultChannels   = 2
	BytesPerSample    = 2
)

// Buffer is interleaved signed 16-bit PCM at SampleRate/ChannelCount.
type Buffer struct {
	Samples     []int16
	SampleRate  int
	ChannelCount int
}

// NewSilence returns a zero-filled canonical buffer covering durationMs.
func NewSilence(durationMs int, sampleRate, channels int) Buffer {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if channels <= 0 {
		channels = DefaultChannels
	}
	frames := int(float64(durationMs) / 1000.0 * float64(sampleRate))
	return Buffer{
		Samples:      make([]int16, frames*channels),
		SampleRate:   sampleRate,
		ChannelCount: channels,
	}
}

// FrameCount returns the number of per-channel sample frames in b.
func (b Buffer) FrameCount() int {
	if b.ChannelCount == 0 {
		return 0
	}
	return len(b.Samples) / b.ChannelCount
}

// DurationMs returns b's duration in milliseconds.
func (b Buffer) DurationMs() float64 {
	if b.SampleRate == 0 {
		return 0
	}
	return float64(b.FrameCount()) / float64(b.SampleRate) * 1000.0
}

// Validate checks that b's sample slice length is a whole multiple of its
// channel count.
func (b Buffer) Validate() error {
	if b.ChannelCount <= 0 {
		return fmt.Errorf("pcm: invalid channel count %d", b.ChannelCount)
	}
	if len(b.Samples)%b.ChannelCount != 0 {
		return fmt.Errorf("pcm: sample count %d not a multiple of channel count %d", len(b.Samples), b.ChannelCount)
	}
	return nil
}

// Concat appends the frames of all buffers after b's own, canonicalizing
// each to b's sample rate/channel count first. It is the concatenation
// rule used when joining per-segment PCM within a line: zero silence
// between segments of the same line.
func Concat(canonical Buffer, others ...Buffer) Buffer {
	out := Buffer{
		SampleRate:   canonical.SampleRate,
		ChannelCount: canonical.ChannelCount,
		Samples:      append([]int16(nil), canonical.Samples...),
	}
	for _, o := range others {
		c := Canonicalize(o, out.SampleRate, out.ChannelCount)
		out.Samples = append(out.Samples, c.Samples...)
	}
	return out
}
