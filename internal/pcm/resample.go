package pcm

import "math"

// Canonicalize converts b to targetRate/targetChannels, performing linear
// resampling and mono-to-stereo up-mix (by sample duplication) as needed.
// If b already matches, it is returned unchanged (no copy).
func Canonicalize(b Buffer, targetRate, targetChannels int) Buffer {
	if b.SampleRate == targetRate && b.ChannelCount == targetChannels {
		return b
	}

	resampled := b
	if b.SampleRate != targetRate && b.SampleRate > 0 && targetRate > 0 {
		resampled = resampleLinear(b, targetRate)
	}

	return upmixChannels(resampled, targetChannels)
}

// resampleLinear performs simple linear-interpolation sample-rate
// conversion, preserving b's channel count.
func resampleLinear(b Buffer, targetRate int) Buffer {
	frames := b.FrameCount()
	if frames == 0 {
		return Buffer{SampleRate: targetRate, ChannelCount: b.ChannelCount}
	}

	ratio := float64(targetRate) / float64(b.SampleRate)
	outFrames := int(math.Round(float64(frames) * ratio))
	if outFrames < 1 {
		outFrames = 1
	}

	out := make([]int16, outFrames*b.ChannelCount)

	for i := 0; i < outFrames; i++ {
		srcPos := float64(i) / ratio
		i0 := int(math.Floor(srcPos))
		i1 := i0 + 1
		frac := srcPos - float64(i0)

		if i1 >= frames {
			i1 = frames - 1
		}
		if i0 >= frames {
			i0 = frames - 1
		}

		for c := 0; c < b.ChannelCount; c++ {
			s0 := float64(b.Samples[i0*b.ChannelCount+c])
			s1 := float64(b.Samples[i1*b.ChannelCount+c])
			v := s0 + (s1-s0)*frac
			out[i*b.ChannelCount+c] = clampInt16(v)
		}
	}

	return Buffer{Samples: out, SampleRate: targetRate, ChannelCount: b.ChannelCount}
}

// upmixChannels converts between mono and stereo by sample duplication
// (mono->stereo) or averaging (stereo->mono). Other channel counts are
// not supported by the canonical format and are returned unchanged.
func upmixChannels(b Buffer, targetChannels int) Buffer {
	if b.ChannelCount == targetChannels {
		return b
	}

	frames := b.FrameCount()

	switch {
	case b.ChannelCount == 1 && targetChannels == 2:
		out := make([]int16, frames*2)
		for i := 0; i < frames; i++ {
			out[i*2] = b.Samples[i]
			out[i*2+1] = b.Samples[i]
		}
		return Buffer{Samples: out, SampleRate: b.SampleRate, ChannelCount: 2}
	case b.ChannelCount == 2 && targetChannels == 1:
		out := make([]int16, frames)
		for i := 0; i < frames; i++ {
			l := int32(b.Samples[i*2])
			r := int32(b.Samples[i*2+1])
			out[i] = int16((l + r) / 2)
		}
		return Buffer{Samples: out, SampleRate: b.SampleRate, ChannelCount: 1}
	default:
		return b
	}
}

// FromFloat32Mono converts float32 samples in [-1,1] at sourceRate Hz,
// mono, into the canonical buffer format. This is the conversion used by
// the local neural provider, whose runtime emits float32 mono PCM.
func FromFloat32Mono(samples []float32, sourceRate int) Buffer {
	ints := make([]int16, len(samples))
	for i, s := range samples {
		clamped := math.Max(-1.0, math.Min(1.0, float64(s)))
		ints[i] = clampInt16(clamped * 32767)
	}
	mono := Buffer{Samples: ints, SampleRate: sourceRate, ChannelCount: 1}
	return Canonicalize(mono, DefaultSampleRate, DefaultChannels)
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(math.Round(v))
}
