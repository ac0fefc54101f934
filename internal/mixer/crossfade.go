package mixer

import (
	"math"
	"sort"

	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/scheduler"
)

type boundary struct {
	characterID string
	startMs     int
	endMs       int
}

// applyCrossfades finds adjacent-in-time segments where the speaking
// character changes and applies a raised-cosine envelope to the master
// over a window of 2*crossfadeMs centered on the boundary. Crossfades
// apply to the master buffer only, never to individual tracks.
func applyCrossfades(master pcm.Buffer, tracks []scheduler.CharacterTrack, crossfadeMs, sampleRate, channels int) {
	var bounds []boundary
	for _, track := range tracks {
		for _, seg := range track.Segments {
			bounds = append(bounds, boundary{characterID: track.CharacterID, startMs: seg.StartMs, endMs: seg.EndMs})
		}
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i].startMs < bounds[j].startMs })

	for i := 1; i < len(bounds); i++ {
		prev, cur := bounds[i-1], bounds[i]
		if prev.characterID == cur.characterID {
			continue
		}
		transitionMs := cur.startMs
		windowRaisedCosine(master, transitionMs, crossfadeMs, sampleRate, channels)
	}
}

func windowRaisedCosine(master pcm.Buffer, centerMs, crossfadeMs, sampleRate, channels int) {
	halfFrames := int(float64(crossfadeMs) / 1000.0 * float64(sampleRate))
	if halfFrames <= 0 {
		return
	}
	centerFrame := int(float64(centerMs) / 1000.0 * float64(sampleRate))
	masterFrames := master.FrameCount()

	for offset := -halfFrames; offset <= halfFrames; offset++ {
		frame := centerFrame + offset
		if frame < 0 || frame >= masterFrames {
			continue
		}
		progress := float64(offset+halfFrames) / float64(2*halfFrames)
		envelope := 0.5 + 0.5*math.Cos(math.Pi*progress)
		for c := 0; c < channels; c++ {
			idx := frame*channels + c
			if idx < 0 || idx >= len(master.Samples) {
				continue
			}
			master.Samples[idx] = clampInt16(int(math.Round(float64(master.Samples[idx]) * envelope)))
		}
	}
}
