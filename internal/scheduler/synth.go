package scheduler

import (
	"context"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
	"github.com/example/scriptvoice/internal/pcm"
	"github.com/example/scriptvoice/internal/renderplan"
)

// LineSegment is one emotion-tagged slice of a synthesized line, timed
// relative to the line's own start (not the master timeline).
type LineSegment struct {
	Emotion    emotion.Profile
	Buffer     pcm.Buffer
	OffsetMs   int
	DurationMs int
}

// LineSynthesisResult is the Voice Engine's output for a single line:
// ordered segments that together cover the line's full duration.
type LineSynthesisResult struct {
	Segments []LineSegment
}

// LineSynthesizer is the scheduler's sole collaborator boundary onto the
// voice engine, kept narrow to avoid a scheduler<->voiceengine import
// cycle: the scheduler borrows this for the duration of one render call
// and owns nothing of the engine.
type LineSynthesizer interface {
	SynthesizeLine(ctx context.Context, ch character.Character, line renderplan.Line) (LineSynthesisResult, error)
}
