package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/example/scriptvoice/internal/emotion"
)

// Cue is one parsed subtitle entry, shared by the SRT and VTT parsers.
type Cue struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Speaker string
	Text    string
	Emotion *emotion.Kind

	// LineEnding is the line-ending style ("\n" or "\r\n") detected in
	// the document this cue was parsed from. Emit* round-trips it.
	LineEnding string
}

// detectLineEnding reports whether data uses CRLF or LF line endings, so
// Emit* can round-trip the input's style.
func detectLineEnding(data string) string {
	if strings.Contains(data, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// cueLineEnding picks the line ending to emit for a cue set: the first
// cue's detected ending, defaulting to LF for cues built programmatically.
func cueLineEnding(cues []Cue) string {
	if len(cues) > 0 && cues[0].LineEnding == "\r\n" {
		return "\r\n"
	}
	return "\n"
}

var srtTimecodePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2}),(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2}),(\d{3})`)

func parseTimecode(m []string, offset int) (time.Duration, error) {
	h, err := strconv.Atoi(m[offset])
	if err != nil {
		return 0, err
	}
	min, err := strconv.Atoi(m[offset+1])
	if err != nil {
		return 0, err
	}
	sec, err := strconv.Atoi(m[offset+2])
	if err != nil {
		return 0, err
	}
	ms, err := strconv.Atoi(m[offset+3])
	if err != nil {
		return 0, err
	}
	return time.Duration(h)*time.Hour + time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second + time.Duration(ms)*time.Millisecond, nil
}

// ParseSRT parses an SRT document: blocks separated by
// blank lines, each with an integer index, a timecode line, and one or
// more text lines.
func ParseSRT(data string) ([]Cue, error) {
	eol := detectLineEnding(data)
	blocks := splitBlocks(data)
	cues := make([]Cue, 0, len(blocks))

	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		index, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("script: invalid SRT index %q: %w", lines[0], err)
		}

		m := srtTimecodePattern.FindStringSubmatch(strings.TrimSpace(lines[1]))
		if m == nil {
			return nil, fmt.Errorf("script: invalid SRT timecode %q", lines[1])
		}
		start, err := parseTimecode(m, 1)
		if err != nil {
			return nil, err
		}
		end, err := parseTimecode(m, 5)
		if err != nil {
			return nil, err
		}

		text := strings.Join(lines[2:], "\n")
		cue := buildCue(index, start, end, text)
		cue.LineEnding = eol
		cues = append(cues, cue)
	}

	return cues, nil
}

func buildCue(index int, start, end time.Duration, rawText string) Cue {
	text := stripHTMLTags(rawText)
	speaker := ""
	if sp, rest, ok := extractSpeakerPrefix(text); ok {
		speaker = sp
		text = rest
	}
	cleaned, kind := extractEmotionTag(text)
	return Cue{Index: index, Start: start, End: end, Speaker: speaker, Text: cleaned, Emotion: kind}
}

func splitBlocks(data string) []string {
	normalized := strings.ReplaceAll(data, "\r\n", "\n")
	raw := strings.Split(strings.TrimSpace(normalized), "\n\n")
	blocks := make([]string, 0, len(raw))
	for _, b := range raw {
		if strings.TrimSpace(b) != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// EmitSRT re-serializes cues as an SRT document with 1-based sequential
// indices, regardless of the Index field on each Cue. Line endings match
// the source document's style, defaulting to LF for cues
// that were never parsed from a document.
func EmitSRT(cues []Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n", i+1, formatSRTTimecode(c.Start), formatSRTTimecode(c.End))
		if c.Speaker != "" {
			fmt.Fprintf(&b, "%s: %s\n", c.Speaker, c.Text)
		} else {
			fmt.Fprintf(&b, "%s\n", c.Text)
		}
		if i < len(cues)-1 {
			b.WriteString("\n")
		}
	}

	out := b.String()
	if cueLineEnding(cues) == "\r\n" {
		out = strings.ReplaceAll(out, "\n", "\r\n")
	}
	return out
}

func formatSRTTimecode(d time.Duration) string {
	return formatTimecode(d, ",")
}

func formatTimecode(d time.Duration, msSep string) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	d -= s * time.Second
	ms := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, msSep, ms)
}
