package script

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var vttTimecodePattern = regexp.MustCompile(`^(\d{2}):(\d{2}):(\d{2})\.(\d{3})\s*-->\s*(\d{2}):(\d{2}):(\d{2})\.(\d{3})`)

// ParseVTT parses a WEBVTT document: a literal "WEBVTT"
// header line, `.`-separated timecodes, and optional ignored cue
// identifiers, otherwise following the same rules as ParseSRT.
func ParseVTT(data string) ([]Cue, error) {
	eol := detectLineEnding(data)
	normalized := strings.ReplaceAll(data, "\r\n", "\n")
	if !strings.HasPrefix(strings.TrimSpace(normalized), "WEBVTT") {
		return nil, fmt.Errorf("script: VTT document missing WEBVTT header")
	}

	// Drop the header block (everything up to the first blank line).
	parts := strings.SplitN(normalized, "\n\n", 2)
	body := ""
	if len(parts) == 2 {
		body = parts[1]
	}

	blocks := splitBlocks(body)
	cues := make([]Cue, 0, len(blocks))
	index := 0

	for _, block := range blocks {
		lines := strings.Split(block, "\n")
		if len(lines) < 2 {
			continue
		}

		timecodeLine := 0
		if vttTimecodePattern.FindStringSubmatch(strings.TrimSpace(lines[0])) == nil {
			// First line is a cue identifier; ignored.
			timecodeLine = 1
		}
		if timecodeLine >= len(lines) {
			continue
		}

		m := vttTimecodePattern.FindStringSubmatch(strings.TrimSpace(lines[timecodeLine]))
		if m == nil {
			return nil, fmt.Errorf("script: invalid VTT timecode %q", lines[timecodeLine])
		}
		start, err := parseTimecode(m, 1)
		if err != nil {
			return nil, err
		}
		end, err := parseTimecode(m, 5)
		if err != nil {
			return nil, err
		}

		index++
		text := strings.Join(lines[timecodeLine+1:], "\n")
		cue := buildCue(index, start, end, text)
		cue.LineEnding = eol
		cues = append(cues, cue)
	}

	return cues, nil
}

// EmitVTT re-serializes cues as a WEBVTT document, preserving the header
// and using `.`-separated timecodes. Line endings match the source
// document's style, defaulting to LF for cues that were
// never parsed from a document.
func EmitVTT(cues []Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n", formatVTTTimecode(c.Start), formatVTTTimecode(c.End))
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

func formatVTTTimecode(d time.Duration) string {
	return formatTimecode(d, ".")
}
