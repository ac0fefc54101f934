// Package script parses dialogue out of script-like text — screenplay,
// play, novel, and chat transcript formats, plus SRT/VTT subtitle
// files — into a stream of lines carrying speaker, emotion, and timing
// hints that feed a RenderPlan.
package script

import (
	"regexp"
	"strings"

	"github.com/example/scriptvoice/internal/emotion"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML/style markup (e.g. subtitle <i>/<font> tags).
func stripHTMLTags(s string) string {
	return htmlTagPattern.ReplaceAllString(s, "")
}

var bracketTagPattern = regexp.MustCompile(`\[([^\]]+)\]`)

// extractEmotionTag finds the first bracketed tag whose name is in the
// closed emotion vocabulary, removes it from the text, and returns the
// matched Kind. Unknown bracketed names are left in place as plain
// text; only the closed emotion vocabulary is recognized.
func extractEmotionTag(text string) (string, *emotion.Kind) {
	loc := bracketTagPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	name := strings.ToLower(text[loc[2]:loc[3]])
	kind := emotion.Kind(name)
	if !kind.IsValid() {
		return text, nil
	}
	cleaned := text[:loc[0]] + text[loc[1]:]
	return collapseSpaces(cleaned), &kind
}

var speakerPrefixPattern = regexp.MustCompile(`^([A-Z][A-Z0-9 '._-]*):\s*(.*)$`)

// extractSpeakerPrefix matches an uppercase first token (possibly several
// uppercase words) ending in a colon, the same rule the SRT/VTT parsers
// use, reused here for screenplay/play/chat dialogue lines.
func extractSpeakerPrefix(line string) (speaker, rest string, ok bool) {
	m := speakerPrefixPattern.FindStringSubmatch(line)
	if m == nil {
		return "", line, false
	}
	return m[1], m[2], true
}

func collapseSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
