package script

import (
	"regexp"
	"strings"

	"github.com/example/scriptvoice/internal/emotion"
)

// DialogueLine is one spoken line extracted from free-form script text
// (screenplay, stage play, chat transcript, or prose with attributed
// dialogue), with no timing hints of its own — timing is the Conversation
// Scheduler's job once the line is placed into a RenderPlan.
type DialogueLine struct {
	Speaker string // empty for unattributed narration
	Text    string
	Emotion *emotion.Kind
}

// ParseDialogue extracts dialogue lines from screenplay/play/chat-style
// text, where each line is either blank, a scene/stage direction in
// parentheses (dropped), or a line prefixed by `SPEAKER:`. Novel-style
// prose attributed to a capitalized name (`"Hi," Maria said.` or
// `Maria said, "Hi."`) resolves that name, upper-cased, as the speaker.
// Other lines with no speaker prefix, including pronoun attribution
// ("she said"), are emitted as unattributed narration rather than dropped.
func ParseDialogue(text string) []DialogueLine {
	var out []DialogueLine

	for _, raw := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isStageDirection(line) {
			continue
		}

		line = stripHTMLTags(line)

		speaker := ""
		if sp, rest, ok := extractSpeakerPrefix(line); ok {
			speaker = sp
			line = rest
		} else if sp, rest, ok := extractNovelAttribution(line); ok {
			speaker = sp
			line = rest
		}

		cleaned, kind := extractEmotionTag(line)
		if cleaned == "" {
			continue
		}

		out = append(out, DialogueLine{Speaker: speaker, Text: cleaned, Emotion: kind})
	}

	return out
}

var stageDirectionPattern = regexp.MustCompile(`^\([^)]*\)$`)

func isStageDirection(line string) bool {
	return stageDirectionPattern.MatchString(line)
}

// extractNovelAttribution handles the common prose pattern
// `"Quoted text," Name said.` or `Name said, "Quoted text."`, returning
// the attributed speaker and the quoted text alone.
var (
	novelTrailingAttribution = regexp.MustCompile(`^"([^"]*?)[,.]?"\s*,?\s*([A-Z][a-zA-Z]*)\s+(?:said|asked|replied|whispered|shouted)\.?$`)
	novelLeadingAttribution  = regexp.MustCompile(`^([A-Z][a-zA-Z]*)\s+(?:said|asked|replied|whispered|shouted)[,:]?\s*"([^"]*?)[,.]?"\.?$`)
)

func extractNovelAttribution(line string) (speaker, rest string, ok bool) {
	if m := novelTrailingAttribution.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[2]), m[1], true
	}
	if m := novelLeadingAttribution.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[1]), m[2], true
	}
	return "", line, false
}
