// Package prompt maps natural-language voice descriptions to a structured
// character.VoiceSpec.
package prompt

import (
	"strings"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
)

// Interpret parses a free-text voice description into a fully-populated
// VoiceSpec. It never fails: unmatched fields fall back to
// character.Default()'s values. Conflicts resolve as
// exclusion rules first, then first-match-wins for enumerated fields,
// with personality tags accumulated rather than exclusive.
func Interpret(text string) character.VoiceSpec {
	lower := strings.ToLower(text)

	spec := character.Default()

	spec.Gender = matchGender(lower)
	if age, ok := matchFirst(lower, ageGroups); ok {
		spec.Age = character.Age(age)
	}
	if accent, ok := matchFirst(lower, accentGroups); ok {
		spec.Accent = accent
	}
	if timbre, ok := matchFirst(lower, timbreGroups); ok {
		spec.Timbre = character.Timbre(timbre)
	}
	if pace, ok := matchFirst(lower, paceGroups); ok {
		spec.Pace = character.Pace(pace)
	}

	spec.Personality = matchPersonality(lower)
	spec.DefaultEmotion = defaultEmotionFor(spec.Personality)

	return spec
}

// matchGender applies the exclusion rule: the token "female" suppresses a
// "male" match inside the substring "female" before testing for "male".
func matchGender(lower string) character.Gender {
	hasFemale := containsWord(lower, femaleSynonyms...)
	hasMale := containsWord(stripSubstrings(lower, "female"), maleSynonyms...)

	switch {
	case hasFemale:
		return character.GenderFemale
	case hasMale:
		return character.GenderMale
	default:
		return character.GenderNeutral
	}
}

// stripSubstrings removes every occurrence of each needle from s, so a
// subsequent synonym search cannot match a substring of an excluded term
// (e.g. "male" inside "female").
func stripSubstrings(s string, needles ...string) string {
	for _, n := range needles {
		s = strings.ReplaceAll(s, n, " ")
	}
	return s
}

type synonymGroup struct {
	value    string
	synonyms []string
}

func matchFirst(lower string, groups []synonymGroup) (string, bool) {
	for _, g := range groups {
		if containsWord(lower, g.synonyms...) {
			return g.value, true
		}
	}
	return "", false
}

func matchPersonality(lower string) []character.PersonalityTag {
	var tags []character.PersonalityTag
	for _, g := range personalityGroups {
		if containsWord(lower, g.synonyms...) {
			tags = append(tags, character.PersonalityTag(g.value))
		}
	}
	return tags
}

// defaultEmotionFor derives a default emotion from accumulated
// personality tags via a fixed mapping, checked in a stable
// priority order; unmatched personalities yield neutral@0.5.
func defaultEmotionFor(tags []character.PersonalityTag) emotion.Profile {
	has := func(t character.PersonalityTag) bool {
		for _, tag := range tags {
			if tag == t {
				return true
			}
		}
		return false
	}

	switch {
	case has(character.TagCheerful):
		return emotion.Profile{Kind: emotion.KindHappy, Intensity: 0.5}
	case has(character.TagCalm):
		return emotion.Profile{Kind: emotion.KindCalm, Intensity: 0.5}
	case has(character.TagEnergetic):
		return emotion.Profile{Kind: emotion.KindExcited, Intensity: 0.5}
	case has(character.TagDramatic):
		return emotion.Profile{Kind: emotion.KindExcited, Intensity: 0.5}
	default:
		return emotion.Profile{Kind: emotion.KindNeutral, Intensity: 0.5}
	}
}

// containsWord reports whether any synonym matches lower. Multi-word
// synonyms (containing a space) are matched as substrings; single-word
// synonyms are matched as whole words only, so e.g. "he" does not match
// inside "she".
func containsWord(lower string, synonyms ...string) bool {
	var words map[string]bool

	for _, syn := range synonyms {
		syn = strings.TrimSpace(syn)
		if syn == "" {
			continue
		}
		if strings.Contains(syn, " ") {
			if strings.Contains(lower, syn) {
				return true
			}
			continue
		}
		if words == nil {
			words = make(map[string]bool)
			for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
				return !(r == '\'' || r == '-' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
			}) {
				words[w] = true
			}
		}
		if words[syn] {
			return true
		}
	}
	return false
}
