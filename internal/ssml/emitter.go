// Package ssml renders VoiceSpec + emotion + text into SSML markup: a
// well-formed XML fragment rooted in <speak>, containing exactly one
// <voice> wrapping one <prosody> wrapping the (possibly marked-up) text.
package ssml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/example/scriptvoice/internal/character"
	"github.com/example/scriptvoice/internal/emotion"
)

// Options configures emission. Deterministic disables the probabilistic
// filler/catchphrase insertion; tests always run with
// Deterministic=true.
type Options struct {
	Deterministic   bool
	Seed            int64
	FillerProb      float64
	CatchphraseProb float64
}

// DefaultOptions returns low, seeded probabilities with determinism off;
// callers that need reproducible tests should set Deterministic=true.
func DefaultOptions() Options {
	return Options{Deterministic: false, Seed: 1, FillerProb: 0.05, CatchphraseProb: 0.02}
}

// Emit produces the SSML string for text spoken by c in emotion state
// state, given emission options.
func Emit(text string, c character.Character, state emotion.Profile, opts Options) (string, error) {
	text = maybeInsertPatterns(text, c, opts)
	text = escapeXMLText(text)
	text = applyBreaks(text)
	text = applyEmphasis(text, c.SpeechPatterns.EmphasisStyle)

	voiceAttrs := voiceAttributes(c.VoiceSpec)
	prosodyAttrs := prosodyAttributes(c.VoiceSpec, c.Personality.SpeakingStyle, state)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("<speak>")
	b.WriteString("<voice" + voiceAttrs + ">")
	b.WriteString("<prosody" + prosodyAttrs + ">")
	b.WriteString(text)
	b.WriteString("</prosody>")
	b.WriteString("</voice>")
	b.WriteString("</speak>")

	return b.String(), nil
}

// escapeXMLText XML-escapes s for use as element text or (once wrapped
// in literal quotes) an attribute value, so markup-breaking characters
// in user-supplied text (character names, voice ids, line text) can
// never produce malformed output.
func escapeXMLText(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return s
	}
	return buf.String()
}

func voiceAttributes(v character.VoiceSpec) string {
	lang := v.Language
	if lang == "" {
		lang = "en-US"
	}

	attrs := fmt.Sprintf(` gender="%s" age="%s" language="%s"`,
		escapeXMLText(string(v.Gender)), escapeXMLText(string(v.Age)), escapeXMLText(lang))
	if v.BackendVoiceID != "" {
		attrs += fmt.Sprintf(` name="%s"`, escapeXMLText(v.BackendVoiceID))
	}
	return attrs
}

func prosodyAttributes(v character.VoiceSpec, style character.SpeakingStyle, state emotion.Profile) string {
	rate := paceRate(v.Pace)
	pitch := 0.0
	volume := 1.0
	rng := 0.0

	// Speaking-style contributions (formality lowers range, enthusiasm
	// raises rate/volume).
	rate += (style.Enthusiasm - 0.5) * 0.2
	volume += (style.Confidence - 0.5) * 0.2
	rng += (1 - style.Formality) * 10

	offsets := EmotionProsody(state)
	rate += offsets.RateMultiplier
	pitch += offsets.PitchPercent
	volume += offsets.VolumeMultiplier
	rng += offsets.RangePercent

	rate = math.Max(0.5, math.Min(2.0, rate))
	volume = math.Max(0.0, math.Min(2.0, volume))

	return fmt.Sprintf(` rate="%.0f%%" pitch="%+.0f%%" volume="%.0f%%" range="%+.0f%%"`,
		rate*100, pitch, volume*100, rng)
}

func paceRate(p character.Pace) float64 {
	switch p {
	case character.PaceSlow:
		return 0.8
	case character.PaceFast:
		return 1.25
	default:
		return 1.0
	}
}

// applyBreaks inserts <break/> elements after punctuation tokens.
func applyBreaks(text string) string {
	var b strings.Builder
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		b.WriteRune(r)

		strength := breakStrength(runes, i)
		if strength != "" {
			b.WriteString(fmt.Sprintf(`<break strength="%s"/>`, strength))
		}
	}

	return b.String()
}

func breakStrength(runes []rune, i int) string {
	r := runes[i]
	switch r {
	case ',':
		return "weak"
	case ';':
		// The text is already XML-escaped, so a ';' may terminate an
		// entity like &amp; rather than punctuate the sentence.
		if closesEntity(runes, i) {
			return ""
		}
		return "medium"
	case '.', ':':
		return "medium"
	case '?', '!':
		return "strong"
	case '-':
		if i > 0 && runes[i-1] == '-' {
			return "medium"
		}
		return ""
	}
	return ""
}

// closesEntity reports whether the ';' at index i terminates an XML
// character entity (an unbroken run of entity characters back to '&').
func closesEntity(runes []rune, i int) bool {
	for j := i - 1; j >= 0 && i-j <= 8; j-- {
		r := runes[j]
		if r == '&' {
			return true
		}
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '#') {
			return false
		}
	}
	return false
}

// applyEmphasis wraps all-caps tokens (len>=2) as strong emphasis and
// *word* tokens as moderate emphasis, lowercasing/stripping markup from
// the visible text. style adjusts the selected level.
func applyEmphasis(text string, style character.EmphasisStyle) string {
	words := strings.Fields(text)
	for i, w := range words {
		trimmed := strings.TrimFunc(w, func(r rune) bool {
			return !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '*')
		})

		switch {
		case strings.HasPrefix(trimmed, "*") && strings.HasSuffix(trimmed, "*") && len(trimmed) > 2:
			inner := strings.Trim(trimmed, "*")
			level := adjustEmphasis("moderate", style)
			words[i] = strings.Replace(w, trimmed, fmt.Sprintf(`<emphasis level="%s">%s</emphasis>`, level, inner), 1)
		case isAllCaps(trimmed) && len(trimmed) >= 2:
			level := adjustEmphasis("strong", style)
			lower := strings.ToLower(trimmed)
			words[i] = strings.Replace(w, trimmed, fmt.Sprintf(`<emphasis level="%s">%s</emphasis>`, level, lower), 1)
		}
	}
	return strings.Join(words, " ")
}

func adjustEmphasis(level string, style character.EmphasisStyle) string {
	switch style {
	case character.EmphasisMuted:
		if level == "strong" {
			return "moderate"
		}
		return "reduced"
	case character.EmphasisStrong:
		return "strong"
	default:
		return level
	}
}

func isAllCaps(s string) bool {
	hasLetter := false
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// maybeInsertPatterns probabilistically inserts a filler word or
// catchphrase from c's SpeechPatterns. In deterministic mode (opts.
// Deterministic) this is a no-op, as required for reproducible tests.
func maybeInsertPatterns(text string, c character.Character, opts Options) string {
	if opts.Deterministic {
		return text
	}

	rng := rand.New(rand.NewSource(opts.Seed))

	if len(c.SpeechPatterns.Fillers) > 0 && rng.Float64() < opts.FillerProb {
		filler := c.SpeechPatterns.Fillers[rng.Intn(len(c.SpeechPatterns.Fillers))]
		text = filler + ", " + text
	}

	if len(c.SpeechPatterns.Catchphrases) > 0 && rng.Float64() < opts.CatchphraseProb {
		phrase := c.SpeechPatterns.Catchphrases[rng.Intn(len(c.SpeechPatterns.Catchphrases))]
		text = text + " " + phrase
	}

	return text
}
