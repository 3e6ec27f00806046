// Package script parses two-host dialogue scripts into ordered,
// speaker-tagged turns and prepares each turn's text for synthesis.
package script

import (
	"strings"
)

// Speaker identifies one of the two podcast hosts.
type Speaker int

const (
	// SpeakerA is the first host.
	SpeakerA Speaker = iota
	// SpeakerB is the second host.
	SpeakerB
)

// String returns the canonical label for the speaker.
func (s Speaker) String() string {
	if s == SpeakerB {
		return "Host B"
	}
	return "Host A"
}

// Other returns the opposite speaker.
func (s Speaker) Other() Speaker {
	if s == SpeakerA {
		return SpeakerB
	}
	return SpeakerA
}

// Turn is one speaker's line of dialogue. Index is the ordinal
// position within the script and defines final audio ordering.
type Turn struct {
	Index   int
	Speaker Speaker
	RawText string // original text, pre-normalization
	Text    string // cleaned text sent to synthesis
	Cues    []Cue  // emotion cues recognized during normalization
}

// Accepted label spellings, matched case-insensitively after trimming.
var (
	speakerALabels = map[string]bool{
		"host a":    true,
		"a":         true,
		"host 1":    true,
		"speaker 1": true,
		"speaker a": true,
		"alex":      true,
	}
	speakerBLabels = map[string]bool{
		"host b":    true,
		"b":         true,
		"host 2":    true,
		"speaker 2": true,
		"speaker b": true,
		"emma":      true,
	}
)

// minTurnLength is the minimum trimmed text length for a usable turn.
const minTurnLength = 2

// Parse splits a raw script into ordered speaker turns.
//
// Each non-blank line is split on the first colon; the prefix is
// matched against the accepted label spellings. Lines without a colon,
// or with an unrecognized label, fall back to strict even/odd
// alternation by ordinal. Lines whose text is shorter than two
// characters are dropped. Normalization happens here too, so callers
// receive turns that are ready for synthesis; turns whose text is
// empty after cleaning are dropped as well.
func Parse(raw string) []Turn {
	lines := strings.Split(raw, "\n")

	turns := make([]Turn, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		speaker, text, tagged := splitSpeakerLine(line)
		if !tagged {
			// Alternate by position among kept lines.
			speaker = SpeakerA
			if len(turns)%2 == 1 {
				speaker = SpeakerB
			}
		}

		text = strings.TrimSpace(text)
		if len(text) < minTurnLength {
			continue
		}

		cleaned, cues := Normalize(text)
		if cleaned == "" {
			continue
		}

		turns = append(turns, Turn{
			Index:   len(turns),
			Speaker: speaker,
			RawText: text,
			Text:    cleaned,
			Cues:    cues,
		})
	}

	return turns
}

// splitSpeakerLine extracts the speaker label from a "label: text"
// line. Returns tagged=false when there is no colon or the label does
// not match any accepted spelling.
func splitSpeakerLine(line string) (Speaker, string, bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return SpeakerA, line, false
	}

	label := normalizeLabel(line[:idx])
	text := line[idx+1:]

	switch {
	case speakerALabels[label]:
		return SpeakerA, text, true
	case speakerBLabels[label]:
		return SpeakerB, text, true
	default:
		return SpeakerA, line, false
	}
}

// normalizeLabel maps raw label text to a comparable form: lowercase,
// trimmed, with markdown emphasis characters removed.
func normalizeLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	label = strings.Trim(label, "*_")
	return strings.Join(strings.Fields(label), " ")
}
