package script

import (
	"regexp"
	"strings"
)

// MaxTurnLength is the hard character limit sent to synthesis.
const MaxTurnLength = 500

var bracketRegex = regexp.MustCompile(`\[([^\[\]]*)\]`)

// abbreviation is one literal substring replacement. Expansion order
// matters: entries that contain other entries as substrings must come
// first ("Mrs." before "Mr.", "Sra." before "Sr.") or the longer form
// gets corrupted by the shorter rule.
type abbreviation struct {
	from, to string
}

var abbreviations = []abbreviation{
	{"Mrs.", "Missus "},
	{"Mr.", "Mister "},
	{"Ms.", "Miss "},
	{"Drs.", "Doctors "},
	{"Dr.", "Doctor "},
	{"Prof.", "Professor "},
	{"St.", "Saint "},
	{"e.g.", "for example"},
	{"i.e.", "that is"},
	{"etc.", "etcetera"},
	{"vs.", "versus"},
	{"approx.", "approximately"},
	{"No.", "Number "},
}

// symbol replacements after abbreviation expansion.
var symbols = []abbreviation{
	{"%", " percent"},
	{"*", ""},
	{"#", "number "},
	{"&", "and"},
	{"@", "at"},
}

// Normalize cleans a single turn's text for synthesis stability and
// reports the emotion cues found in it.
//
// The pipeline runs in a fixed order: bracketed cue tokens are
// stripped (recognized ones recorded, everything else dropped),
// abbreviations are expanded, unpronounceable symbols replaced,
// whitespace collapsed, and the result hard-truncated to
// MaxTurnLength characters with a trailing ellipsis. An empty result
// means the turn carries nothing speakable and should be skipped.
// Normalize is idempotent: running it on its own output is a no-op.
func Normalize(text string) (string, []Cue) {
	var cues []Cue

	// 1. Bracketed cue tokens.
	text = bracketRegex.ReplaceAllStringFunc(text, func(match string) string {
		token := strings.ToLower(strings.TrimSpace(match[1 : len(match)-1]))
		if cue, ok := cueByName[token]; ok {
			cues = append(cues, cue)
		}
		return ""
	})

	// 2. Abbreviations, in declared order.
	for _, a := range abbreviations {
		text = strings.ReplaceAll(text, a.from, a.to)
	}

	// 3. Symbols.
	for _, s := range symbols {
		text = strings.ReplaceAll(text, s.from, s.to)
	}

	// 4. Whitespace.
	text = strings.Join(strings.Fields(text), " ")

	// 5. Length cap.
	if runes := []rune(text); len(runes) > MaxTurnLength {
		text = string(runes[:MaxTurnLength-3]) + "..."
	}

	return text, cues
}
