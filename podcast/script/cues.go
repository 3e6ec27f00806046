package script

import (
	"strings"
	"time"
)

// Cue is a recognized bracketed emotion marker. Deltas are applied
// additively to the voice parameters for the turn they appear on.
type Cue struct {
	Name   string
	Speed  float64
	Pitch  float64
	Volume float64
}

// cueByName maps lowercase bracket tokens to their voice deltas.
// The pause token carries no deltas; it only forces a trailing pause.
var cueByName = map[string]Cue{
	"excited":     {Name: "excited", Speed: 0.05, Pitch: 0.1, Volume: 0.1},
	"sad":         {Name: "sad", Speed: -0.1, Pitch: -0.1},
	"thoughtful":  {Name: "thoughtful", Speed: -0.05},
	"surprised":   {Name: "surprised", Speed: 0.1, Pitch: 0.15},
	"questioning": {Name: "questioning", Pitch: 0.05},
	"pause":       {Name: "pause"},
}

// VoiceAdjust is the combined parameter delta for one turn.
type VoiceAdjust struct {
	Speed  float64
	Pitch  float64
	Volume float64
}

// CueAdjust combines the deltas of all cues on a turn. Multiple cues
// stack additively.
func CueAdjust(cues []Cue) VoiceAdjust {
	var adj VoiceAdjust
	for _, c := range cues {
		adj.Speed += c.Speed
		adj.Pitch += c.Pitch
		adj.Volume += c.Volume
	}
	return adj
}

// Trailing pause durations by sentence-ending punctuation.
const (
	pausePeriod      = 600 * time.Millisecond
	pauseExclamation = 700 * time.Millisecond
	pauseDefault     = 400 * time.Millisecond
)

// TrailingPause returns the silence to append after a turn, derived
// from the original pre-normalization text. A turn ending in "." gets
// 0.6s, "!" or "?" get 0.7s; a pause marker or mid-sentence
// punctuation anywhere else gets the 0.4s default. Turns without any
// marker get no trailing pause.
func TrailingPause(raw string) time.Duration {
	trimmed := strings.TrimRight(strings.TrimSpace(raw), `"')]*_`)
	if trimmed != "" {
		switch trimmed[len(trimmed)-1] {
		case '.':
			return pausePeriod
		case '!', '?':
			return pauseExclamation
		}
	}

	if strings.Contains(strings.ToLower(raw), "[pause]") || strings.ContainsAny(raw, ".!?") {
		return pauseDefault
	}
	return 0
}
