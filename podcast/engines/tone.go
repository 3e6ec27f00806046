package engines

import (
	"context"
	"hash/fnv"
	"strings"
	"time"

	"github.com/dgnsrekt/podforge/internal/wav"
)

// Placeholder tone shaping.
const (
	toneBaseDuration = 350 * time.Millisecond
	tonePerWord      = 25 * time.Millisecond
	toneMaxDuration  = 1500 * time.Millisecond
	toneAmplitude    = 0.4
)

// Tone is the fully-offline placeholder engine: each request becomes
// a short sine tone whose pitch is derived from the voice identifier,
// so the two hosts remain audibly distinct even without real speech.
type Tone struct {
	sampleRate int
}

// NewTone creates a tone engine at the given sample rate.
func NewTone(sampleRate int) *Tone {
	if sampleRate == 0 {
		sampleRate = 24000
	}
	return &Tone{sampleRate: sampleRate}
}

// Synthesize produces a WAV tone sized to the text length.
func (t *Tone) Synthesize(_ context.Context, req Request) ([]byte, error) {
	words := len(strings.Fields(req.Text))

	d := toneBaseDuration + time.Duration(words)*tonePerWord
	if d > toneMaxDuration {
		d = toneMaxDuration
	}

	samples := wav.Tone(VoicePitch(req.Voice), d, toneAmplitude, t.sampleRate)
	return wav.Encode(samples, t.sampleRate), nil
}

// Info returns the engine description.
func (t *Tone) Info() Info {
	return Info{
		Name:            "tone",
		SampleRate:      t.sampleRate,
		RequiresNetwork: false,
	}
}

// Healthy always succeeds; tones need nothing.
func (t *Tone) Healthy(context.Context) bool {
	return true
}

// Close releases resources; the tone engine holds none.
func (t *Tone) Close() error {
	return nil
}

// VoicePitch maps a voice identifier onto a stable frequency in the
// 220-440 Hz band. Different voices land on different pitches.
func VoicePitch(voice string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(voice))
	return 220.0 + float64(h.Sum32()%220)
}
