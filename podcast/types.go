// Package podcast orchestrates dialogue-to-audio synthesis: it turns
// a two-speaker script into one combined waveform by driving a TTS
// engine per turn under a selectable execution strategy, with retry,
// throttling, health probing, and layered fallbacks.
package podcast

import (
	"fmt"
	"time"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// OrdinalKey orders audio segments by their originating turn. Sub
// distinguishes pieces belonging to one turn (speech first, then its
// trailing pause), so segments produced out of completion order can
// always be restored to script order.
type OrdinalKey struct {
	Turn int
	Sub  int
}

// Less reports whether k sorts before other.
func (k OrdinalKey) Less(other OrdinalKey) bool {
	if k.Turn != other.Turn {
		return k.Turn < other.Turn
	}
	return k.Sub < other.Sub
}

// String renders a filename-safe, sortable form of the key.
func (k OrdinalKey) String() string {
	return fmt.Sprintf("%06d_%d", k.Turn, k.Sub)
}

// SegmentKind classifies an audio segment.
type SegmentKind int

const (
	// Speech is synthesized dialogue audio backed by a temp file.
	Speech SegmentKind = iota
	// Pause is trailing silence, generated at assembly time.
	Pause
	// Marker is placeholder audio from offline fallback mode.
	Marker
)

// String returns the segment kind name.
func (k SegmentKind) String() string {
	switch k {
	case Pause:
		return "pause"
	case Marker:
		return "marker"
	default:
		return "speech"
	}
}

// AudioSegment is one ordered piece of the final waveform. Speech and
// Marker segments reference a temp WAV file owned by the assembler
// after handoff; Pause segments carry only a duration.
type AudioSegment struct {
	Key      OrdinalKey
	Kind     SegmentKind
	Path     string
	Duration time.Duration
}

// VoiceProfile binds a speaker to an engine voice. Immutable for the
// duration of a run.
type VoiceProfile struct {
	Speaker   script.Speaker
	Voice     string
	BaseSpeed float64
}

// RunStats are the per-run aggregate counters, reset at run start and
// returned to the caller; they are never persisted.
type RunStats struct {
	SuccessA int64
	SuccessB int64
	FailedA  int64
	FailedB  int64
}

// TotalSuccess returns the combined success count.
func (s RunStats) TotalSuccess() int64 {
	return s.SuccessA + s.SuccessB
}

// TotalFailed returns the combined failure count.
func (s RunStats) TotalFailed() int64 {
	return s.FailedA + s.FailedB
}
