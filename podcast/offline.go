package podcast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/podcast/engines"
	"github.com/dgnsrekt/podforge/podcast/script"
)

// offlinePause is the silence inserted after every placeholder tone.
const offlinePause = 300 * time.Millisecond

// OfflineStrategy is the degraded whole-run mode used when the engine
// is unreachable before any turn is processed: every turn becomes a
// short synthetic tone (pitch distinct per speaker) plus silence.
// Real synthesis is skipped entirely, so the run always completes and
// always produces listenable, correctly ordered output.
type OfflineStrategy struct {
	tone    *engines.Tone
	voiceA  string
	voiceB  string
	tempDir string
}

// NewOfflineStrategy creates the offline placeholder strategy.
func NewOfflineStrategy(cfg Config, tempDir string) *OfflineStrategy {
	return &OfflineStrategy{
		tone:    engines.NewTone(cfg.OfflineSampleRate),
		voiceA:  cfg.VoiceA,
		voiceB:  cfg.VoiceB,
		tempDir: tempDir,
	}
}

// Name returns the strategy name.
func (s *OfflineStrategy) Name() string { return "offline" }

// Run replaces every turn with a placeholder tone and silence.
func (s *OfflineStrategy) Run(ctx context.Context, rc *RunContext, turns []script.Turn) []AudioSegment {
	log.Warn("engine unavailable, producing offline placeholder audio", "turns", len(turns))

	segments := make([]AudioSegment, 0, len(turns)*2)
	for _, turn := range turns {
		voice := s.voiceA
		if turn.Speaker == script.SpeakerB {
			voice = s.voiceB
		}

		audio, err := s.tone.Synthesize(ctx, engines.Request{Text: turn.Text, Voice: voice})
		if err != nil {
			rc.RecordFailure(turn.Speaker)
			continue
		}

		key := OrdinalKey{Turn: turn.Index}
		path := filepath.Join(s.tempDir, fmt.Sprintf("line_%s.wav", key))
		if err := os.WriteFile(path, audio, 0o644); err != nil {
			log.Warn("writing placeholder file failed", "turn", turn.Index, "error", err)
			rc.RecordFailure(turn.Speaker)
			continue
		}

		rc.RecordSuccess(turn.Speaker)
		segments = append(segments,
			AudioSegment{Key: key, Kind: Marker, Path: path},
			AudioSegment{Key: OrdinalKey{Turn: turn.Index, Sub: 1}, Kind: Pause, Duration: offlinePause},
		)
	}

	return segments
}
