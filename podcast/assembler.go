package podcast

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/internal/wav"
)

// Enhancement parameters for the final mix.
const (
	ditherAmplitude = 0.0001
	ditherSeed      = 0x5EED
	normalizePeak   = 0.9

	// minOutputDuration guarantees a valid output file even when no
	// segment survived synthesis.
	minOutputDuration = 50 * time.Millisecond
)

// Assembler owns segments after strategy handoff: it restores order,
// concatenates everything at the target sample rate, enhances the
// mix, writes the output file, and reclaims the temp segment files.
type Assembler struct {
	sampleRate int
}

// NewAssembler creates an assembler writing at the given sample rate.
func NewAssembler(sampleRate int) *Assembler {
	return &Assembler{sampleRate: sampleRate}
}

// Assemble builds the final waveform and writes it to outputPath.
// Unreadable segments are skipped with a warning; temp files are
// removed best-effort even when assembly partially fails. Returns the
// duration of the written audio.
func (a *Assembler) Assemble(segments []AudioSegment, outputPath string) (time.Duration, error) {
	defer a.cleanup(segments)

	sortSegments(segments)

	var combined []float64
	spoken := 0
	for _, seg := range segments {
		switch seg.Kind {
		case Pause:
			combined = append(combined, wav.Silence(seg.Duration, a.sampleRate)...)
		case Speech, Marker:
			audio, err := wav.ReadFile(seg.Path)
			if err != nil {
				log.Warn("skipping unreadable segment", "key", seg.Key, "error", err)
				continue
			}
			samples := audio.Samples
			if audio.SampleRate != a.sampleRate {
				samples = wav.Resample(samples, audio.SampleRate, a.sampleRate)
			}
			combined = append(combined, samples...)
			spoken++
		}
	}

	if spoken == 0 {
		// Nothing synthesized: write the minimum silent file rather
		// than enhance pure silence into amplified noise.
		combined = wav.Silence(minOutputDuration, a.sampleRate)
		log.Warn("no valid segments, writing silent output", "path", outputPath)
	} else {
		wav.Dither(combined, ditherAmplitude, ditherSeed)
		wav.Normalize(combined, normalizePeak)
	}

	if err := wav.WriteFile(outputPath, combined, a.sampleRate); err != nil {
		return 0, fmt.Errorf("writing output file: %w", err)
	}

	duration := time.Duration(float64(len(combined)) / float64(a.sampleRate) * float64(time.Second))
	log.Info("assembled podcast audio",
		"path", outputPath, "segments", len(segments), "duration", duration)
	return duration, nil
}

// cleanup removes segment temp files, best-effort.
func (a *Assembler) cleanup(segments []AudioSegment) {
	for _, seg := range segments {
		if seg.Path == "" {
			continue
		}
		if err := os.Remove(seg.Path); err != nil && !os.IsNotExist(err) {
			log.Debug("could not remove temp segment", "path", seg.Path, "error", err)
		}
	}
}
