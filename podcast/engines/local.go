package engines

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/podforge/internal/wav"
)

// LocalConfig holds configuration for the local subprocess engine.
type LocalConfig struct {
	// Binary is the synthesizer executable (piper-compatible CLI).
	Binary string

	// ModelPath points at the voice model file.
	ModelPath string

	// SampleRate of the raw PCM the binary emits - defaults to 22050.
	SampleRate int
}

// Local synthesizes speech by running a piper-style CLI per request:
// text on stdin, raw 16-bit PCM on stdout. It is a capability-gated
// backend: DetectLocal returns nil when the binary or model is
// missing, and that absence is never an error.
type Local struct {
	config LocalConfig
}

// DetectLocal probes for a usable local synthesizer. Returns nil when
// the capability is absent.
func DetectLocal(config LocalConfig) *Local {
	if config.Binary == "" || config.ModelPath == "" {
		return nil
	}
	if _, err := exec.LookPath(config.Binary); err != nil {
		log.Debug("local engine: binary not found", "binary", config.Binary)
		return nil
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		log.Debug("local engine: model not found", "model", config.ModelPath)
		return nil
	}
	if config.SampleRate == 0 {
		config.SampleRate = 22050
	}

	log.Info("local synthesis engine available", "binary", config.Binary)
	return &Local{config: config}
}

// Synthesize runs one subprocess synthesis and wraps the raw PCM
// output in a WAV container so all engines share one payload format.
func (l *Local) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	cmd := exec.CommandContext(ctx, l.config.Binary,
		"--model", l.config.ModelPath,
		"--output-raw",
	)
	cmd.Stdin = bytes.NewBufferString(req.Text + "\n")

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("local engine: %w", err)
	}
	if len(output) == 0 {
		return nil, fmt.Errorf("local engine: no audio generated")
	}

	pcm := make([]int16, len(output)/2)
	for i := range pcm {
		pcm[i] = int16(output[i*2]) | int16(output[i*2+1])<<8
	}
	return wav.EncodePCM16(pcm, l.config.SampleRate), nil
}

// Info returns the engine description.
func (l *Local) Info() Info {
	return Info{
		Name:            "local",
		SampleRate:      l.config.SampleRate,
		RequiresNetwork: false,
	}
}

// Healthy reports whether the binary is still runnable.
func (l *Local) Healthy(ctx context.Context) bool {
	_, err := exec.LookPath(l.config.Binary)
	return err == nil
}

// Close releases resources; the subprocess engine holds none.
func (l *Local) Close() error {
	return nil
}
