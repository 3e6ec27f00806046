package engines

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dgnsrekt/podforge/internal/wav"
)

// MockConfig controls the mock engine's deterministic behavior.
type MockConfig struct {
	// SampleRate of generated audio - defaults to 24000.
	SampleRate int

	// AudioDuration of every payload - defaults to 1s.
	AudioDuration time.Duration

	// FailEvery makes every Nth call fail (0 disables failures).
	FailEvery int

	// Delay simulates synthesis latency.
	Delay time.Duration
}

// Mock is a deterministic in-process engine for tests: fixed-duration
// tone payloads, optional scripted failures, call counting.
type Mock struct {
	config MockConfig
	calls  atomic.Int64
}

// NewMock creates a mock engine.
func NewMock(config MockConfig) *Mock {
	if config.SampleRate == 0 {
		config.SampleRate = 24000
	}
	if config.AudioDuration == 0 {
		config.AudioDuration = time.Second
	}
	return &Mock{config: config}
}

// Synthesize returns a fixed-duration tone, failing on schedule.
func (m *Mock) Synthesize(ctx context.Context, req Request) ([]byte, error) {
	call := m.calls.Add(1)

	if m.config.Delay > 0 {
		select {
		case <-time.After(m.config.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.config.FailEvery > 0 && call%int64(m.config.FailEvery) == 0 {
		return nil, fmt.Errorf("mock engine: scripted failure on call %d", call)
	}

	samples := wav.Tone(VoicePitch(req.Voice), m.config.AudioDuration, 0.5, m.config.SampleRate)
	return wav.Encode(samples, m.config.SampleRate), nil
}

// Calls returns how many synthesis calls the mock has received.
func (m *Mock) Calls() int64 {
	return m.calls.Load()
}

// Info returns the engine description.
func (m *Mock) Info() Info {
	return Info{
		Name:            "mock",
		SampleRate:      m.config.SampleRate,
		RequiresNetwork: false,
	}
}

// Healthy always succeeds.
func (m *Mock) Healthy(context.Context) bool {
	return true
}

// Close releases resources; the mock holds none.
func (m *Mock) Close() error {
	return nil
}
