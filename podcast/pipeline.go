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

// Health probe bounds. The probe runs once per generation, before any
// turn is processed.
const (
	probeAttempts = 3
	probeDelay    = time.Second
	probeTimeout  = 5 * time.Second
)

// Result is what a generation run hands back to the caller.
type Result struct {
	OutputPath string
	Duration   time.Duration
	Turns      int
	Stats      RunStats
	Offline    bool
	Strategy   string
}

// Pipeline wires the full generation flow: parse, probe, synthesize
// under the configured strategy, assemble. One Pipeline may run many
// generations; each run gets a fresh RunContext.
type Pipeline struct {
	config Config
	engine engines.Engine
	local  engines.Engine
}

// NewPipeline builds a pipeline from configuration. The local engine
// capability is probed once here; its absence is not an error.
func NewPipeline(cfg Config) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := engines.NewKokoro(engines.KokoroConfig{
		BaseURL:    cfg.EngineURL,
		Model:      cfg.Model,
		SampleRate: cfg.SampleRate,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	p := &Pipeline{config: cfg, engine: engine}

	if local := engines.DetectLocal(engines.LocalConfig{
		Binary:     cfg.Local.Binary,
		ModelPath:  cfg.Local.ModelPath,
		SampleRate: cfg.Local.SampleRate,
	}); local != nil {
		p.local = local
	}

	return p, nil
}

// newPipelineWithEngine is the test seam: it skips engine
// construction and capability detection.
func newPipelineWithEngine(cfg Config, engine, local engines.Engine) *Pipeline {
	return &Pipeline{config: cfg, engine: engine, local: local}
}

// Generate turns a dialogue script into one audio file. Per-turn
// failures never abort the run; only the inability to create the
// output location is fatal.
func (p *Pipeline) Generate(ctx context.Context, rawScript string) (*Result, error) {
	turns := script.Parse(rawScript)
	log.Info("starting podcast generation", "turns", len(turns), "strategy", p.config.Strategy)

	if err := os.MkdirAll(p.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	tempDir := p.config.TempDir
	if tempDir == "" {
		dir, err := os.MkdirTemp("", "podforge-segments-")
		if err != nil {
			return nil, fmt.Errorf("creating temp directory: %w", err)
		}
		tempDir = dir
		defer os.RemoveAll(dir)
	} else if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	rc := NewRunContext(p.config.ThrottleInterval)

	available := p.probeEngine(ctx)
	offline := false

	var strategy ExecutionStrategy
	sampleRate := p.config.SampleRate

	if available {
		profileA, profileB := p.config.Profiles()
		proc := &turnProcessor{
			client:   NewClient(p.config, p.engine, p.local),
			profileA: profileA,
			profileB: profileB,
			tempDir:  tempDir,
		}
		strategy = StrategyFor(p.config, proc)
	} else {
		if !p.config.OfflineFallback {
			return nil, ErrServiceUnavailable
		}
		strategy = NewOfflineStrategy(p.config, tempDir)
		sampleRate = p.config.OfflineSampleRate
		offline = true
	}

	segments := strategy.Run(ctx, rc, turns)

	outputPath := filepath.Join(p.config.OutputDir, fmt.Sprintf("podcast_%d.wav", time.Now().Unix()))
	duration, err := NewAssembler(sampleRate).Assemble(segments, outputPath)
	if err != nil {
		return nil, err
	}

	stats := rc.Stats()
	log.Info("podcast generation complete",
		"path", outputPath,
		"duration", duration,
		"succeeded", stats.TotalSuccess(),
		"failed", stats.TotalFailed(),
		"offline", offline)

	return &Result{
		OutputPath: outputPath,
		Duration:   duration,
		Turns:      len(turns),
		Stats:      stats,
		Offline:    offline,
		Strategy:   strategy.Name(),
	}, nil
}

// probeEngine checks downstream availability with bounded retries.
func (p *Pipeline) probeEngine(ctx context.Context) bool {
	for attempt := 1; attempt <= probeAttempts; attempt++ {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		healthy := p.engine.Healthy(probeCtx)
		cancel()

		if healthy {
			return true
		}
		log.Debug("health probe failed", "attempt", attempt, "of", probeAttempts)

		if attempt < probeAttempts {
			select {
			case <-time.After(probeDelay):
			case <-ctx.Done():
				return false
			}
		}
	}
	return false
}
