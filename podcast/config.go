package podcast

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgnsrekt/podforge/podcast/script"
)

// Strategy names accepted by Config.Strategy.
const (
	StrategySequential = "sequential"
	StrategyBatched    = "batched"
	StrategyBySpeaker  = "byspeaker"
)

// Config contains all synthesis pipeline options.
type Config struct {
	// Engine settings
	EngineURL string        `yaml:"engine_url" env:"PODFORGE_ENGINE_URL" envDefault:"http://localhost:8343"`
	Model     string        `yaml:"model" env:"PODFORGE_MODEL" envDefault:"kokoro"`
	Format    string        `yaml:"format" env:"PODFORGE_FORMAT" envDefault:"wav"`
	Timeout   time.Duration `yaml:"timeout" env:"PODFORGE_TIMEOUT" envDefault:"30s"`

	// Voice settings
	VoiceA    string  `yaml:"voice_a" env:"PODFORGE_VOICE_A" envDefault:"am_adam"`
	VoiceB    string  `yaml:"voice_b" env:"PODFORGE_VOICE_B" envDefault:"bf_emma"`
	BaseSpeed float64 `yaml:"base_speed" env:"PODFORGE_BASE_SPEED" envDefault:"1.0"`

	// Execution settings
	Strategy  string `yaml:"strategy" env:"PODFORGE_STRATEGY" envDefault:"sequential"`
	BatchSize int    `yaml:"batch_size" env:"PODFORGE_BATCH_SIZE" envDefault:"4"`
	Workers   int    `yaml:"workers" env:"PODFORGE_WORKERS" envDefault:"2"`

	// Retry and throttle settings
	MaxAttempts      int           `yaml:"max_attempts" env:"PODFORGE_MAX_ATTEMPTS" envDefault:"4"`
	BackoffBase      time.Duration `yaml:"backoff_base" env:"PODFORGE_BACKOFF_BASE" envDefault:"500ms"`
	BackoffMax       time.Duration `yaml:"backoff_max" env:"PODFORGE_BACKOFF_MAX" envDefault:"8s"`
	ThrottleInterval time.Duration `yaml:"throttle_interval" env:"PODFORGE_THROTTLE_INTERVAL" envDefault:"250ms"`
	MinPayloadBytes  int           `yaml:"min_payload_bytes" env:"PODFORGE_MIN_PAYLOAD_BYTES" envDefault:"500"`

	// Audio settings
	SampleRate int `yaml:"sample_rate" env:"PODFORGE_SAMPLE_RATE" envDefault:"24000"`

	// Offline fallback settings
	OfflineFallback   bool `yaml:"offline_fallback" env:"PODFORGE_OFFLINE_FALLBACK" envDefault:"true"`
	OfflineSampleRate int  `yaml:"offline_sample_rate" env:"PODFORGE_OFFLINE_SAMPLE_RATE" envDefault:"24000"`

	// Output settings
	OutputDir string `yaml:"output_dir" env:"PODFORGE_OUTPUT_DIR" envDefault:"podcasts"`
	TempDir   string `yaml:"temp_dir" env:"PODFORGE_TEMP_DIR"`

	// Local engine (optional offline synthesis capability)
	Local LocalEngineConfig `yaml:"local"`
}

// LocalEngineConfig configures the optional subprocess synthesizer.
// Its absence is never an error.
type LocalEngineConfig struct {
	Binary     string `yaml:"binary" env:"PODFORGE_LOCAL_BINARY"`
	ModelPath  string `yaml:"model_path" env:"PODFORGE_LOCAL_MODEL_PATH"`
	SampleRate int    `yaml:"sample_rate" env:"PODFORGE_LOCAL_SAMPLE_RATE" envDefault:"22050"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EngineURL: "http://localhost:8343",
		Model:     "kokoro",
		Format:    "wav",
		Timeout:   30 * time.Second,

		VoiceA:    "am_adam",
		VoiceB:    "bf_emma",
		BaseSpeed: 1.0,

		Strategy:  StrategySequential,
		BatchSize: 4,
		Workers:   2,

		MaxAttempts:      4,
		BackoffBase:      500 * time.Millisecond,
		BackoffMax:       8 * time.Second,
		ThrottleInterval: 250 * time.Millisecond,
		MinPayloadBytes:  500,

		SampleRate: 24000,

		OfflineFallback:   true,
		OfflineSampleRate: 24000,

		OutputDir: "podcasts",

		Local: LocalEngineConfig{SampleRate: 22050},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Strategy) {
	case StrategySequential, StrategyBatched, StrategyBySpeaker:
	default:
		return fmt.Errorf("invalid strategy %q: must be one of %s, %s, %s",
			c.Strategy, StrategySequential, StrategyBatched, StrategyBySpeaker)
	}

	if c.EngineURL == "" {
		return fmt.Errorf("engine_url is required")
	}
	if c.VoiceA == "" || c.VoiceB == "" {
		return fmt.Errorf("both voice_a and voice_b are required")
	}
	if c.BaseSpeed < 0.5 || c.BaseSpeed > 2.0 {
		return fmt.Errorf("base_speed must be between 0.5 and 2.0, got %v", c.BaseSpeed)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1, got %d", c.BatchSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.ThrottleInterval < 0 {
		return fmt.Errorf("throttle_interval must not be negative")
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.OfflineSampleRate <= 0 {
		return fmt.Errorf("offline_sample_rate must be positive, got %d", c.OfflineSampleRate)
	}
	if c.MinPayloadBytes < 0 {
		return fmt.Errorf("min_payload_bytes must not be negative")
	}

	return nil
}

// Profiles returns the two voice profiles for a run.
func (c *Config) Profiles() (a, b VoiceProfile) {
	a = VoiceProfile{Speaker: script.SpeakerA, Voice: c.VoiceA, BaseSpeed: c.BaseSpeed}
	b = VoiceProfile{Speaker: script.SpeakerB, Voice: c.VoiceB, BaseSpeed: c.BaseSpeed}
	return a, b
}
