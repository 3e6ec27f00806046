package podcast

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// LoadConfigFromEnv builds configuration purely from PODFORGE_*
// environment variables, falling back to the tag defaults. Useful for
// containerized deployments where no config file exists.
func LoadConfigFromEnv() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid podcast configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFromViper loads pipeline configuration from Viper,
// starting from DefaultConfig so partial config files work.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	// Engine settings
	if viper.IsSet("podcast.engine_url") {
		cfg.EngineURL = viper.GetString("podcast.engine_url")
	}
	if viper.IsSet("podcast.model") {
		cfg.Model = viper.GetString("podcast.model")
	}
	if viper.IsSet("podcast.format") {
		cfg.Format = viper.GetString("podcast.format")
	}
	if viper.IsSet("podcast.timeout") {
		if d, err := time.ParseDuration(viper.GetString("podcast.timeout")); err == nil {
			cfg.Timeout = d
		}
	}

	// Voice settings
	if viper.IsSet("podcast.voice_a") {
		cfg.VoiceA = viper.GetString("podcast.voice_a")
	}
	if viper.IsSet("podcast.voice_b") {
		cfg.VoiceB = viper.GetString("podcast.voice_b")
	}
	if viper.IsSet("podcast.base_speed") {
		cfg.BaseSpeed = viper.GetFloat64("podcast.base_speed")
	}

	// Execution settings
	if viper.IsSet("podcast.strategy") {
		cfg.Strategy = viper.GetString("podcast.strategy")
	}
	if viper.IsSet("podcast.batch_size") {
		cfg.BatchSize = viper.GetInt("podcast.batch_size")
	}
	if viper.IsSet("podcast.workers") {
		cfg.Workers = viper.GetInt("podcast.workers")
	}

	// Retry and throttle settings
	if viper.IsSet("podcast.max_attempts") {
		cfg.MaxAttempts = viper.GetInt("podcast.max_attempts")
	}
	if viper.IsSet("podcast.backoff_base") {
		if d, err := time.ParseDuration(viper.GetString("podcast.backoff_base")); err == nil {
			cfg.BackoffBase = d
		}
	}
	if viper.IsSet("podcast.backoff_max") {
		if d, err := time.ParseDuration(viper.GetString("podcast.backoff_max")); err == nil {
			cfg.BackoffMax = d
		}
	}
	if viper.IsSet("podcast.throttle_interval") {
		if d, err := time.ParseDuration(viper.GetString("podcast.throttle_interval")); err == nil {
			cfg.ThrottleInterval = d
		}
	}
	if viper.IsSet("podcast.min_payload_bytes") {
		cfg.MinPayloadBytes = viper.GetInt("podcast.min_payload_bytes")
	}

	// Audio settings
	if viper.IsSet("podcast.sample_rate") {
		cfg.SampleRate = viper.GetInt("podcast.sample_rate")
	}

	// Offline fallback settings
	if viper.IsSet("podcast.offline_fallback") {
		cfg.OfflineFallback = viper.GetBool("podcast.offline_fallback")
	}
	if viper.IsSet("podcast.offline_sample_rate") {
		cfg.OfflineSampleRate = viper.GetInt("podcast.offline_sample_rate")
	}

	// Output settings
	if viper.IsSet("podcast.output_dir") {
		cfg.OutputDir = viper.GetString("podcast.output_dir")
	}
	if viper.IsSet("podcast.temp_dir") {
		cfg.TempDir = viper.GetString("podcast.temp_dir")
	}

	// Local engine settings
	if viper.IsSet("podcast.local.binary") {
		cfg.Local.Binary = viper.GetString("podcast.local.binary")
	}
	if viper.IsSet("podcast.local.model_path") {
		cfg.Local.ModelPath = viper.GetString("podcast.local.model_path")
	}
	if viper.IsSet("podcast.local.sample_rate") {
		cfg.Local.SampleRate = viper.GetInt("podcast.local.sample_rate")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid podcast configuration: %w", err)
	}

	return cfg, nil
}

// SetDefaults sets default values in Viper for podcast configuration.
func SetDefaults() {
	defaults := DefaultConfig()

	viper.SetDefault("podcast.engine_url", defaults.EngineURL)
	viper.SetDefault("podcast.model", defaults.Model)
	viper.SetDefault("podcast.format", defaults.Format)
	viper.SetDefault("podcast.timeout", defaults.Timeout.String())

	viper.SetDefault("podcast.voice_a", defaults.VoiceA)
	viper.SetDefault("podcast.voice_b", defaults.VoiceB)
	viper.SetDefault("podcast.base_speed", defaults.BaseSpeed)

	viper.SetDefault("podcast.strategy", defaults.Strategy)
	viper.SetDefault("podcast.batch_size", defaults.BatchSize)
	viper.SetDefault("podcast.workers", defaults.Workers)

	viper.SetDefault("podcast.max_attempts", defaults.MaxAttempts)
	viper.SetDefault("podcast.backoff_base", defaults.BackoffBase.String())
	viper.SetDefault("podcast.backoff_max", defaults.BackoffMax.String())
	viper.SetDefault("podcast.throttle_interval", defaults.ThrottleInterval.String())
	viper.SetDefault("podcast.min_payload_bytes", defaults.MinPayloadBytes)

	viper.SetDefault("podcast.sample_rate", defaults.SampleRate)

	viper.SetDefault("podcast.offline_fallback", defaults.OfflineFallback)
	viper.SetDefault("podcast.offline_sample_rate", defaults.OfflineSampleRate)

	viper.SetDefault("podcast.output_dir", defaults.OutputDir)

	viper.SetDefault("podcast.local.sample_rate", defaults.Local.SampleRate)
}
