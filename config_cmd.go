package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# Podcast synthesis configuration
podcast:
  # Base URL of the TTS engine (Kokoro-compatible API)
  engine_url: "http://localhost:8343"
  # Model name sent with every synthesis request
  model: "kokoro"
  # Audio response format
  format: "wav"
  # Per-request timeout
  timeout: "30s"

  # Voices for the two hosts
  voice_a: "am_adam"
  voice_b: "bf_emma"
  # Base speaking speed (0.5 to 2.0)
  base_speed: 1.0

  # Execution strategy: sequential, batched, or byspeaker
  strategy: "sequential"
  # Max consecutive same-speaker turns per batch (batched only)
  batch_size: 4
  # Worker count (batched only)
  workers: 2

  # Retry and throttle settings
  max_attempts: 4
  backoff_base: "500ms"
  backoff_max: "8s"
  # Minimum spacing between synthesis requests, across all workers
  throttle_interval: "250ms"
  # Responses smaller than this are treated as failures
  min_payload_bytes: 500

  # Output sample rate
  sample_rate: 24000

  # Produce placeholder audio instead of failing when the engine
  # is unreachable
  offline_fallback: true
  offline_sample_rate: 24000

  # Where generated episodes are written
  output_dir: "podcasts"
  # Scratch directory for per-line audio (defaults to a temp dir)
  # temp_dir: "/tmp/podforge"

  # Optional local synthesizer, used as a last-resort fallback
  # local:
  #   binary: "piper"
  #   model_path: "/path/to/model.onnx"
  #   sample_rate: 22050
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the podforge config file",
	Long:    paragraph(fmt.Sprintf("\n%s the podforge config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("podforge config\npodforge config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("Podforge", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
