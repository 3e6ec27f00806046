// Package main provides the entry point for the podforge CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/mitchellh/go-homedir"
	gap "github.com/muesli/go-app-paths"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/podforge/podcast"
	"github.com/dgnsrekt/podforge/podcast/script"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	summarize  bool
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "podforge [SCRIPT]",
		Short: "Turn two-host dialogue scripts into podcast audio",
		Long: paragraph(
			fmt.Sprintf("\nTurn a two-host dialogue script into %s audio, one line at a time.", keyword("podcast")),
		),
		Example: paragraph(
			"podforge episode.txt\n" +
				"cat script.txt | podforge\n" +
				"podforge --summarize article.txt --strategy batched",
		),
		SilenceErrors: false,
		SilenceUsage:  true,
		Args:          cobra.MaximumNArgs(1),
		PersistentPreRun: func(*cobra.Command, []string) {
			if debug {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: execute,
	}
)

// environment holds process-level settings read outside of the
// configuration file.
type environment struct {
	Debug   bool   `env:"PODFORGE_DEBUG"`
	LogFile string `env:"PODFORGE_LOGFILE"`
}

func setupLog() (func() error, error) {
	envCfg, err := env.ParseAs[environment]()
	if err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	if envCfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if envCfg.LogFile != "" {
		path, err := homedir.Expand(envCfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("error expanding log path: %w", err)
		}
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		log.SetOutput(f)
		return f.Close, nil
	}

	log.SetOutput(os.Stderr)
	return func() error { return nil }, nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// readScript resolves the script text from the argument, stdin pipe,
// or an explicit "-".
func readScript(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		path, err := homedir.Expand(args[0])
		if err != nil {
			return "", fmt.Errorf("unable to expand path: %w", err)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("unable to read script: %w", err)
		}
		return string(b), nil
	}

	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes || (len(args) == 1 && args[0] == "-") {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("unable to read stdin: %w", err)
		}
		return string(b), nil
	}

	return "", errors.New("missing script: pass a file or pipe one on stdin")
}

func execute(cmd *cobra.Command, args []string) error {
	raw, err := readScript(args)
	if err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		return errors.New("script is empty")
	}

	if summarize {
		raw = script.GenerateDialogue(raw)
	}

	cfg, err := podcast.LoadConfigFromViper()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("no-fallback") {
		cfg.OfflineFallback = false
	}
	if dir, err := homedir.Expand(cfg.OutputDir); err == nil {
		cfg.OutputDir = dir
	}

	p, err := podcast.NewPipeline(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Generate(ctx, raw)
	if err != nil {
		return err
	}

	printSummary(result)
	return nil
}

func printSummary(result *podcast.Result) {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", summaryLabelStyle.Render("Output"), result.OutputPath)
	fmt.Fprintf(&b, "%s %s\n", summaryLabelStyle.Render("Duration"), result.Duration.Round(10*time.Millisecond))
	fmt.Fprintf(&b, "%s %d turns, %d synthesized, %d failed\n",
		summaryLabelStyle.Render("Turns"), result.Turns, result.Stats.TotalSuccess(), result.Stats.TotalFailed())

	if info, err := os.Stat(result.OutputPath); err == nil {
		fmt.Fprintf(&b, "%s %s\n", summaryLabelStyle.Render("Size"), humanize.Bytes(uint64(info.Size())))
	}
	fmt.Fprintf(&b, "%s %s\n", summaryLabelStyle.Render("Strategy"), result.Strategy)

	if result.Offline {
		fmt.Fprintln(&b, warning("Engine was unreachable; output contains placeholder audio."))
	} else if result.Stats.TotalFailed() > 0 {
		fmt.Fprintln(&b, warning(fmt.Sprintf("%d line(s) could not be synthesized and were skipped.", result.Stats.TotalFailed())))
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && w < width {
		width = w
	}
	fmt.Print(wordwrap.String(b.String(), width))
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.Flags().BoolVar(&summarize, "summarize", false, "treat the input as prose and generate a dialogue from it")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	// Bound flags keep the library defaults so an untouched flag never
	// shadows a config file value with a zero.
	defaults := podcast.DefaultConfig()
	rootCmd.Flags().StringP("strategy", "s", defaults.Strategy, "execution strategy (sequential, batched, byspeaker)")
	rootCmd.Flags().StringP("engine-url", "u", defaults.EngineURL, "TTS engine base URL")
	rootCmd.Flags().String("voice-a", defaults.VoiceA, "voice for host A")
	rootCmd.Flags().String("voice-b", defaults.VoiceB, "voice for host B")
	rootCmd.Flags().Float64("speed", defaults.BaseSpeed, "base speaking speed (0.5-2.0)")
	rootCmd.Flags().StringP("output-dir", "o", defaults.OutputDir, "directory for generated audio")
	rootCmd.Flags().IntP("workers", "w", defaults.Workers, "worker count for the batched strategy")
	rootCmd.Flags().IntP("batch-size", "b", defaults.BatchSize, "max turns per batch for the batched strategy")
	rootCmd.Flags().Bool("no-fallback", false, "fail instead of producing placeholder audio when the engine is down")

	// Config bindings
	_ = viper.BindPFlag("podcast.strategy", rootCmd.Flags().Lookup("strategy"))
	_ = viper.BindPFlag("podcast.engine_url", rootCmd.Flags().Lookup("engine-url"))
	_ = viper.BindPFlag("podcast.voice_a", rootCmd.Flags().Lookup("voice-a"))
	_ = viper.BindPFlag("podcast.voice_b", rootCmd.Flags().Lookup("voice-b"))
	_ = viper.BindPFlag("podcast.base_speed", rootCmd.Flags().Lookup("speed"))
	_ = viper.BindPFlag("podcast.output_dir", rootCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("podcast.workers", rootCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("podcast.batch_size", rootCmd.Flags().Lookup("batch-size"))

	podcast.SetDefaults()

	rootCmd.AddCommand(configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "podforge")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "podforge")}, dirs...)
	}

	if c := os.Getenv("PODFORGE_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("podforge")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("podforge")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "podforge.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
