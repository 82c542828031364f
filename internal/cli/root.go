// Package cli defines the aicommit command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shiyuanpei/aicommit/internal/backend"
	"github.com/shiyuanpei/aicommit/internal/backend/jan"
	"github.com/shiyuanpei/aicommit/internal/backend/ollama"
	"github.com/shiyuanpei/aicommit/internal/config"
	"github.com/shiyuanpei/aicommit/internal/git"
	"github.com/shiyuanpei/aicommit/internal/metrics"
	"github.com/shiyuanpei/aicommit/internal/picker"
	"github.com/shiyuanpei/aicommit/internal/pipeline"
)

var (
	cfgFile string
	cfg     *config.Config
	Version = "dev" // Set by goreleaser
)

// flags shared by the root and suggest commands
var (
	flagOllama     bool
	flagBackend    string
	flagModel      string
	flagAnalytics  bool
	flagVim        bool
	flagNum        bool
	flagMaxChars   int
	flagCandidates int
)

var rootCmd = &cobra.Command{
	Use:   "aicommit",
	Short: "Generate git commit messages with a local LLM",
	Long: `aicommit reads the pending diff of your working tree, asks a local
LLM backend (Jan AI or Ollama) for candidate commit messages, lets you
pick one interactively, and commits with the chosen message.

Quick Start:
  aicommit                      # Jan AI backend, interactive selection
  aicommit --ollama             # use Ollama instead
  aicommit --num --analytics    # numeric selection, show timings
  aicommit suggest --output json # print candidates without committing`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			// Use defaults if config doesn't exist
			cfg = config.Default()
		}
		applyFlags(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

// Execute runs the command tree and returns the first error.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.config/aicommit/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&flagOllama, "ollama", false, "use the Ollama backend instead of Jan AI")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend variant (jan|ollama)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "override the model name for the selected backend")
	rootCmd.PersistentFlags().IntVar(&flagMaxChars, "max-chars", 0, "maximum characters per commit message (default 75)")
	rootCmd.PersistentFlags().IntVar(&flagCandidates, "candidates", 0, "number of candidate messages to request (default 3)")

	rootCmd.Flags().BoolVar(&flagAnalytics, "analytics", false, "display performance analytics")
	rootCmd.Flags().BoolVar(&flagVim, "vim", false, "use vim-style j/k navigation in the selector")
	rootCmd.Flags().BoolVar(&flagNum, "num", false, "use number-key selection in the selector")

	rootCmd.AddCommand(
		newSuggestCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
}

// applyFlags folds command-line flags into the loaded configuration.
// Flags beat environment beats file beats defaults.
func applyFlags(cfg *config.Config) {
	if flagOllama {
		cfg.Backend = config.BackendOllama
	}
	if flagBackend != "" {
		cfg.Backend = flagBackend
	}
	if flagModel != "" {
		if cfg.Backend == config.BackendOllama {
			cfg.Ollama.Model = flagModel
		} else {
			cfg.Jan.Model = flagModel
		}
	}
	if flagMaxChars > 0 {
		cfg.MaxChars = flagMaxChars
	}
	if flagCandidates > 0 {
		cfg.Candidates = flagCandidates
	}
}

// newGenerator builds the configured backend variant wrapped with the
// single-retry timeout policy.
func newGenerator(cfg *config.Config) (backend.Generator, error) {
	switch cfg.Backend {
	case config.BackendOllama:
		return backend.Retrying{Inner: ollama.New(cfg.Ollama.Host, cfg.Ollama.Model, cfg.Timeout())}, nil
	case config.BackendJan:
		return backend.Retrying{Inner: jan.New(cfg.Jan.Host, cfg.Jan.Model, cfg.Timeout())}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %q or %q)", cfg.Backend, config.BackendJan, config.BackendOllama)
	}
}

func runGenerate(cmd *cobra.Command) error {
	root, err := git.FindProjectRoot(".")
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	var rec *metrics.Recorder
	if flagAnalytics {
		rec = metrics.NewRecorder()
	}

	svc := git.NewService(root)
	p := &pipeline.Pipeline{
		Source:    svc,
		Generator: gen,
		Selector:  picker.Interactive{Opts: picker.Options{Vim: flagVim, Numeric: flagNum}},
		Committer: svc,
		Recorder:  rec,

		Candidates: cfg.Candidates,
		MaxChars:   cfg.MaxChars,
		DiffLimit:  cfg.DiffLimit,
		Out:        os.Stdout,
	}

	runErr := p.Run(cmd.Context())

	if rec != nil {
		active := cfg.Active()
		_ = rec.Summary(cfg.Backend, active.Model).Text(os.Stdout)
	}
	return runErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("aicommit version %s\n", Version)
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefault()
			if err != nil {
				return err
			}
			fmt.Printf("Created config file: %s\n", path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.DefaultPath())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.Print(cfg, os.Stdout)
		},
	})

	return cmd
}
