// Command logic declares facts and answers queries against them, either
// interactively or from source files.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanquery/internal/config"
	"github.com/gitrdm/gokanquery/internal/journal"
	"github.com/gitrdm/gokanquery/internal/repl"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "v0.1.0-dev"

var (
	// Global flags
	configPath  string
	depthLimit  int
	solutionCap int
	journalPath string
	verbose     bool
	jobs        int

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd starts the interactive session.
var rootCmd = &cobra.Command{
	Use:   "logic",
	Short: "Declarative logic query engine",
	Long: `logic answers queries against a database of facts and rules.

Facts are declared with (fact conclusion hypothesis...) and queries with
(query goal...). A goal (not goal...) holds when its goals cannot be proven.

Run without arguments to start the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runInteractive,
}

// runCmd loads files and answers their queries.
var runCmd = &cobra.Command{
	Use:   "run FILE...",
	Short: "Load files and answer their queries",
	Long: `Load every file in order into one database and answer each query as it
is reached. Exits non-zero when a file cannot be read or parsed.

With --jobs greater than one, the facts of every file are declared first and
the queries are then answered concurrently against the complete database.
Results are still printed in file order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFiles,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "logic", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().IntVarP(&depthLimit, "depth", "d", 0, "Depth limit (negative disables; overrides config)")
	rootCmd.PersistentFlags().IntVarP(&solutionCap, "limit", "n", 0, "Maximum answers printed per query (0 prints all)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Directory of the persistent fact journal")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	runCmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Queries answered concurrently")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the
// session logger.
func setup(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("depth") {
		cfg.Engine.DepthLimit = depthLimit
	}
	if flags.Changed("limit") {
		cfg.Engine.SolutionLimit = solutionCap
	}
	if flags.Changed("journal") {
		cfg.Journal.Path = journalPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err = cfg.Logging.Build(verbose)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("session", uuid.NewString()))
	logger.Debug("configuration loaded",
		zap.String("config", configPath),
		zap.Int("depth_limit", cfg.Engine.DepthLimit),
		zap.Int("solution_limit", cfg.Engine.SolutionLimit),
		zap.Bool("journal", cfg.Journal.Enabled()))
	return nil
}

// openSession creates a session and restores journaled facts. The returned
// cleanup closes the journal.
func openSession(ctx context.Context, cmd *cobra.Command) (*repl.Session, func(), error) {
	var j *journal.Journal
	cleanup := func() {}
	if cfg.Journal.Enabled() {
		var err error
		j, err = journal.Open(journal.Config{
			Path:     cfg.Journal.Path,
			InMemory: cfg.Journal.InMemory,
			Logger:   logger.Named("journal"),
		})
		if err != nil {
			return nil, nil, err
		}
		cleanup = func() {
			if err := j.Close(); err != nil {
				logger.Warn("failed to close journal", zap.Error(err))
			}
		}
	}

	s := repl.NewSession(repl.Options{
		DepthLimit:    cfg.Engine.DepthLimit,
		SolutionLimit: cfg.Engine.SolutionLimit,
		Journal:       j,
		Logger:        logger,
		Out:           cmd.OutOrStdout(),
	})
	if _, err := s.Restore(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	return s, cleanup, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runInteractive runs the read loop on stdin.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	s, cleanup, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	prompt := ""
	if repl.Interactive() {
		prompt = cfg.REPL.Prompt
		fmt.Fprintln(cmd.OutOrStdout(), "logic", Version, "- .help for help")
	}
	rl, err := repl.NewReadline(prompt, cfg.REPL.HistoryFile)
	if err != nil {
		return err
	}
	defer rl.Close()

	return s.Run(ctx, rl, prompt)
}
