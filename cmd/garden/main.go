package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/secret-garden/garden/internal/clock"
	"github.com/secret-garden/garden/internal/config"
	"github.com/secret-garden/garden/internal/gamification"
	"github.com/secret-garden/garden/internal/logging"
	"github.com/secret-garden/garden/internal/prefs"
	"github.com/secret-garden/garden/internal/storage"
)

var (
	// Global flags
	configPath string
	ephemeral  bool
	verbose    bool

	// Set up by PersistentPreRunE for every command.
	cfg       *config.Config
	clk       clock.Clock
	logger    *zap.Logger
	kv        storage.Store
	engine    *gamification.Engine
	prefStore *prefs.Prefs

	// Events from the startup rollover, shown by whichever command runs.
	startup []gamification.Event
)

// rootCmd launches the terminal UI.
var rootCmd = &cobra.Command{
	Use:   "garden",
	Short: "Self-Care Garden - grow a garden by looking after yourself",
	Long: `Self-Care Garden turns small daily rituals into a growing garden.

Breathe, journal, finish side quests and check in with your mood to earn XP,
level up, keep a streak going and unlock achievements. Everything is stored
on this device.

Run without arguments to open the garden in your terminal.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: runTUI,
}

func init() {
	cobra.OnFinalize(teardown)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep everything in memory for this run")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(questCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(breatheCmd)
	rootCmd.AddCommand(gameScoreCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(certificateCmd)
	rootCmd.AddCommand(resetCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads configuration and opens the garden. Daily rollover runs here
// so every command sees today's rituals.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File}
	if logOpts.File == "" {
		logOpts.File = filepath.Join(storage.DefaultDir(), logging.DefaultFileName)
	}
	if verbose {
		logOpts.Level = "debug"
	}
	logger, err = logging.New(logOpts)
	if err != nil {
		return err
	}

	backend := cfg.Storage.Backend
	if ephemeral {
		backend = storage.BackendMemory
	}
	kv, err = storage.Open(cmd.Context(), backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	prefStore = prefs.New(kv)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clk = clock.System{Location: loc}
	engine, err = gamification.New(cmd.Context(), gamification.NewStore(kv, logger), cfg.Rules(), clk, logger)
	if err != nil {
		return fmt.Errorf("loading garden: %w", err)
	}
	startup = engine.CheckDailyReset(cmd.Context())

	logger.Debug("garden opened",
		zap.String("backend", backend),
		zap.String("config", configPath),
	)
	return nil
}

// teardown runs after every command, including failed ones. It is safe to
// call more than once.
func teardown() {
	if kv != nil {
		if err := kv.Close(); err != nil && logger != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
		kv = nil
	}
	if logger != nil {
		_ = logger.Sync()
	}
}
