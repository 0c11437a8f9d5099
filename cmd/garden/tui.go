package main

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/secret-garden/garden/internal/certificate"
	"github.com/secret-garden/garden/internal/config"
	"github.com/secret-garden/garden/internal/tui"
)

const reloadDebounce = 250 * time.Millisecond

// runTUI runs the terminal UI beside the config watcher. Quitting the UI
// stops the watcher; a watcher that cannot start only disables hot reload.
func runTUI(cmd *cobra.Command, args []string) error {
	pattern, err := cfg.BreathingPattern()
	if err != nil {
		return err
	}

	m := tui.New(cmd.Context(), tui.Options{
		Engine:          engine,
		Prefs:           prefStore,
		Logger:          logger,
		Clock:           clk,
		Pattern:         pattern,
		Tick:            cfg.Breathing.Tick,
		Quests:          cfg.Quests,
		Prompts:         cfg.Prompts,
		CertificatePath: certificate.DefaultFile,
		Bell:            os.Stdout,
		Pending:         startup,
	})

	g, ctx := errgroup.WithContext(cmd.Context())
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})

	watcher, err := config.NewWatcher(configPath, reloadDebounce, logger)
	if err != nil {
		logger.Warn("config hot reload disabled", zap.Error(err))
	} else {
		g.Go(func() error {
			return watcher.Run(ctx, func(c *config.Config) {
				p.Send(tui.RulesChangedMsg{Rules: c.Rules(), Quests: c.Quests, Prompts: c.Prompts})
			})
		})
	}

	return g.Wait()
}
