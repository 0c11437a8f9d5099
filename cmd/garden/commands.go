package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/secret-garden/garden/internal/breathing"
	"github.com/secret-garden/garden/internal/certificate"
	"github.com/secret-garden/garden/internal/companion"
	"github.com/secret-garden/garden/internal/config"
	"github.com/secret-garden/garden/internal/gamification"
)

// completionRules reads the configured rules for shell completion, which
// runs without setup. An unreadable config completes from the defaults.
func completionRules() gamification.Rules {
	c, err := config.Load(configPath)
	if err != nil {
		return gamification.DefaultRules()
	}
	return c.Rules()
}

// statusCmd prints the garden at a glance.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show level, streak, weekly progress and today's rituals",
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		printStatus(cmd.OutOrStdout(), engine)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done [task]",
	Short: "Complete one of today's rituals",
	Long: `Marks a daily ritual done and awards its XP. Completing a ritual that is
already done does nothing.

Example:
  garden done breathe`,
	Args: cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var ids []string
		for _, t := range completionRules().Tasks {
			ids = append(ids, t.ID)
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		events, err := engine.CompleteTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Already done today.")
		}
		printEvents(cmd, events)
		return nil
	},
}

var questRoll bool

var questCmd = &cobra.Command{
	Use:   "quest",
	Short: "Complete a side quest, or roll a new one with --roll",
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		if questRoll {
			fmt.Fprintln(cmd.OutOrStdout(), "Quest: "+companion.Pick(nil, cfg.Quests))
			return nil
		}
		printEvents(cmd, engine.CompleteQuest(cmd.Context()))
		w := engine.Weekly()
		fmt.Fprintf(cmd.OutOrStdout(), "Weekly challenge: %d/%d\n", w.Count, w.Target)
		return nil
	},
}

var moodCmd = &cobra.Command{
	Use:   "mood [mood]",
	Short: "Check in with how you feel",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return completionRules().Moods, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		events, err := engine.LogMood(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%w (choose one of %s)", err, strings.Join(engine.Rules().Moods, ", "))
		}
		printEvents(cmd, events)
		return nil
	},
}

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal [text...]",
	Short: "Write a journal entry, or list recent entries when no text is given",
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			entries := engine.Journal(journalLimit)
			if len(entries) == 0 {
				fmt.Fprintln(out, "Prompt: "+companion.Pick(nil, cfg.Prompts))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s\n", e.Date, e.Text)
			}
			return nil
		}
		text := strings.Join(args, " ")
		events := engine.SaveJournal(cmd.Context(), text)
		if len(events) == 0 {
			return errors.New("journal entry is empty")
		}
		printEvents(cmd, events)
		fmt.Fprintln(out, companion.Reply(text))
		return nil
	},
}

var (
	breathePattern string
	breatheCycles  int
)

var breatheCmd = &cobra.Command{
	Use:   "breathe",
	Short: "Run a guided breathing session in the terminal",
	Long: `Guides you through breathing cycles, printing each phase as it starts.
Press Ctrl+C to stop early; completed cycles still count.

Patterns are dash-separated seconds: 4-4, 4-7-8, 4-4-4-4.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		name := breathePattern
		if name == "" {
			name = cfg.Breathing.Pattern
		}
		p, err := breathing.ParsePattern(name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Breathing %s for %d cycle(s)\n", p.Name, breatheCycles)
		s := breathing.NewSession(p)
		d := breathing.NewDriver(s, cfg.Breathing.Tick, func(ph breathing.Phase, cycles int) {
			fmt.Fprintf(out, "  %-6s %ds\n", ph, int(p.Duration(ph)/time.Second))
		})
		res := d.Run(cmd.Context(), breatheCycles)
		fmt.Fprintf(out, "Finished %d cycle(s) in %s\n", res.Cycles, res.Elapsed.Round(time.Second))
		printEvents(cmd, engine.FinishBreathing(cmd.Context(), res.Cycles))
		return nil
	},
}

var gameScoreCmd = &cobra.Command{
	Use:   "game-score [score]",
	Short: "Record an arcade score played elsewhere",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		score, err := strconv.Atoi(args[0])
		if err != nil || score < 0 {
			return fmt.Errorf("invalid score %q", args[0])
		}
		printEvents(cmd, engine.RecordGame(cmd.Context(), score))
		fmt.Fprintf(cmd.OutOrStdout(), "Best: %d\n", engine.Snapshot().Stats.GameHigh)
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [name...]",
	Short: "Change the name on your garden",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		events := engine.Rename(cmd.Context(), strings.Join(args, " "))
		if len(events) == 0 {
			return errors.New("name is empty")
		}
		printEvents(cmd, events)
		return nil
	},
}

var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "List achievements and their progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		out := cmd.OutOrStdout()
		for _, s := range engine.Achievements() {
			mark := "  "
			if s.Unlocked {
				mark = "✓ "
			}
			fmt.Fprintf(out, "%s%s %-22s %-28s %d/%d\n", mark, s.Icon, s.Title, s.Desc, min(s.Current, s.Min), s.Min)
		}
		return nil
	},
}

var (
	certOutput string
	certStyle  string
)

var certificateCmd = &cobra.Command{
	Use:   "certificate",
	Short: "Print your certificate of self-care and save it as Markdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		flushStartup(cmd)
		c := certificate.Build(engine.Snapshot(), engine.Achievements(), clk.Now())
		rendered, err := c.Render(certStyle, 80)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		if certOutput == "" {
			return nil
		}
		if err := c.Write(certOutput); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Certificate saved to "+certOutput)
		return nil
	},
}

var resetYes bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all progress and journal entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetYes {
			return errors.New("reset erases your garden; run again with --yes to confirm")
		}
		events, err := engine.Reset(cmd.Context())
		if err != nil {
			return fmt.Errorf("resetting garden: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Your garden has been replanted.")
		printEvents(cmd, events)
		return nil
	},
}

func init() {
	questCmd.Flags().BoolVar(&questRoll, "roll", false, "Suggest a quest instead of completing one")
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 5, "Entries to list")
	breatheCmd.Flags().StringVarP(&breathePattern, "pattern", "p", "", "Breathing pattern (default from config)")
	breatheCmd.Flags().IntVar(&breatheCycles, "cycles", 3, "Cycles to run; 0 runs until interrupted")
	certificateCmd.Flags().StringVarP(&certOutput, "output", "o", certificate.DefaultFile, "Markdown file to write; empty to skip")
	certificateCmd.Flags().StringVar(&certStyle, "style", "auto", "glamour style: auto, dark, light, notty")
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "Confirm the reset")
}

func printStatus(w io.Writer, e *gamification.Engine) {
	p := e.Snapshot()
	prog := e.Progress()
	week := e.Weekly()

	fmt.Fprintf(w, "%s's garden: %s\n", p.Name, e.Stage())
	if prog.Max {
		fmt.Fprintf(w, "Level %d  %d XP (max level)\n", prog.Level, prog.XP)
	} else {
		fmt.Fprintf(w, "Level %d  %d/%d XP (%.0f%%)\n", prog.Level, prog.XP, prog.Next, prog.Pct*100)
	}
	fmt.Fprintf(w, "Streak %d  Weekly %d/%d\n", p.Streak, week.Count, week.Target)
	fmt.Fprintln(w, "Today:")
	for _, t := range p.Daily.Tasks {
		box := "[ ]"
		if t.Done {
			box = "[x]"
		}
		fmt.Fprintf(w, "  %s %-8s %s (+%d XP)\n", box, t.ID, t.Label, t.XP)
	}
}

// cliSink prints engine events as plain lines.
type cliSink struct {
	w io.Writer
}

func (s cliSink) OnLevelUp(int) {}

func (s cliSink) OnAchievementUnlocked(string, string) {}

func (s cliSink) OnTaskCompleted(t gamification.Task) {
	fmt.Fprintf(s.w, "✓ %s (+%d XP)\n", t.Label, t.XP)
}

func (s cliSink) OnToast(message string) { fmt.Fprintln(s.w, message) }

// printEvents writes events to the command's output.
func printEvents(cmd *cobra.Command, events []gamification.Event) {
	gamification.Dispatch(cliSink{w: cmd.OutOrStdout()}, events)
}

// flushStartup prints the events from the startup rollover once.
func flushStartup(cmd *cobra.Command) {
	printEvents(cmd, startup)
	startup = nil
}
