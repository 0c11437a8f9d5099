// Package certificate produces the garden's certificate of self-care as
// Markdown, rendered for the terminal with glamour.
package certificate

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/secret-garden/garden/internal/gamification"
)

// DefaultFile is the file name used when saving a certificate.
const DefaultFile = "bloom-certificate.md"

// Certificate is the content of one certificate.
type Certificate struct {
	Name         string
	Level        int
	Streak       int
	Journal      int
	Stage        gamification.Stage
	Achievements []string
	Generated    time.Time
}

// Build assembles a certificate for p. achievements are the unlocked badges
// to list, in display order.
func Build(p *gamification.Profile, achievements []gamification.AchievementStatus, now time.Time) Certificate {
	c := Certificate{
		Name:      p.Name,
		Level:     p.Level,
		Streak:    p.Streak,
		Journal:   p.Stats.Journal,
		Stage:     gamification.StageFor(p.Level),
		Generated: now,
	}
	for _, a := range achievements {
		if a.Unlocked {
			c.Achievements = append(c.Achievements, a.Icon+" "+a.Title)
		}
	}
	return c
}

// Markdown returns the certificate as a Markdown document.
func (c Certificate) Markdown() string {
	var b strings.Builder
	b.WriteString("# Certificate of Self-Care\n\n")
	fmt.Fprintf(&b, "_Presented to %s_\n\n", c.Name)
	fmt.Fprintf(&b, "- 🌱 Current Level: **%d** (%s)\n", c.Level, c.Stage)
	fmt.Fprintf(&b, "- 🔥 Day Streak: **%d**\n", c.Streak)
	fmt.Fprintf(&b, "- ✍️ Thoughts Journaled: **%d**\n", c.Journal)
	if len(c.Achievements) > 0 {
		b.WriteString("\n## Achievements\n\n")
		for _, a := range c.Achievements {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	fmt.Fprintf(&b, "\n---\n\n`Generated on %s`\n", c.Generated.Format("Mon Jan 02 2006"))
	return b.String()
}

// Render renders the Markdown for a terminal. style is a glamour style name
// ("dark", "light", "notty"); empty or "auto" detects the terminal.
func (c Certificate) Render(style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := r.Render(c.Markdown())
	if err != nil {
		return "", fmt.Errorf("rendering certificate: %w", err)
	}
	return out, nil
}

// Write saves the Markdown to path.
func (c Certificate) Write(path string) error {
	if err := os.WriteFile(path, []byte(c.Markdown()), 0o644); err != nil {
		return fmt.Errorf("writing certificate: %w", err)
	}
	return nil
}
