// Package prefs stores the two display preferences kept outside the profile:
// sound muting and the colour theme. A garden reset leaves them alone.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/secret-garden/garden/internal/storage"
)

const (
	MutedKey = "scg-muted"
	ThemeKey = "scg-theme"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Prefs reads and writes preferences on a key-value backend.
type Prefs struct {
	kv storage.Store
}

// New wraps kv.
func New(kv storage.Store) *Prefs {
	return &Prefs{kv: kv}
}

// Muted reports whether sound cues are off. Anything but "true" is unmuted.
func (p *Prefs) Muted(ctx context.Context) (bool, error) {
	v, err := p.get(ctx, MutedKey)
	if err != nil {
		return false, err
	}
	return v == "true", nil
}

// SetMuted stores the muted flag.
func (p *Prefs) SetMuted(ctx context.Context, muted bool) error {
	return p.put(ctx, MutedKey, fmt.Sprint(muted))
}

// ToggleMuted flips the flag and returns the new value.
func (p *Prefs) ToggleMuted(ctx context.Context) (bool, error) {
	muted, err := p.Muted(ctx)
	if err != nil {
		return false, err
	}
	muted = !muted
	return muted, p.SetMuted(ctx, muted)
}

// Theme returns the stored theme, light when unset or unrecognised.
func (p *Prefs) Theme(ctx context.Context) (string, error) {
	v, err := p.get(ctx, ThemeKey)
	if err != nil {
		return ThemeLight, err
	}
	if v == ThemeDark {
		return ThemeDark, nil
	}
	return ThemeLight, nil
}

// SetTheme stores name, which must be light or dark.
func (p *Prefs) SetTheme(ctx context.Context, name string) error {
	if name != ThemeLight && name != ThemeDark {
		return fmt.Errorf("unknown theme %q", name)
	}
	return p.put(ctx, ThemeKey, name)
}

// ToggleTheme switches between light and dark and returns the new theme.
func (p *Prefs) ToggleTheme(ctx context.Context) (string, error) {
	cur, err := p.Theme(ctx)
	if err != nil {
		return cur, err
	}
	next := ThemeDark
	if cur == ThemeDark {
		next = ThemeLight
	}
	return next, p.SetTheme(ctx, next)
}

func (p *Prefs) get(ctx context.Context, key string) (string, error) {
	data, err := p.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (p *Prefs) put(ctx context.Context, key, value string) error {
	if err := p.kv.Put(ctx, key, []byte(value)); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}
