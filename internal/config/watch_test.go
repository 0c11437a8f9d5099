package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "progression:\n  weekly_target: 5\n")

	w, err := NewWatcher(path, 20*time.Millisecond, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(c *Config) { got <- c }) }()

	// Invalid edits are skipped; the next valid one is delivered.
	writeFile(t, path, "progression:\n  weekly_target: -1\n")
	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, "progression:\n  weekly_target: 9\n")

	select {
	case cfg := <-got:
		require.Equal(t, 9, cfg.Progression.WeeklyTarget)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload delivered")
	}

	w.Stop()
	w.Stop()
	require.NoError(t, <-done)
}

func TestWatcher_ContextCancelStops(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "sub", "config.yaml"), 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, nil) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
