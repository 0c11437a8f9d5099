// Package logging builds the garden's zap logger. Output goes to a file so
// the terminal UI stays clean.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFileName is the log file created in the state directory.
const DefaultFileName = "garden.log"

// Options selects level, encoding and destination.
type Options struct {
	// Level is debug, info, warn or error; "off" disables logging.
	Level string
	// Format is json (production encoder) or console (development encoder).
	Format string
	// File receives output, created with its parent directory if needed.
	// "stderr" and "stdout" are accepted as is.
	File string
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	if opts.Level == "off" {
		return zap.NewNop(), nil
	}
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}

	config := zap.NewProductionConfig()
	if opts.Format == "console" {
		config = zap.NewDevelopmentConfig()
	}
	config.Level = zap.NewAtomicLevelAt(level)

	out := opts.File
	if out == "" {
		out = "stderr"
	}
	if out != "stderr" && out != "stdout" {
		if err := os.MkdirAll(filepath.Dir(out), 0o700); err != nil {
			return nil, fmt.Errorf("creating log dir: %w", err)
		}
	}
	config.OutputPaths = []string{out}
	config.ErrorOutputPaths = []string{out}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
