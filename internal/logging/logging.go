// Package logging builds the per-invocation logger: warnings on stderr and,
// when enabled, a rotating log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/osteele/devlaunch/internal/config"
	"github.com/osteele/devlaunch/internal/project"
)

const mebibyte = 1 << 20

// Options are per-run overrides from the command line.
type Options struct {
	Verbose bool      // log DEBUG to every sink
	NoFile  bool      // skip the log file for this run
	Stderr  io.Writer // defaults to os.Stderr
}

// New returns a logger that writes warnings (or everything, when verbose) to
// stderr. It is used until the config has been read, then passed to Configure.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	logger.AddHook(stderrHook(opts))
	logger.SetLevel(stderrLevel(opts))
	return logger
}

// Configure points logger at the sinks described by cfg. The returned Closer
// releases the log file and must be closed before exit.
func Configure(logger *logrus.Logger, cfg config.LoggingConfig, opts Options) (io.Closer, error) {
	hooks := make(logrus.LevelHooks)
	hooks.Add(stderrHook(opts))
	level := stderrLevel(opts)

	var closer io.Closer = nopCloser{}
	var err error
	if cfg.Enabled && !opts.NoFile {
		var file *lumberjack.Logger
		file, err = openFile(cfg)
		if err == nil {
			fileLevel := ParseLevel(cfg.Level)
			if opts.Verbose {
				fileLevel = logrus.DebugLevel
			}
			hooks.Add(&writer.Hook{Writer: file, LogLevels: levelsUpTo(fileLevel)})
			level = max(level, fileLevel)
			closer = file
		}
	}

	logger.ReplaceHooks(hooks)
	logger.SetLevel(level)
	return closer, err
}

// ParseLevel maps a config level name to a logrus level. CRITICAL maps to
// FatalLevel as a threshold only.
func ParseLevel(name string) logrus.Level {
	switch strings.ToUpper(name) {
	case config.LevelDebug:
		return logrus.DebugLevel
	case config.LevelWarning:
		return logrus.WarnLevel
	case config.LevelError:
		return logrus.ErrorLevel
	case config.LevelCritical:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// FilePath returns the expanded log file location.
func FilePath(cfg config.LoggingConfig) string {
	home, _ := os.UserHomeDir()
	return project.ExpandHome(cfg.File, home)
}

func openFile(cfg config.LoggingConfig) (*lumberjack.Logger, error) {
	path := FilePath(cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    megabytes(cfg.MaxBytes),
		MaxBackups: cfg.BackupCount,
	}, nil
}

// megabytes converts a byte budget to lumberjack's whole-megabyte unit,
// rounding up.
func megabytes(maxBytes int64) int {
	if maxBytes <= 0 {
		return 1
	}
	return int((maxBytes + mebibyte - 1) / mebibyte)
}

func stderrHook(opts Options) logrus.Hook {
	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	return &writer.Hook{Writer: w, LogLevels: levelsUpTo(stderrLevel(opts))}
}

func stderrLevel(opts Options) logrus.Level {
	if opts.Verbose {
		return logrus.DebugLevel
	}
	return logrus.WarnLevel
}

// levelsUpTo returns every level at least as severe as threshold.
func levelsUpTo(threshold logrus.Level) []logrus.Level {
	var levels []logrus.Level
	for _, l := range logrus.AllLevels {
		if l <= threshold {
			levels = append(levels, l)
		}
	}
	return levels
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
