// Package logging centralizes how a Chord node builds its logger: a
// logrus.Logger with a prefixed text formatter, optionally hooked to a
// log file.
package logging

import (
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Options configures logger construction.
type Options struct {
	// Level is one of logrus's level names: debug, info, warn, error.
	Level string
	// FilePath, if non-empty, additionally writes log entries to this
	// file via lfshook; the file receives only entries that pass Level,
	// the same as stderr.
	FilePath string
}

// LevelFromString parses a level name, defaulting to Debug on a bad or
// empty input.
func LevelFromString(s string) logrus.Level {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.DebugLevel
	}
	return lvl
}

// New builds a logrus.Logger configured per opts, with a prefixed text
// formatter and, when a file path is given, an lfshook writing the
// same entries to disk. The "chordnode" prefix field is added by Entry.
func New(opts Options) *logrus.Logger {
	logger := logrus.New()
	logger.Level = LevelFromString(opts.Level)
	logger.Formatter = new(prefixed.TextFormatter)

	if opts.FilePath != "" {
		pathMap := lfshook.PathMap{
			logrus.DebugLevel: opts.FilePath,
			logrus.InfoLevel:  opts.FilePath,
			logrus.WarnLevel:  opts.FilePath,
			logrus.ErrorLevel: opts.FilePath,
		}
		logger.Hooks.Add(lfshook.NewHook(pathMap, &logrus.JSONFormatter{}))
	}

	return logger
}

// Entry returns a per-node logrus.Entry with the prefix field
// "chordnode", tagged with the node's own identifier.
func Entry(logger *logrus.Logger, nodeID uint32) *logrus.Entry {
	return logger.WithField("prefix", "chordnode").WithField("node", nodeID)
}
