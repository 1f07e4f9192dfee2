package logger

import (
	"io"
	"os"
	"path/filepath"

	"customer-dashboard-svc/src/internal/config"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger from the logs section.
func Init(cfg *config.Configuration) {
	logrus.SetLevel(parseLevel(cfg.Logs.Level))

	if cfg.Logs.EnableJSONOutput {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logrus.SetOutput(output(cfg.Logs.Path))
}

func parseLevel(level string) logrus.Level {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}

func output(path string) io.Writer {
	if path == "" {
		return os.Stdout
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to create log directory, logging to stdout only")
		return os.Stdout
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Warn("Failed to open log file, logging to stdout only")
		return os.Stdout
	}

	return io.MultiWriter(os.Stdout, file)
}
