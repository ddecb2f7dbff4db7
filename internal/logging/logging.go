package logging

import (
	"io"
	"os"
	"strings"

	"tagz/internal/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup configures the standard logrus logger from cfg and returns it.
func Setup(cfg config.Config) *logrus.Logger {
	logger := logrus.StandardLogger()
	Configure(logger, cfg, os.Stdout)
	return logger
}

// Configure applies level, formatter and outputs to logger. When cfg.LogFile
// is set, entries go to both stdout and a rotating file.
func Configure(logger *logrus.Logger, cfg config.Config, stdout io.Writer) {
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	switch strings.ToLower(strings.TrimSpace(cfg.LogFormat)) {
	case "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	writers := []io.Writer{stdout}
	if file := strings.TrimSpace(cfg.LogFile); file != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   cfg.LogCompress,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))

	if err != nil {
		logger.WithField("level", cfg.LogLevel).Warn("unknown log level, falling back to info")
	}
}
