package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tagz/internal/config"

	"github.com/sirupsen/logrus"
)

func TestConfigureJSONAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()

	Configure(logger, config.Config{LogLevel: "warn", LogFormat: "json"}, &buf)

	logger.Info("hidden")
	logger.WithField("tag", "holiday").Warn("visible")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one entry, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json entry: %v", err)
	}
	if entry["msg"] != "visible" || entry["tag"] != "holiday" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestConfigureUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()

	Configure(logger, config.Config{LogLevel: "loud", LogFormat: "text"}, &buf)

	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("expected info level, got %s", logger.GetLevel())
	}
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Errorf("expected fallback warning, got %q", buf.String())
	}
}

func TestConfigureWritesRotatingFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "tagz.log")
	logger := logrus.New()

	Configure(logger, config.Config{LogLevel: "info", LogFile: path, LogMaxSizeMB: 1}, &buf)
	logger.Info("to both")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") {
		t.Errorf("expected entry in file, got %q", string(data))
	}
	if !strings.Contains(buf.String(), "to both") {
		t.Errorf("expected entry on stdout writer, got %q", buf.String())
	}
}
