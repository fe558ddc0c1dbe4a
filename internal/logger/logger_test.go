package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitfantasy/qr-label/internal/config"
)

func TestNewConsoleLogger(t *testing.T) {
	log, err := New(config.LogConfig{Level: "debug", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !log.Core().Enabled(-1) {
		t.Error("Expected debug level enabled")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "verbose"}); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "label.log")
	log, err := New(config.LogConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: path,
		MaxSize:  1,
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	log.Info("label batch generated")
	log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"label batch generated"`) {
		t.Errorf("Expected JSON log line, got %s", data)
	}
}

func TestNewFileLoggerNeedsPath(t *testing.T) {
	if _, err := New(config.LogConfig{Output: "file"}); err == nil {
		t.Error("Expected error without file path")
	}
}
