package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/glowup/internal/constants"
)

func TestInit(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	if err := Init(Config{DataDir: dataDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Close() })

	logDir := filepath.Join(dataDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	// Warn is the default threshold, so this reaches the file
	Warn("Test warning message", "key", "value")
	Debug("Test debug message")

	if _, err := os.Stat(filepath.Join(logDir, constants.LogFileName)); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, DataDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Close() })

	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", Logger.GetLevel())
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		cfg  Config
		want log.Level
	}{
		{Config{}, log.WarnLevel},
		{Config{Stderr: true}, log.InfoLevel},
		{Config{Debug: true, Stderr: true}, log.DebugLevel},
	}
	for _, tt := range tests {
		if got := levelFor(tt.cfg); got != tt.want {
			t.Errorf("levelFor(%+v) = %v, want %v", tt.cfg, got, tt.want)
		}
	}
}

func TestClose(t *testing.T) {
	if err := Init(Config{DataDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	if err := Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if Logger != nil {
		t.Error("Logger should be nil after Close")
	}
	if err := Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	Warn("after close")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// None of these should panic
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}
