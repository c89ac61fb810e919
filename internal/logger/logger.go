package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/glowup/internal/constants"
)

var (
	// Logger is the global logger instance. It stays nil until Init, which turns every helper
	// below into a no-op for library code and tests.
	Logger *log.Logger

	rotator *lumberjack.Logger
)

// Config holds logger configuration
type Config struct {
	Debug   bool
	DataDir string
	// Stderr mirrors output to stderr at info level; the daemon and serve commands set it
	Stderr bool
}

// Init points the global logger at <dataDir>/logs/glowup.log.
func Init(cfg Config) error {
	logDir := filepath.Join(cfg.DataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	rotator = &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}

	var writer io.Writer = rotator
	if cfg.Debug || cfg.Stderr {
		writer = io.MultiWriter(os.Stderr, rotator)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           levelFor(cfg),
		Prefix:          constants.AppName,
	})

	return nil
}

func levelFor(cfg Config) log.Level {
	switch {
	case cfg.Debug:
		return log.DebugLevel
	case cfg.Stderr:
		return log.InfoLevel
	}
	return log.WarnLevel
}

// Close flushes and closes the log file. Later calls log nowhere.
func Close() error {
	Logger = nil
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
