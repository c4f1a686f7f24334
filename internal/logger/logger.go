package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogFileName is the name of the rotated log file inside the logs directory.
const LogFileName = "ssh-docker.log"

var (
	// Log is the global logger instance. It discards everything until Init or
	// InitWithFile is called.
	Log = zerolog.Nop()

	// fileWriter is the file output for logging (with rotation)
	fileWriter *lumberjack.Logger

	// testbedName is attached to every entry once a container name is known.
	testbedName string
)

// LoggingConfig holds configuration for file-based logging.
// This matches config.LoggingSettings but is duplicated here
// to avoid an import cycle.
type LoggingConfig struct {
	FileEnabled bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
}

// GetMaxSizeMB returns the max size in MB, defaulting to 10 if not set.
func (c *LoggingConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 10
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age in days, defaulting to 7 if not set.
func (c *LoggingConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max backups, defaulting to 3 if not set.
func (c *LoggingConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// SetTestbed tags all subsequent log entries with the testbed container name.
// Pass an empty string to clear.
func SetTestbed(name string) {
	testbedName = name
}

func addContext(event *zerolog.Event) *zerolog.Event {
	if testbedName != "" {
		event = event.Str("testbed", testbedName)
	}
	return event
}

func level(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func consoleWriter(out io.Writer, color bool) zerolog.ConsoleWriter {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}
}

// Init initializes console-only logging to out (stderr when nil).
// Standard output is reserved for the status record, so the console writer
// must never point at it.
func Init(debug bool, out io.Writer, color bool) {
	Log = zerolog.New(consoleWriter(out, color)).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with an additional rotated JSON file
// sink. If logsDir is empty or cfg disables file logging, this behaves like Init.
func InitWithFile(debug bool, out io.Writer, color bool, logsDir string, cfg *LoggingConfig) error {
	if logsDir == "" || cfg == nil || !cfg.FileEnabled {
		Init(debug, out, color)
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, LogFileName),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
	}

	multi := io.MultiWriter(consoleWriter(out, color), fileWriter)
	Log = zerolog.New(multi).
		Level(level(debug)).
		With().
		Timestamp().
		Logger()

	return nil
}

// CloseFileWriter closes the file writer if it exists.
func CloseFileWriter() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

// GetLogFilePath returns the path to the current log file, or empty string if file logging is disabled.
func GetLogFilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

// Debug logs a debug message
func Debug() *zerolog.Event {
	return addContext(Log.Debug())
}

// Info logs an info message
func Info() *zerolog.Event {
	return addContext(Log.Info())
}

// Warn logs a warning message
func Warn() *zerolog.Event {
	return addContext(Log.Warn())
}

// Error logs an error message
func Error() *zerolog.Event {
	return addContext(Log.Error())
}
