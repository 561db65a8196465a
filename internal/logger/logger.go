package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// Level represents the logging level
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes every message to a log file and the important ones to the console
type Logger struct {
	console  *log.Logger
	file     *log.Logger
	logFile  *os.File
	verbose  bool
	minLevel Level
}

var current *Logger

// Init sets up the process-wide logger.
// console receives INFO and above (DEBUG too when verbose);
// logFilePath receives everything.
func Init(console io.Writer, logFilePath string, verbose bool) error {
	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	minLevel := LevelInfo
	if verbose {
		minLevel = LevelDebug
	}

	current = &Logger{
		console:  log.New(console, "", 0),
		file:     log.New(logFile, "", log.LstdFlags),
		logFile:  logFile,
		verbose:  verbose,
		minLevel: minLevel,
	}
	return nil
}

// Close closes the log file and reverts to plain stdout output
func Close() {
	if current != nil && current.logFile != nil {
		current.logFile.Close()
	}
	current = nil
}

// Debug logs a debug message (file only, unless verbose)
func Debug(format string, args ...interface{}) {
	if current == nil {
		return
	}
	current.log(LevelDebug, format, args...)
}

// Info logs an info message (console + file)
func Info(format string, args ...interface{}) {
	if current == nil {
		fmt.Printf(format+"\n", args...)
		return
	}
	current.log(LevelInfo, format, args...)
}

// Warn logs a warning message (console + file)
func Warn(format string, args ...interface{}) {
	if current == nil {
		fmt.Printf("WARN: "+format+"\n", args...)
		return
	}
	current.log(LevelWarn, format, args...)
}

// Error logs an error message (console + file)
func Error(format string, args ...interface{}) {
	if current == nil {
		fmt.Printf("ERROR: "+format+"\n", args...)
		return
	}
	current.log(LevelError, format, args...)
}

func (l *Logger) log(level Level, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	l.file.Printf("[%s] %s", level, message)

	if level < l.minLevel {
		return
	}

	switch level {
	case LevelDebug:
		l.console.Printf("[DEBUG] %s", message)
	case LevelInfo:
		l.console.Printf("%s", message)
	case LevelWarn:
		l.console.Printf("⚠️  %s", message)
	case LevelError:
		l.console.Printf("❌ %s", message)
	}
}

// RouteSkipped records a route whose documentation could not be generated.
// The console gets a one-line warning; the full error goes to the log file.
func RouteSkipped(route string, err error) {
	if current == nil {
		fmt.Printf("WARN: skipping %s: %v\n", route, err)
		return
	}
	current.file.Printf("[ROUTE_SKIPPED] Route: %s, Error: %+v", route, err)
	current.log(LevelWarn, "Skipping %s: %v", route, err)
}

// RuleIgnored traces a validation rule that contributed nothing to a parameter
func RuleIgnored(param, rule string) {
	Debug("Ignoring rule %q on parameter %s", rule, param)
}

// GetLogFilePath returns the path to the current log file
func GetLogFilePath() string {
	if current != nil && current.logFile != nil {
		return current.logFile.Name()
	}
	return ""
}

// IsVerbose returns whether verbose logging is enabled
func IsVerbose() bool {
	return current != nil && current.verbose
}
