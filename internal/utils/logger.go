package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger is the leveled logger the sitemap components write to.
type Logger interface {
	LogInfo(format string, v ...interface{})
	LogError(format string, v ...interface{})
	LogDebug(format string, v ...interface{})
}

type LevelLogger struct {
	file   *os.File
	logger *log.Logger
	debug  bool
}

// NewLogger writes "[LEVEL] message" lines to w. Debug lines are dropped
// unless debug is set.
func NewLogger(w io.Writer, debug bool) *LevelLogger {
	return &LevelLogger{
		logger: log.New(w, "", log.Ldate|log.Ltime|log.Lmicroseconds),
		debug:  debug,
	}
}

// NewFileLogger logs to stdout and to a timestamped file under
// logs/<component>/.
func NewFileLogger(logsDir, component string, debug bool) (*LevelLogger, error) {
	sanitized := strings.ReplaceAll(strings.ToLower(component), " ", "_")

	componentDir := filepath.Join(logsDir, sanitized)
	if err := os.MkdirAll(componentDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(componentDir, fmt.Sprintf("%s_%s.log", sanitized, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	l := NewLogger(io.MultiWriter(os.Stdout, file), debug)
	l.file = file
	return l, nil
}

// Discard returns a logger that writes nothing.
func Discard() *LevelLogger {
	return NewLogger(io.Discard, false)
}

func (l *LevelLogger) LogInfo(format string, v ...interface{}) {
	l.log("INFO", format, v...)
}

func (l *LevelLogger) LogError(format string, v ...interface{}) {
	l.log("ERROR", format, v...)
}

func (l *LevelLogger) LogDebug(format string, v ...interface{}) {
	if !l.debug {
		return
	}
	l.log("DEBUG", format, v...)
}

func (l *LevelLogger) log(level string, format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	l.logger.Printf("[%s] %s", level, message)
}

func (l *LevelLogger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
