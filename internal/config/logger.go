package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger writes structured log lines to ~/.local/share/pinchat/pinchat.log.
// A nil or zero Logger discards everything, so callers never need to check.
type Logger struct {
	file *os.File
	zl   *zap.SugaredLogger
}

// logFilePath returns the path to the pinchat log file.
func logFilePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName+".log"), nil
}

// LogPath returns the log file path, or "" when it cannot be determined.
func LogPath() string {
	p, err := logFilePath()
	if err != nil {
		return ""
	}
	return p
}

// NewLogger creates a logger that appends to the pinchat log file at the
// given level. If the file cannot be opened the logger discards output.
func NewLogger(level string) *Logger {
	p, err := logFilePath()
	if err != nil {
		return &Logger{}
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return &Logger{}
	}
	l := NewLoggerTo(f, level)
	l.file = f
	return l
}

// NewLoggerTo creates a logger writing JSON lines to w.
func NewLoggerTo(w io.Writer, level string) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), ParseLogLevel(level))
	return &Logger{zl: zap.New(core).Sugar()}
}

// ParseLogLevel maps a preference value to a zap level, defaulting to info.
func ParseLogLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func (l *Logger) sugar() *zap.SugaredLogger {
	if l == nil || l.zl == nil {
		return zap.NewNop().Sugar()
	}
	return l.zl
}

// Printf writes an info-level log line.
func (l *Logger) Printf(format string, args ...any) {
	l.sugar().Infof(format, args...)
}

// Debugf writes a debug-level log line.
func (l *Logger) Debugf(format string, args ...any) {
	l.sugar().Debugf(format, args...)
}

// Errorf writes an error-level log line.
func (l *Logger) Errorf(format string, args ...any) {
	l.sugar().Errorf(format, args...)
}

// Close flushes and closes the log file.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	if l.zl != nil {
		_ = l.zl.Sync()
	}
	if l.file != nil {
		l.file.Close()
	}
}
