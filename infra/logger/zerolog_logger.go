package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

var (
	consoleFormat atomic.Bool

	outMu  sync.RWMutex
	output io.Writer = os.Stderr
)

// NewZerologLogger creates a ZerologLogger writing to the shared output,
// stderr unless SetOutput changed it. APP_ENV=dev or SetFormat("console")
// selects the human friendly console writer. All logs include the provided
// component field.
func NewZerologLogger(component string) Logger {
	outMu.RLock()
	w := output
	outMu.RUnlock()
	if consoleFormat.Load() || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: w != os.Stderr}
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		_ = SetLevel(lvl)
	}
	return NewWithWriter(w, component)
}

// NewWithWriter creates a ZerologLogger emitting JSON lines to w.
func NewWithWriter(w io.Writer, component string) *ZerologLogger {
	z := zerolog.New(w).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

// SetLevel sets the global log level ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// SetOutput changes the destination of loggers created afterwards.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	outMu.Lock()
	output = w
	outMu.Unlock()
}

// SetFormat selects "json" or "console" output for loggers created afterwards.
func SetFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "json":
		consoleFormat.Store(false)
	case "console":
		consoleFormat.Store(true)
	default:
		return fmt.Errorf("unknown log format %s", format)
	}
	return nil
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
