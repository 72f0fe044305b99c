package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog logger scoped to one part of the pipeline
type Logger struct {
	logger zerolog.Logger
}

// Fields represents log fields
type Fields map[string]interface{}

// Default is the process-wide logger instance
var Default *Logger

// Init initializes the process logger. Development gets a console
// writer; production writes JSON lines for log collectors.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(getLogLevel())

	var zl zerolog.Logger
	if os.Getenv("LIQUORFY_ENVIRONMENT") == "production" {
		zl = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		zl = zerolog.New(out).With().Timestamp().Logger()
	}

	Default = &Logger{logger: zl}
}

// getLogLevel resolves the level from LOG_LEVEL, falling back to the
// environment: production runs at info, everything else at debug
func getLogLevel() zerolog.Level {
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if level, err := zerolog.ParseLevel(levelStr); err == nil {
			return level
		}
		return zerolog.InfoLevel
	}
	if os.Getenv("LIQUORFY_ENVIRONMENT") == "production" {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// WithFields creates a new logger with fields
func (l *Logger) WithFields(fields Fields) *Logger {
	next := l.logger.With()
	for k, v := range fields {
		next = next.Interface(k, v)
	}
	return &Logger{logger: next.Logger()}
}

// WithField creates a new logger with a single field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{logger: l.logger.With().Interface(key, value).Logger()}
}

// Debug returns a debug event
func (l *Logger) Debug() *zerolog.Event {
	return l.logger.Debug()
}

// Info returns an info event
func (l *Logger) Info() *zerolog.Event {
	return l.logger.Info()
}

// Warn returns a warn event
func (l *Logger) Warn() *zerolog.Event {
	return l.logger.Warn()
}

// Error returns an error event
func (l *Logger) Error() *zerolog.Event {
	return l.logger.Error()
}

// Global functions for code that does not carry a logger around

// Debug logs a debug message
func Debug(format string, v ...interface{}) {
	if Default == nil {
		Init()
	}
	Default.Debug().Msgf(format, v...)
}

// Info logs an info message
func Info(format string, v ...interface{}) {
	if Default == nil {
		Init()
	}
	Default.Info().Msgf(format, v...)
}

// Warn logs a warning message
func Warn(format string, v ...interface{}) {
	if Default == nil {
		Init()
	}
	Default.Warn().Msgf(format, v...)
}

// Error logs an error message
func Error(format string, v ...interface{}) {
	if Default == nil {
		Init()
	}
	Default.Error().Msgf(format, v...)
}

// ForChain creates a logger scoped to one retailer chain
func ForChain(chain string) *Logger {
	if Default == nil {
		Init()
	}
	return Default.WithField("chain", chain)
}

// ForRun creates a logger scoped to one ingestion run
func ForRun(chain, runID string) *Logger {
	if Default == nil {
		Init()
	}
	return Default.WithFields(Fields{"chain": chain, "run_id": runID})
}

// ForWorker creates a logger for the worker
func ForWorker() *Logger {
	if Default == nil {
		Init()
	}
	return Default.WithField("component", "worker")
}

// ForFeed creates a logger for the change feed publisher
func ForFeed() *Logger {
	if Default == nil {
		Init()
	}
	return Default.WithField("component", "feed")
}

// ForSweeper creates a logger for the freshness sweeper
func ForSweeper() *Logger {
	if Default == nil {
		Init()
	}
	return Default.WithField("component", "sweeper")
}
