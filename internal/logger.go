package internal

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logLevel            = LogLevelInfo
	logOutput io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	logger              = newLogger(logOutput, logLevel)
)

func newLogger(w io.Writer, level LogLevel) zerolog.Logger {
	return zerolog.New(w).Level(level.zerologLevel()).With().Timestamp().Logger()
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logLevel = level
	logger = newLogger(logOutput, logLevel)
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogOutput redirects log output. Plain writers receive JSON lines.
func SetLogOutput(w io.Writer) {
	logOutput = w
	logger = newLogger(logOutput, logLevel)
}

// Logger returns the process logger for structured logging
func Logger() zerolog.Logger {
	return logger
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logger.Error().Msgf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logger.Warn().Msgf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logger.Info().Msgf(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}
