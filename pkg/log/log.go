// Package log provides structured logging for the advisory core, backed by
// rs/zerolog. Components obtain a named logger once at construction time and
// attach contextual key/value pairs with With:
//
//	logger := log.GetLoggerWithName("scenario").With(
//		log.ComponentKey, "Predictor",
//	)
//	logger.Info("prediction completed", log.SamplesKey, n)
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Shared structured field keys. Using constants keeps field names consistent
// across components so log output stays queryable.
const (
	ComponentKey  = "component"
	ModelNameKey  = "model"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	DurationMsKey = "duration_ms"
	PredsKey      = "predictions"
	CropKey       = "crop"
	StateKey      = "state"
	SeasonKey     = "season"
	RowsKey       = "rows"
)

// Common operation and phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationLoad    = "load"
	OperationMerge   = "merge"
	PhaseTraining    = "training"
	PhaseInference   = "inference"
)

// Logger is the logging interface used throughout the module. Fields are
// passed as alternating key/value pairs.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

type zerologLogger struct {
	zl zerolog.Logger
}

var (
	mu   sync.RWMutex
	root zerolog.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// SetupLogger configures the process-wide root logger. Passing a nil writer
// keeps the current output. Intended to be called once from main.
func SetupLogger(level string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w != nil {
		root = zerolog.New(w).With().Timestamp().Logger()
	}
	root = root.Level(ToLogLevel(level))
}

// ToLogLevel converts a level name to a zerolog level, defaulting to info.
func ToLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// GetLogger returns the root logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologLogger{zl: root}
}

// GetLoggerWithName returns a logger with the given subsystem name attached.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zerologLogger{zl: root.With().Str("logger", name).Logger()}
}

func (l *zerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	appendFields(l.zl.Debug(), keysAndValues).Msg(msg)
}

func (l *zerologLogger) Info(msg string, keysAndValues ...interface{}) {
	appendFields(l.zl.Info(), keysAndValues).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	appendFields(l.zl.Warn(), keysAndValues).Msg(msg)
}

func (l *zerologLogger) Error(msg string, keysAndValues ...interface{}) {
	appendFields(l.zl.Error(), keysAndValues).Msg(msg)
}

func (l *zerologLogger) With(keysAndValues ...interface{}) Logger {
	ctx := l.zl.With()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, keysAndValues[i+1])
	}
	return &zerologLogger{zl: ctx.Logger()}
}

func appendFields(ev *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}
