package contract

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the process-wide logger. It writes to stderr so stdout stays
// reserved for report output and the MCP protocol.
var Logger = newLogger()

type runIDKey struct{}

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: DateTimeFormat,
	})
	return l
}

// ParseLogLevel validates a level name such as "debug" or "warn".
func ParseLogLevel(level string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level '%s'. must be debug, info, warn, error", level)
	}
	return lvl, nil
}

// InitLogging applies the configured level and, when logFile is set, tees
// log output into a size-rotated file.
func InitLogging(level, logFile string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	Logger.SetLevel(lvl)

	if logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		Logger.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}
	return nil
}

// WithRunID tags ctx with the id of the current run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunLogger returns a log entry carrying the run id of ctx, if any.
func RunLogger(ctx context.Context) *logrus.Entry {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return Logger.WithField("run_id", id)
	}
	return logrus.NewEntry(Logger)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	Logger.WithError(err).Error("Fatal " + msg)
	os.Exit(1)
}

// LogWarn logs a warning message.
func LogWarn(msg string, err error) {
	Logger.WithError(err).Warn(msg)
}
