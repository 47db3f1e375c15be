package utils

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Global logger instance
var Logger = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return l
}

func SetLevel(level string) {
	switch strings.ToLower(level) {
	case "trace":
		Logger.SetLevel(logrus.TraceLevel)
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "info":
		Logger.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// LoggerOr returns l, or the global logger when l is nil.
func LoggerOr(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	return Logger
}
