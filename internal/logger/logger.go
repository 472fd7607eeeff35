package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Setup configures the process-wide logrus logger. verbosity is one of
// "info", "debug", "trace"; anything else falls back to info.
func Setup(verbosity string) {
	logrus.SetFormatter(&logrus.TextFormatter{TimestampFormat: time.StampMilli, FullTimestamp: true})

	switch verbosity {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "trace":
		logrus.SetLevel(logrus.TraceLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}
