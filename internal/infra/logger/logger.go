package logger

import (
	"os"

	"boss_respawn_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Components take child entries from it via
// WithField("component", ...) so every line carries its origin.
var Log = logrus.New()

// Init configures the global logger from application configuration: level
// from LOG_LEVEL, format from ENVIRONMENT.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout)
	Log.SetLevel(parseLevel(cfg.LogLevel))
	Log.SetFormatter(formatterFor(cfg.Environment))
}

// Get returns the configured global logger.
func Get() *logrus.Logger {
	return Log
}

func parseLevel(raw string) logrus.Level {
	level, err := logrus.ParseLevel(raw)
	if err != nil {
		Log.Warnf("Unknown log level %q, using info", raw)
		return logrus.InfoLevel
	}
	return level
}

// formatterFor picks machine-readable JSON for deployed environments and
// readable colored text everywhere else.
func formatterFor(environment string) logrus.Formatter {
	switch environment {
	case "production", "staging":
		return &logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		}
	default:
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
			ForceColors:     true,
		}
	}
}
