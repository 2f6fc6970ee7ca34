package config

import (
    "os"

    "github.com/sirupsen/logrus"
)

// NewLogger builds the process logger from LogLevel and LogFormat.  An
// unknown level falls back to info.
func (c Config) NewLogger() *logrus.Logger {
    l := logrus.New()
    l.SetOutput(os.Stdout)
    level, err := logrus.ParseLevel(c.LogLevel)
    if err != nil {
        level = logrus.InfoLevel
    }
    l.SetLevel(level)
    if c.LogFormat == "json" {
        l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
    } else {
        l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
    }
    return l
}
