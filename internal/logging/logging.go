package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New builds the application logger. JSON output is meant for the deployed
// scheduler environment; the text formatter is for running locally.
func New(level string, jsonOutput bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}
