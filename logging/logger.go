package logging

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// Init configures the global logrus logger.
// In production it emits JSON for log aggregation, otherwise human-readable text.
func Init(production bool, level string) {
	log.SetOutput(os.Stdout)
	if production {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// WithCode returns an entry scoped to a single reward code.
func WithCode(code string) *log.Entry {
	return log.WithField("code", code)
}
