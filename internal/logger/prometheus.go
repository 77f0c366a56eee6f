package logger

import (
	"github.com/maxaizer/boss-scraper/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const untaggedErrorType = "untagged"

// errorCountingHook counts every error entry, and warnings only when they carry an error type.
type errorCountingHook struct{}

func (h *errorCountingHook) Fire(entry *log.Entry) error {
	errorType, tagged := entry.Data[ErrorTypeField].(string)

	if entry.Level == log.WarnLevel && !tagged {
		return nil
	}
	if !tagged {
		errorType = untaggedErrorType
	}

	metrics.ErrorsCounter.WithLabelValues(errorType).Inc()
	return nil
}

func (h *errorCountingHook) Levels() []log.Level {
	return log.AllLevels[:log.WarnLevel+1]
}

func addPrometheusHook() {
	log.AddHook(&errorCountingHook{})
}
