package logger

import (
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func Test_DefaultLogFile_ContainsTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 17, 9, 3, 4, 0, time.UTC)
	assert.Equal(t, "logs/scraper_20240517_090304.log", DefaultLogFile(now))
}

func Test_LevelFrom(t *testing.T) {
	assert.Equal(t, log.DebugLevel, levelFrom(config.LevelDebug))
	assert.Equal(t, log.WarnLevel, levelFrom(config.LevelWarning))
	assert.Equal(t, log.ErrorLevel, levelFrom(config.LevelError))
	assert.Equal(t, log.InfoLevel, levelFrom(""))
}

func Test_ErrorCountingHook_CountsByErrorType(t *testing.T) {
	hook := &errorCountingHook{}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeDb))

	entry := log.NewEntry(log.StandardLogger()).WithField(ErrorTypeField, ErrorTypeDb)
	entry.Level = log.ErrorLevel
	assert.NoError(t, hook.Fire(entry))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeDb)))
}

func Test_ErrorCountingHook_Warnings(t *testing.T) {
	hook := &errorCountingHook{}
	tagged := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeFile))
	untagged := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(untaggedErrorType))

	plain := log.NewEntry(log.StandardLogger())
	plain.Level = log.WarnLevel
	assert.NoError(t, hook.Fire(plain))

	withType := log.NewEntry(log.StandardLogger()).WithField(ErrorTypeField, ErrorTypeFile)
	withType.Level = log.WarnLevel
	assert.NoError(t, hook.Fire(withType))

	assert.Equal(t, tagged+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeFile)))
	assert.Equal(t, untagged, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(untaggedErrorType)))
	assert.Contains(t, hook.Levels(), log.WarnLevel)
	assert.NotContains(t, hook.Levels(), log.InfoLevel)
}
