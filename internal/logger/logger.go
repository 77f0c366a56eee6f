package logger

import (
	"context"
	"fmt"
	"github.com/maxaizer/boss-scraper/internal/config"
	"github.com/maxaizer/boss-scraper/pkg/loki"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"path/filepath"
	"time"
)

const ErrorTypeField = "error_type"

const (
	ErrorTypeDb     = "db"
	ErrorTypeApi    = "boss_api"
	ErrorTypeFile   = "file"
	ErrorTypeCookie = "cookie"
	ErrorTypeTgApi  = "tg_api"
)

const defaultLogDir = "./logs"

var (
	logFile    *os.File
	lokiPusher *loki.Pusher
)

func Setup(cfg config.LoggerConfig) {

	path := cfg.OutputFile
	if path == "" {
		path = DefaultLogFile(time.Now())
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	logFile = file

	log.SetOutput(io.MultiWriter(os.Stdout, logFile))
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000 -0700",
	})
	log.SetLevel(levelFrom(cfg.LogLevel))

	addPrometheusHook()

	if cfg.LokiURL != "" {
		err = addLokiHook(context.Background(), loki.Config{
			Url:      cfg.LokiURL,
			Username: cfg.LokiUser,
			Password: cfg.LokiPassword,
			Labels:   map[string]string{"app": cfg.AppName},
		}, log.GetLevel())
		if err != nil {
			log.Errorf("Failed to enable loki logging: %v", err)
		}
	}

	log.Infof("logging to %s", path)
}

// DefaultLogFile is the per-run log file used when none is configured.
func DefaultLogFile(now time.Time) string {
	return filepath.Join(defaultLogDir, fmt.Sprintf("scraper_%s.log", now.Format("20060102_150405")))
}

func levelFrom(level config.Level) log.Level {
	switch level {
	case config.LevelDebug:
		return log.DebugLevel
	case config.LevelWarning:
		return log.WarnLevel
	case config.LevelError:
		return log.ErrorLevel
	case config.LevelFatal:
		return log.FatalLevel
	default:
		return log.InfoLevel
	}
}

func Cleanup() {
	if lokiPusher != nil {
		lokiPusher.Stop()
	}
	if logFile != nil {
		_ = logFile.Close()
	}
}
