package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

type ImporterConfig struct {
	JSONDir     string        `mapstructure:"json_dir"`
	RecordDelay time.Duration `mapstructure:"record_delay"`
	FileDelay   time.Duration `mapstructure:"file_delay"`
}

func (config ImporterConfig) validate() error {
	if config.JSONDir == "" {
		return fmt.Errorf("missing variable: json_dir")
	}
	if config.RecordDelay < 0 || config.FileDelay < 0 {
		return fmt.Errorf("import delays must be non-negative")
	}
	return nil
}

func (config ImporterConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("importer.json_dir", "json_responses")
	v.SetDefault("importer.record_delay", 100*time.Millisecond)
	v.SetDefault("importer.file_delay", 500*time.Millisecond)
}

type MetricsConfig struct {
	// Address of the /metrics listener, e.g. ":9100". Empty disables it.
	Address string `mapstructure:"address"`
}

func (config MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.address", "")
}

type NotifierConfig struct {
	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

func (config NotifierConfig) Enabled() bool {
	return config.TelegramToken != "" && config.TelegramChatID != 0
}

func (config NotifierConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("notifier.telegram_token", "")
	v.SetDefault("notifier.telegram_chat_id", 0)
}

func (config NotifierConfig) bindEnvironmentVariables(v *viper.Viper) error {
	var errs []error
	if err := v.BindEnv("notifier.telegram_token", "TELEGRAM_TOKEN"); err != nil {
		errs = append(errs, err)
	}

	if err := v.BindEnv("notifier.telegram_chat_id", "TELEGRAM_CHAT_ID"); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}
