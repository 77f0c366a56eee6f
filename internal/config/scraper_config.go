package config

import (
	"fmt"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
	"time"
)

type ScraperConfig struct {
	BaseURL              string        `mapstructure:"base_url"`
	UserAgent            string        `mapstructure:"user_agent"`
	Referer              string        `mapstructure:"referer"`
	Query                string        `mapstructure:"query"`
	City                 string        `mapstructure:"city"`
	Scene                string        `mapstructure:"scene"`
	PageSize             int           `mapstructure:"page_size"`
	MaxPages             int           `mapstructure:"max_pages"`
	MaxRetries           int           `mapstructure:"max_retries"`
	RetryDelay           time.Duration `mapstructure:"retry_delay"`
	MinPageDelay         time.Duration `mapstructure:"min_page_delay"`
	MaxPageDelay         time.Duration `mapstructure:"max_page_delay"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
	MaxRequestsPerSecond float32       `mapstructure:"max_requests_per_second"`
	CloudflareBypass     bool          `mapstructure:"cloudflare_bypass"`
	CookieFile           string        `mapstructure:"cookie_file"`
	Backup               bool          `mapstructure:"backup"`
	BackupDir            string        `mapstructure:"backup_dir"`
	Schedule             string        `mapstructure:"schedule"`
}

func (config ScraperConfig) validate() error {
	var errs []error

	if config.BaseURL == "" {
		errs = append(errs, fmt.Errorf("missing variable: base_url"))
	}
	if config.Query == "" {
		errs = append(errs, fmt.Errorf("missing variable: query"))
	}
	if config.PageSize <= 0 || config.PageSize > 100 {
		errs = append(errs, fmt.Errorf("page_size must be between 1 and 100"))
	}
	if config.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("max_pages must be non-negative"))
	}
	if config.MaxRetries <= 0 {
		errs = append(errs, fmt.Errorf("max_retries must be greater than zero"))
	}
	if config.MinPageDelay < 0 || config.MaxPageDelay < config.MinPageDelay {
		errs = append(errs, fmt.Errorf("page delay bounds are invalid: min %v, max %v",
			config.MinPageDelay, config.MaxPageDelay))
	}
	if config.CookieFile == "" {
		errs = append(errs, fmt.Errorf("missing variable: cookie_file"))
	}
	if config.Backup && config.BackupDir == "" {
		errs = append(errs, fmt.Errorf("missing variable: backup_dir"))
	}
	if config.Schedule != "" {
		if _, err := cron.ParseStandard(config.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("invalid schedule %q: %w", config.Schedule, err))
		}
	}

	if len(errs) > 0 {
		return createMultiError(errs)
	}

	return nil
}

func (config ScraperConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("scraper.base_url", "https://www.zhipin.com/wapi/zpgeek/search/joblist.json")
	v.SetDefault("scraper.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 "+
		"(KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	v.SetDefault("scraper.referer", "https://www.zhipin.com/web/geek/job")
	v.SetDefault("scraper.query", "AI")
	v.SetDefault("scraper.city", "101010100")
	v.SetDefault("scraper.scene", "1")
	v.SetDefault("scraper.page_size", 30)
	v.SetDefault("scraper.max_pages", 0)
	v.SetDefault("scraper.max_retries", 3)
	v.SetDefault("scraper.retry_delay", 5*time.Second)
	v.SetDefault("scraper.min_page_delay", 3*time.Second)
	v.SetDefault("scraper.max_page_delay", 8*time.Second)
	v.SetDefault("scraper.request_timeout", 30*time.Second)
	v.SetDefault("scraper.max_requests_per_second", 1)
	v.SetDefault("scraper.cloudflare_bypass", true)
	v.SetDefault("scraper.cookie_file", "data/cookies.json")
	v.SetDefault("scraper.backup", false)
	v.SetDefault("scraper.backup_dir", "backups")
	v.SetDefault("scraper.schedule", "")
}
